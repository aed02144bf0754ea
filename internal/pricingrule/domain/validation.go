package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/pkg/money"
)

// RuleInput is a tier as submitted by the settings screen. Numbers may
// arrive as JSON numbers or strings.
type RuleInput struct {
	From         any `json:"from"`
	To           any `json:"to"`
	ValuePercent any `json:"value_percent"`
}

// RuleError names the rule that failed validation.
type RuleError struct {
	Index int
	Msg   string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule #%d: %s", e.Index, e.Msg)
}

func (e *RuleError) Unwrap() error {
	return ErrInvalidRules
}

// NormalizeMode lowercases mode and checks it against the known modes.
func NormalizeMode(mode string) (string, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != ModeMargin && mode != ModeMarkup {
		return "", ErrInvalidMode
	}
	return mode, nil
}

// ValidateRules parses rules and returns them sorted by From.
func ValidateRules(mode string, rules []RuleInput) ([]Tier, error) {
	tiers := make([]Tier, 0, len(rules))
	for i, r := range rules {
		n := i + 1

		from, err := money.Parse(r.From)
		if err != nil {
			return nil, &RuleError{Index: n, Msg: "'from' must be a number"}
		}
		if from.IsNegative() {
			return nil, &RuleError{Index: n, Msg: "'from' must be >= 0"}
		}

		var to *decimal.Decimal
		if !isBlank(r.To) {
			parsed, err := money.Parse(r.To)
			if err != nil {
				return nil, &RuleError{Index: n, Msg: "'to' must be a number or empty"}
			}
			if parsed.IsNegative() {
				return nil, &RuleError{Index: n, Msg: "'to' must be >= 0"}
			}
			if parsed.LessThanOrEqual(from) {
				return nil, &RuleError{Index: n, Msg: "'to' must be > 'from'"}
			}
			to = &parsed
		}

		percent, err := money.Parse(r.ValuePercent)
		if err != nil {
			return nil, &RuleError{Index: n, Msg: "'value_percent' must be a number"}
		}
		if percent.IsNegative() {
			return nil, &RuleError{Index: n, Msg: "'value_percent' must be >= 0"}
		}
		if mode == ModeMargin && percent.GreaterThanOrEqual(hundred) {
			return nil, &RuleError{Index: n, Msg: "'value_percent' must be < 100 in margin mode"}
		}

		tiers = append(tiers, Tier{From: from, To: to, ValuePercent: percent})
	}

	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].From.LessThan(tiers[j].From)
	})
	return tiers, nil
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
