package domain

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/pkg/money"
)

var hundred = decimal.NewFromInt(100)

// ResolvePrice returns the sale price for cost under set. It never fails:
// a nil set, a negative cost, an unknown mode or a cost outside every tier
// yields the raw cost.
func ResolvePrice(cost decimal.Decimal, set *RuleSet) decimal.Decimal {
	if set == nil || cost.IsNegative() {
		return cost
	}
	tier, ok := MatchTier(cost, set.Rules)
	if !ok {
		return cost
	}
	return Apply(set.Mode, cost, tier.ValuePercent)
}

// MatchTier returns the first tier containing cost.
func MatchTier(cost decimal.Decimal, tiers []Tier) (Tier, bool) {
	for _, tier := range tiers {
		if tier.Contains(cost) {
			return tier, true
		}
	}
	return Tier{}, false
}

// Apply prices cost with percent under mode. Margins at or above 100% have
// no finite price and fall back to cost.
func Apply(mode string, cost, percent decimal.Decimal) decimal.Decimal {
	rate := percent.Div(hundred)
	switch mode {
	case ModeMargin:
		if percent.GreaterThanOrEqual(hundred) {
			return cost
		}
		return money.Round2(cost.Div(decimal.NewFromInt(1).Sub(rate)))
	case ModeMarkup:
		return money.Round2(cost.Mul(decimal.NewFromInt(1).Add(rate)))
	default:
		return cost
	}
}
