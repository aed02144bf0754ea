package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type SaveRequest struct {
	Mode  string      `json:"mode"`
	Rules []RuleInput `json:"rules"`
}

// Quote is one resolved price.
type Quote struct {
	Cost  decimal.Decimal `json:"cost"`
	Price decimal.Decimal `json:"price"`
}

type Service interface {
	Get(ctx context.Context) (RuleSet, error)
	Save(ctx context.Context, req SaveRequest) (RuleSet, error)
	ResolvePrice(ctx context.Context, cost decimal.Decimal) (decimal.Decimal, error)
	Quote(ctx context.Context, costs []decimal.Decimal) ([]Quote, error)
}

var (
	ErrInvalidMode        = errors.New("invalid_mode")
	ErrInvalidRules       = errors.New("invalid_pricing_rules")
	ErrRulesNotConfigured = errors.New("pricing_rules_not_configured")
	ErrTooManyQuotes      = errors.New("too_many_quotes")
)
