package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// SaveRequest leaves a setting unchanged when its field is nil.
type SaveRequest struct {
	ShopSupplyPercentage  *decimal.Decimal `json:"shop_supply_percentage"`
	ChargeForCoresDefault *bool            `json:"charge_for_cores_default"`
}

type Service interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, req SaveRequest) (Settings, error)
}

var ErrInvalidPercentage = errors.New("invalid_shop_supply_percentage")
