package domain

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/pkg/money"
)

// RecomputeWeightedAverage blends an incoming receipt into the running
// average unit cost. It returns zero when the combined quantity is not
// positive.
func RecomputeWeightedAverage(oldQty int64, oldAvg decimal.Decimal, inQty int64, inPrice decimal.Decimal) decimal.Decimal {
	total := oldQty + inQty
	if total <= 0 {
		return decimal.Zero
	}
	value := oldAvg.Mul(decimal.NewFromInt(oldQty)).Add(inPrice.Mul(decimal.NewFromInt(inQty)))
	return money.Round2(value.Div(decimal.NewFromInt(total)))
}
