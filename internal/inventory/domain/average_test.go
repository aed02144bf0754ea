package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecomputeWeightedAverage(t *testing.T) {
	cases := []struct {
		name    string
		oldQty  int64
		oldAvg  string
		inQty   int64
		inPrice string
		want    string
	}{
		{"empty part takes incoming price", 0, "0", 5, "10", "10"},
		{"blend equal quantities", 5, "10", 5, "20", "15"},
		{"blend uneven", 3, "10", 1, "11", "10.25"},
		{"rounds to cents", 2, "1", 1, "0", "0.67"},
		{"zero denominator", 0, "12", 0, "5", "0"},
		{"negative stock cancels out", -3, "4", 3, "9", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RecomputeWeightedAverage(tc.oldQty, dec(tc.oldAvg), tc.inQty, dec(tc.inPrice))
			assert.True(t, dec(tc.want).Equal(got), "got %s want %s", got, tc.want)
		})
	}
}

func TestRecomputeWeightedAverageIsOrderIndependent(t *testing.T) {
	first := RecomputeWeightedAverage(0, decimal.Zero, 5, dec("10"))
	ab := RecomputeWeightedAverage(5, first, 5, dec("20"))

	second := RecomputeWeightedAverage(0, decimal.Zero, 5, dec("20"))
	ba := RecomputeWeightedAverage(5, second, 5, dec("10"))

	assert.True(t, ab.Equal(ba))
	assert.True(t, dec("15").Equal(ab))
}
