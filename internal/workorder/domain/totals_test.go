package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func TestCalculateSingleBlock(t *testing.T) {
	totals := Calculate(CalculationInput{
		Blocks: []LaborBlock{{
			Description: "Replace brake pads",
			Hours:       dec("2"),
			RateCode:    "standard",
			Parts: []PartLine{
				{PartNumber: "BRK-1", Qty: 4, Price: dec("25"), CoreCharge: decPtr("10"), MiscCharge: decPtr("5")},
				{PartNumber: "FLT-2", Qty: 1, Price: dec("12.50")},
			},
		}},
		Rates:             map[string]decimal.Decimal{"standard": dec("100")},
		ShopSupplyPercent: dec("5"),
	})

	require.Len(t, totals.Blocks, 1)
	block := totals.Blocks[0]
	assertAmount(t, "200", block.LaborTotal, "labor")
	assertAmount(t, "112.50", block.PartsTotal, "parts")
	assertAmount(t, "40", block.CoreTotal, "core")
	assertAmount(t, "5", block.MiscTotal, "misc")
	assertAmount(t, "10", block.ShopSupplyTotal, "supply")
	assertAmount(t, "210", block.LaborFullTotal, "labor full")
	assertAmount(t, "367.50", block.GrandTotal, "block grand")
	assertAmount(t, "367.50", totals.GrandTotal, "grand")
}

func TestCalculateSumsBlocks(t *testing.T) {
	totals := Calculate(CalculationInput{
		Blocks: []LaborBlock{
			{Hours: dec("1.5"), RateCode: "standard"},
			{Hours: dec("1"), RateCode: "after_hours", Parts: []PartLine{{Qty: 2, Price: dec("9.99")}}},
			{Hours: dec("3"), RateCode: "unknown"},
		},
		Rates: map[string]decimal.Decimal{
			"standard":    dec("90"),
			"after_hours": dec("135"),
		},
		ShopSupplyPercent: dec("10"),
	})

	require.Len(t, totals.Blocks, 3)
	assertAmount(t, "0", totals.Blocks[2].LaborTotal, "unknown rate")
	assertAmount(t, "270", totals.LaborTotal, "labor")
	assertAmount(t, "19.98", totals.PartsTotal, "parts")
	assertAmount(t, "27", totals.ShopSupplyTotal, "supply")
	assertAmount(t, "316.98", totals.GrandTotal, "grand")

	sum := decimal.Zero
	for _, b := range totals.Blocks {
		sum = sum.Add(b.GrandTotal)
	}
	assertAmount(t, totals.GrandTotal.String(), sum, "block sum")
}

func TestCalculateRoundsHalfAwayFromZero(t *testing.T) {
	totals := Calculate(CalculationInput{
		Blocks: []LaborBlock{{Hours: dec("0.335"), RateCode: "standard"}},
		Rates:  map[string]decimal.Decimal{"standard": dec("3")},
	})
	assertAmount(t, "1.01", totals.LaborTotal, "labor")
}

func TestCalculateEmpty(t *testing.T) {
	totals := Calculate(CalculationInput{})
	assert.Empty(t, totals.Blocks)
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestNormalizeTotalsMissingFieldsAreZero(t *testing.T) {
	totals := NormalizeTotals(map[string]any{"labor_total": 12.5})
	assertAmount(t, "12.5", totals.LaborTotal, "labor")
	assert.True(t, totals.PartsTotal.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
	assert.NotNil(t, totals.Blocks)
	assert.Empty(t, totals.Blocks)
}

func TestNormalizeTotalsRounding(t *testing.T) {
	totals := NormalizeTotals(map[string]any{
		"labor_total": 1.005,
		"parts_total": "12.345",
		"core_total":  "$1,000.004",
		"misc_total":  json.Number("2.675"),
	})
	assertAmount(t, "1.01", totals.LaborTotal, "labor")
	assertAmount(t, "12.35", totals.PartsTotal, "parts")
	assertAmount(t, "1000", totals.CoreTotal, "core")
	assertAmount(t, "2.68", totals.MiscTotal, "misc")
}

func TestNormalizeTotalsAcceptsJSON(t *testing.T) {
	raw := []byte(`{"grand_total": 310.456, "blocks": [{"labor_total": "200", "labor_full_total": 210.004}, "junk"]}`)
	totals := NormalizeTotals(raw)
	assertAmount(t, "310.46", totals.GrandTotal, "grand")
	require.Len(t, totals.Blocks, 2)
	assertAmount(t, "200", totals.Blocks[0].LaborTotal, "block labor")
	assertAmount(t, "210", totals.Blocks[0].LaborFullTotal, "block labor full")
	assert.True(t, totals.Blocks[1].GrandTotal.IsZero())

	fromString := NormalizeTotals(string(raw))
	assertAmount(t, "310.46", fromString.GrandTotal, "string grand")
}

func TestNormalizeTotalsGarbage(t *testing.T) {
	for _, raw := range []any{nil, "not json", []byte("[1,2]"), 42, map[string]any{"grand_total": "abc", "blocks": "nope"}} {
		totals := NormalizeTotals(raw)
		assert.True(t, totals.GrandTotal.IsZero(), "%v", raw)
		assert.Empty(t, totals.Blocks, "%v", raw)
	}
}

func TestNormalizeTotalsIsIdempotent(t *testing.T) {
	first := NormalizeTotals(map[string]any{
		"labor_total":       "199.995",
		"shop_supply_total": 9.999,
		"grand_total":       "210.0049",
		"blocks":            []any{map[string]any{"parts_total": 33.333}},
	})
	second := NormalizeTotals(first)
	third := NormalizeTotals(&second)

	for _, got := range []Totals{second, third} {
		assertAmount(t, first.LaborTotal.String(), got.LaborTotal, "labor")
		assertAmount(t, first.ShopSupplyTotal.String(), got.ShopSupplyTotal, "supply")
		assertAmount(t, first.GrandTotal.String(), got.GrandTotal, "grand")
		require.Len(t, got.Blocks, 1)
		assertAmount(t, first.Blocks[0].PartsTotal.String(), got.Blocks[0].PartsTotal, "block parts")
	}
	assertAmount(t, "200", first.LaborTotal, "labor")
	assertAmount(t, "210", first.GrandTotal, "grand")
}

func TestNormalizeCalculatedTotalsUnchanged(t *testing.T) {
	calculated := Calculate(CalculationInput{
		Blocks:            []LaborBlock{{Hours: dec("1.25"), RateCode: "standard", Parts: []PartLine{{Qty: 3, Price: dec("4.99")}}}},
		Rates:             map[string]decimal.Decimal{"standard": dec("88")},
		ShopSupplyPercent: dec("7.5"),
	})
	normalized := NormalizeTotals(calculated)
	assertAmount(t, calculated.GrandTotal.String(), normalized.GrandTotal, "grand")
	assertAmount(t, calculated.ShopSupplyTotal.String(), normalized.ShopSupplyTotal, "supply")
	require.Len(t, normalized.Blocks, 1)
	assertAmount(t, calculated.Blocks[0].LaborFullTotal.String(), normalized.Blocks[0].LaborFullTotal, "labor full")
}
