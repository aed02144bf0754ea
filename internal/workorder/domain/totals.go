package domain

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/shopcore/pkg/money"
)

var hundred = decimal.NewFromInt(100)

// BlockTotals is the breakdown of one labor block. GrandTotal is the block
// subtotal and LaborFullTotal is labor plus its shop supply fee.
type BlockTotals struct {
	LaborTotal      decimal.Decimal `json:"labor_total"`
	PartsTotal      decimal.Decimal `json:"parts_total"`
	CoreTotal       decimal.Decimal `json:"core_total"`
	MiscTotal       decimal.Decimal `json:"misc_total"`
	ShopSupplyTotal decimal.Decimal `json:"shop_supply_total"`
	LaborFullTotal  decimal.Decimal `json:"labor_full_total"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}

type Totals struct {
	LaborTotal      decimal.Decimal `json:"labor_total"`
	PartsTotal      decimal.Decimal `json:"parts_total"`
	CoreTotal       decimal.Decimal `json:"core_total"`
	MiscTotal       decimal.Decimal `json:"misc_total"`
	ShopSupplyTotal decimal.Decimal `json:"shop_supply_total"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Blocks          []BlockTotals   `json:"blocks"`
}

// CalculationInput carries everything the calculator needs. Rates maps a
// labor rate code to its hourly rate; unknown codes bill at zero.
type CalculationInput struct {
	Blocks            []LaborBlock
	Rates             map[string]decimal.Decimal
	ShopSupplyPercent decimal.Decimal
}

// Calculate computes block and grand totals. Every intermediate amount is
// rounded to cents.
func Calculate(in CalculationInput) Totals {
	out := Totals{Blocks: make([]BlockTotals, 0, len(in.Blocks))}
	for _, block := range in.Blocks {
		bt := calculateBlock(block, in.Rates[block.RateCode], in.ShopSupplyPercent)
		out.Blocks = append(out.Blocks, bt)

		out.LaborTotal = out.LaborTotal.Add(bt.LaborTotal)
		out.PartsTotal = out.PartsTotal.Add(bt.PartsTotal)
		out.CoreTotal = out.CoreTotal.Add(bt.CoreTotal)
		out.MiscTotal = out.MiscTotal.Add(bt.MiscTotal)
		out.ShopSupplyTotal = out.ShopSupplyTotal.Add(bt.ShopSupplyTotal)
	}
	out.GrandTotal = sum(out.LaborTotal, out.PartsTotal, out.CoreTotal, out.MiscTotal, out.ShopSupplyTotal)
	return roundTotals(out)
}

func calculateBlock(block LaborBlock, rate, supplyPercent decimal.Decimal) BlockTotals {
	var bt BlockTotals
	bt.LaborTotal = money.Round2(block.Hours.Mul(rate))

	for _, line := range block.Parts {
		qty := decimal.NewFromInt(line.Qty)
		bt.PartsTotal = bt.PartsTotal.Add(money.Round2(qty.Mul(line.Price)))
		if line.CoreCharge != nil {
			bt.CoreTotal = bt.CoreTotal.Add(money.Round2(qty.Mul(*line.CoreCharge)))
		}
		if line.MiscCharge != nil {
			bt.MiscTotal = bt.MiscTotal.Add(money.Round2(*line.MiscCharge))
		}
	}

	bt.ShopSupplyTotal = money.Round2(bt.LaborTotal.Mul(supplyPercent).Div(hundred))
	bt.LaborFullTotal = bt.LaborTotal.Add(bt.ShopSupplyTotal)
	bt.GrandTotal = sum(bt.LaborTotal, bt.PartsTotal, bt.CoreTotal, bt.MiscTotal, bt.ShopSupplyTotal)
	return roundBlock(bt)
}

func sum(values ...decimal.Decimal) decimal.Decimal {
	out := decimal.Zero
	for _, v := range values {
		out = out.Add(v)
	}
	return out
}

// NormalizeTotals turns a loosely shaped totals payload into Totals. It
// accepts Totals values, JSON bytes or strings, and decoded JSON maps.
// Missing or malformed numbers become zero and every amount is rounded to
// cents, so NormalizeTotals(NormalizeTotals(x)) equals NormalizeTotals(x).
// It never fails.
func NormalizeTotals(raw any) Totals {
	fields := toMap(raw)
	out := Totals{
		LaborTotal:      field(fields, "labor_total"),
		PartsTotal:      field(fields, "parts_total"),
		CoreTotal:       field(fields, "core_total"),
		MiscTotal:       field(fields, "misc_total"),
		ShopSupplyTotal: field(fields, "shop_supply_total"),
		GrandTotal:      field(fields, "grand_total"),
		Blocks:          []BlockTotals{},
	}
	if list, ok := fields["blocks"].([]any); ok {
		for _, item := range list {
			block, _ := item.(map[string]any)
			out.Blocks = append(out.Blocks, BlockTotals{
				LaborTotal:      field(block, "labor_total"),
				PartsTotal:      field(block, "parts_total"),
				CoreTotal:       field(block, "core_total"),
				MiscTotal:       field(block, "misc_total"),
				ShopSupplyTotal: field(block, "shop_supply_total"),
				LaborFullTotal:  field(block, "labor_full_total"),
				GrandTotal:      field(block, "grand_total"),
			})
		}
	}
	return out
}

func toMap(raw any) map[string]any {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	case string:
		data = []byte(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return map[string]any{}
		}
		data = encoded
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

func field(m map[string]any, key string) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	return roundAmount(money.ParseOrZero(m[key]))
}

// roundAmount nudges by a tiny epsilon before rounding so amounts that
// arrived as binary floats just under a half cent still round up.
func roundAmount(d decimal.Decimal) decimal.Decimal {
	return money.FromFloat(d.InexactFloat64())
}

func roundBlock(b BlockTotals) BlockTotals {
	b.LaborTotal = money.Round2(b.LaborTotal)
	b.PartsTotal = money.Round2(b.PartsTotal)
	b.CoreTotal = money.Round2(b.CoreTotal)
	b.MiscTotal = money.Round2(b.MiscTotal)
	b.ShopSupplyTotal = money.Round2(b.ShopSupplyTotal)
	b.LaborFullTotal = money.Round2(b.LaborFullTotal)
	b.GrandTotal = money.Round2(b.GrandTotal)
	return b
}

func roundTotals(t Totals) Totals {
	t.LaborTotal = money.Round2(t.LaborTotal)
	t.PartsTotal = money.Round2(t.PartsTotal)
	t.CoreTotal = money.Round2(t.CoreTotal)
	t.MiscTotal = money.Round2(t.MiscTotal)
	t.ShopSupplyTotal = money.Round2(t.ShopSupplyTotal)
	t.GrandTotal = money.Round2(t.GrandTotal)
	return t
}
