// Package money holds the decimal helpers shared by pricing, ledger and
// payment code. Amounts are stored and compared as shopspring decimals and
// rounded to cents half away from zero.
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const roundingEpsilon = 1e-12

// Tolerance is the balance below which a work order counts as fully paid.
var Tolerance = decimal.New(1, -2)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Round2Float rounds a float to two decimals after nudging it by a tiny
// epsilon so values such as 1.005 stored as 1.00499999 still round up.
func Round2Float(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	nudge := roundingEpsilon
	if x < 0 {
		nudge = -roundingEpsilon
	}
	out := decimal.NewFromFloat(x + nudge).Round(2).InexactFloat64()
	if out == 0 {
		return 0
	}
	return out
}

// FromFloat converts a float to a cent-rounded decimal.
func FromFloat(x float64) decimal.Decimal {
	return decimal.NewFromFloat(Round2Float(x))
}

// Parse converts loosely typed input (JSON numbers, numeric strings with
// separators or currency symbols) into a decimal.
func Parse(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("invalid value")
	case decimal.Decimal:
		return v, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, fmt.Errorf("invalid value")
		}
		return *v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("invalid value")
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		return Parse(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt(int64(v)), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return parseString(v)
	default:
		return decimal.Zero, fmt.Errorf("invalid value")
	}
}

// ParseOrZero is Parse that maps every failure to zero.
func ParseOrZero(value any) decimal.Decimal {
	d, err := Parse(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseString(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	}

	var b strings.Builder
	b.Grow(len(s) + 1)
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
			continue
		}
		return decimal.Zero, fmt.Errorf("invalid value")
	}
	clean := b.String()
	if clean == "" || clean == "." {
		return decimal.Zero, fmt.Errorf("invalid value")
	}
	if neg {
		clean = "-" + clean
	}
	return decimal.NewFromString(clean)
}

// Format renders an amount as a dollar string with thousands separators
// and two decimals, e.g. $1,234.56.
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, cents, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + "$" + groupThousands(whole) + "." + cents
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
