// internal/domain/pricing/money.go
package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// roundingBias is nudged onto amounts before rounding so values such as 17.995,
// which arrive from floats as 17.99499..., still round up to 18.00.
var roundingBias = decimal.New(1, -9)

// Round2 rounds an amount to cents, half away from zero.
func Round2(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return amount.Sub(roundingBias).Round(2)
	}
	return amount.Add(roundingBias).Round(2)
}

// ParseMoney converts a loosely typed value into a decimal.
func ParseMoney(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint, uint64:
		u := asUint64(n)
		if u > math.MaxInt64 {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(int64(u)), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func asUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint64:
		return n
	}
	return 0
}

// MaxQuantity bounds a single line's quantity.
const MaxQuantity = math.MaxInt32

// parseQuantity accepts whole numbers in any numeric representation up to MaxQuantity.
func parseQuantity(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return checkQuantity(int64(n))
	case int32:
		return int(n), true
	case int64:
		return checkQuantity(n)
	case uint, uint64:
		u := asUint64(n)
		if u > MaxQuantity {
			return 0, false
		}
		return int(u), true
	case uint32:
		return checkQuantity(int64(n))
	case string:
		q, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return checkQuantity(q)
	}

	d, ok := ParseMoney(v)
	if !ok || !d.IsInteger() {
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromInt(MaxQuantity)) || d.LessThan(decimal.NewFromInt(-MaxQuantity)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

func checkQuantity(q int64) (int, bool) {
	if q > MaxQuantity || q < -MaxQuantity {
		return 0, false
	}
	return int(q), true
}
