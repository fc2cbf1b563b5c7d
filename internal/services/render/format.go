package render

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round formats v with exactly decimals fractional digits, rounding half
// away from zero. Non-finite values are rendered as NaN, +Inf or -Inf.
func Round(v float64, decimals int32) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	if decimals < 0 {
		decimals = 0
	}
	return decimal.NewFromFloat(v).StringFixed(decimals)
}
