package num

import (
	"math"

	"github.com/shopspring/decimal"
)

var Sqrt3 = math.Sqrt(3)

// Clamp limits x to [lo, hi]. NaN collapses to lo.
func Clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return lo
	}
	return math.Min(hi, math.Max(lo, x))
}

// CosPhi is the power factor clamped to [0, 1].
func CosPhi(pf float64) float64 {
	return Clamp(pf, 0, 1)
}

func SinPhi(pf float64) float64 {
	c := CosPhi(pf)
	return math.Sqrt(math.Max(0, 1-c*c))
}

// Finite returns x, or 0 when x is NaN or infinite.
func Finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// Or returns v when it is a positive finite number, otherwise def.
func Or(v, def float64) float64 {
	if v > 0 && !math.IsInf(v, 1) {
		return v
	}
	return def
}

// Fixed formats v with the given number of decimals, rounding half away
// from zero. Non-finite values format as an empty string.
func Fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
