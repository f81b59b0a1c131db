// Package formulas holds the small numeric helpers shared by the scoring and
// aggregation modules.
package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Percent returns actual / target * 100.
// A non-positive target yields 0; an overflow saturates at +-MaxFloat64.
func Percent(actual, target float64) float64 {
	if target <= 0 || math.IsNaN(actual) || math.IsNaN(target) {
		return 0
	}
	p := actual / target * 100
	if math.IsInf(p, 0) {
		return math.Copysign(math.MaxFloat64, p)
	}
	return p
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round rounds a float64 to n decimal places
func Round(val float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))
	return math.Round(val*multiplier) / multiplier
}
