package fxcalc

import (
	"math"
	"strings"
)

// PivotRate triangulates a from->to rate through quotes expressed against a
// common base currency: rate(from->to) = quote(base->to) / quote(base->from).
// The result is rounded to 6 decimal places. It reports false when either leg
// is missing from the quotes map, the base->from leg is zero, or the rounded
// rate is not positive (extreme pairs can round all the way down to 0).
func PivotRate(quotes map[string]float64, base, from, to string) (float64, bool) {
	b := strings.ToUpper(base)
	f := strings.ToUpper(from)
	t := strings.ToUpper(to)
	if f == t {
		return 1, true
	}
	rateBF, okBF := quotes[b+f]
	rateBT, okBT := quotes[b+t]
	if !okBF || !okBT || rateBF == 0 {
		return 0, false
	}
	rate := round6(rateBT / rateBF)
	if !IsUsableRate(rate) {
		return 0, false
	}
	return rate, true
}

// IsUsableRate reports whether a provider-supplied rate is finite and positive.
func IsUsableRate(rate float64) bool {
	return !math.IsNaN(rate) && !math.IsInf(rate, 0) && rate > 0
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
