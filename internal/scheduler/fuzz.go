package scheduler

import "math"

// FuzzFactor is the maximum relative perturbation applied to an interval.
const FuzzFactor = 0.05

// RandSource yields uniform values in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type RandSource interface {
	Float64() float64
}

// fuzzInterval spreads due dates by up to ±FuzzFactor. A nil source leaves
// the interval untouched.
func fuzzInterval(days, maxInterval int, r RandSource) int {
	if r == nil {
		return days
	}
	f := 1 + (2*r.Float64()-1)*FuzzFactor
	return clampInterval(int(math.Round(float64(days)*f)), maxInterval)
}
