package dva

import (
	"math/rand"
	"sort"
)

// unifrnd generates a random float64 between min and max.
func unifrnd(min, max float64, rng *rand.Rand) float64 {
	if rng == nil {
		return min + rand.Float64()*(max-min)
	}
	return min + rng.Float64()*(max-min)
}

// unifrndVec generates a vector of random float64 values between min and max.
func unifrndVec(min, max float64, size int, rng *rand.Rand) []float64 {
	vec := make([]float64, size)
	for i := range vec {
		vec[i] = unifrnd(min, max, rng)
	}
	return vec
}

// randn generates a normally distributed random number.
func randn(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.NormFloat64()
	}
	return rng.NormFloat64()
}

// sortByFirstObjective sorts sols by F[0] ascending. Used on the full final
// population in RunNSGA2.
func sortByFirstObjective(sols []*Solution) {
	sort.Slice(sols, func(i, j int) bool { return sols[i].F[0] < sols[j].F[0] })
}
