// Cauchy distribution sampling, used by the ensemble mutation operator's
// heavy-tailed exploration strategy (§4.4).
//
// The Cauchy distribution has heavier tails than Gaussian, giving the
// ensemble mutator an occasional long jump without the cost of a full
// Levy-flight sampler.
package dva

import (
	"math"
	"math/rand"
)

// cauchyRand generates a Cauchy-distributed random number.
// If U ~ Uniform(0,1), then X = x0 + gamma * tan(pi*(U - 0.5)) ~ Cauchy(x0, gamma).
func cauchyRand(x0, gamma float64, rng *rand.Rand) float64 {
	u := rng.Float64()
	for u == 0.0 || u == 1.0 {
		u = rng.Float64()
	}

	result := x0 + gamma*math.Tan(math.Pi*(u-0.5))
	if math.IsNaN(result) || math.IsInf(result, 0) {
		u = rng.Float64()
		result = x0 + gamma*math.Tan(math.Pi*(u-0.5))
		if math.IsNaN(result) || math.IsInf(result, 0) {
			return x0
		}
	}
	return result
}

// cauchyRandVec generates a vector of independent Cauchy(x0, gamma) draws.
func cauchyRandVec(size int, x0, gamma float64, rng *rand.Rand) []float64 {
	vec := make([]float64, size)
	for i := 0; i < size; i++ {
		vec[i] = cauchyRand(x0, gamma, rng)
	}
	return vec
}
