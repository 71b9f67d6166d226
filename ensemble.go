package dva

import (
	"math/rand"
)

// EnsembleMutate applies one of the four AdaVEA-MOO mutation strategies to
// x, chosen by a rank-dependent weighted draw (the Cauchy weight grows with
// rank, per §4.4). costCoeffs supplies c_i for the cost-aware strategy.
func EnsembleMutate(x []float64, b *Bounds, rank int, maxRank int, costCoeffs []float64, rng *rand.Rand) []float64 {
	cauchyWeight := 0.15
	if maxRank > 0 {
		cauchyWeight = 0.1 + 0.4*float64(rank)/float64(maxRank)
	}
	weights := [4]float64{
		0.40,         // Gaussian
		cauchyWeight, // Cauchy
		0.20,         // cost-aware
		0.20,         // sparsity-aware
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	draw := rng.Float64() * total
	var cum float64
	choice := 0
	for i, w := range weights {
		cum += w
		if draw <= cum {
			choice = i
			break
		}
	}

	switch choice {
	case 0:
		return gaussianMutate(x, b, rng)
	case 1:
		return cauchyMutate(x, b, rng)
	case 2:
		return costAwareMutate(x, b, costCoeffs, rng)
	default:
		return sparsityAwareMutate(x, b, rng)
	}
}

// gaussianMutate: x + N(0, 0.1*(xu-xl)) per variable.
func gaussianMutate(x []float64, b *Bounds, rng *rand.Rand) []float64 {
	y := make([]float64, len(x))
	copy(y, x)
	for i := range y {
		if b.Fixed[i] {
			continue
		}
		y[i] += 0.1 * b.Range(i) * randn(rng)
	}
	b.Clip(y)
	return y
}

// cauchyMutate: x + 0.05*C(0,1)*(xu-xl), heavy tails, clipped.
func cauchyMutate(x []float64, b *Bounds, rng *rand.Rand) []float64 {
	y := make([]float64, len(x))
	copy(y, x)
	for i := range y {
		if b.Fixed[i] {
			continue
		}
		y[i] += 0.05 * cauchyRand(0, 1, rng) * b.Range(i)
	}
	b.Clip(y)
	return y
}

// costAwareMutate: sigma_i = 0.02*range if c_i > 0.7*max(c) else 0.15*range.
func costAwareMutate(x []float64, b *Bounds, costCoeffs []float64, rng *rand.Rand) []float64 {
	y := make([]float64, len(x))
	copy(y, x)

	maxC := 0.0
	for _, c := range costCoeffs {
		if c > maxC {
			maxC = c
		}
	}
	threshold := 0.7 * maxC

	for i := range y {
		if b.Fixed[i] {
			continue
		}
		sigma := 0.15 * b.Range(i)
		if i < len(costCoeffs) && costCoeffs[i] > threshold {
			sigma = 0.02 * b.Range(i)
		}
		y[i] += sigma * randn(rng)
	}
	b.Clip(y)
	return y
}

// sparsityAwareMutate: entries near their lower bound are pushed to it with
// 90% probability (encouraging exact zeros); others take a Gaussian step.
func sparsityAwareMutate(x []float64, b *Bounds, rng *rand.Rand) []float64 {
	y := make([]float64, len(x))
	copy(y, x)
	for i := range y {
		if b.Fixed[i] {
			continue
		}
		rng10 := b.Lower[i] + 0.1*b.Range(i)
		if y[i] < rng10 {
			if rng.Float64() < 0.9 {
				y[i] = b.Lower[i]
			} else {
				y[i] += 0.1 * b.Range(i) * randn(rng)
			}
		} else {
			y[i] += 0.08 * b.Range(i) * randn(rng)
		}
	}
	b.Clip(y)
	return y
}
