package dva

import (
	"math"
	"math/rand"
	"sort"
)

// heuristicSeededPopulation builds the AdaVEA-MOO initial population of
// §4.6: a ratio fraction is drawn from four structured templates
// (cost-minimizer, FRF-minimizer, sparsity-maximizer, balanced), cycled in
// that order so each contributes an equal share, the remainder uniformly
// at random.
const heuristicShare = 0.4

func heuristicSeededPopulation(prob *Problem, n int, ratio float64, rng *rand.Rand) Population {
	pop := make(Population, n)
	nHeuristic := int(float64(n) * ratio)

	templates := []func(*Problem, *rand.Rand) []float64{
		costMinimizerSeed,
		frfMinimizerSeed,
		sparsityMaximizerSeed,
		balancedSeed,
	}

	for i := 0; i < n; i++ {
		var x []float64
		if i < nHeuristic {
			x = templates[i%len(templates)](prob, rng)
		} else {
			x = prob.Bounds.Sample(rng)
		}
		pop[i] = &Solution{X: x}
	}
	evaluatePopulation(prob, pop, 0)
	return pop
}

// jitterAndClip applies the mandatory N(0, 0.02*range) jitter of §4.6 to
// every heuristic template, then clips (and re-fixes) x against prob.Bounds.
func jitterAndClip(x []float64, prob *Problem, rng *rand.Rand) {
	for i := range x {
		x[i] += randn(rng) * 0.02 * prob.Bounds.Range(i)
	}
	prob.Bounds.Clip(x)
}

// costMinimizerSeed sets the 20 most-expensive entries (by cost coefficient)
// to xl+0.2*range, the 10 cheapest to xl+0.8*range, and the rest to
// xl+0.5*range, per §4.6.
func costMinimizerSeed(prob *Problem, rng *rand.Rand) []float64 {
	x := make([]float64, NVar)

	idx := make([]int, NVar)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return prob.CostCoeffs[idx[i]] > prob.CostCoeffs[idx[j]] })

	rank := make([]int, NVar) // rank[i] = 0 for the most expensive entry
	for pos, i := range idx {
		rank[i] = pos
	}

	for i := 0; i < NVar; i++ {
		lo, rng_ := prob.Bounds.Lower[i], prob.Bounds.Range(i)
		switch {
		case rank[i] < 20:
			x[i] = lo + 0.2*rng_
		case rank[i] >= NVar-10:
			x[i] = lo + 0.8*rng_
		default:
			x[i] = lo + 0.5*rng_
		}
	}
	jitterAndClip(x, prob, rng)
	return x
}

// frfMinimizerSeed draws every entry uniformly in [0.3,0.7] scaled to
// bounds, then boosts the fixed index set {5,12,18,27,35,41} to
// xl+0.8*range, per §4.6.
func frfMinimizerSeed(prob *Problem, rng *rand.Rand) []float64 {
	x := make([]float64, NVar)
	boost := map[int]bool{5: true, 12: true, 18: true, 27: true, 35: true, 41: true}

	for i := 0; i < NVar; i++ {
		lo, rng_ := prob.Bounds.Lower[i], prob.Bounds.Range(i)
		if boost[i] {
			x[i] = lo + 0.8*rng_
			continue
		}
		u := 0.3 + 0.4*rng.Float64()
		x[i] = lo + u*rng_
	}
	jitterAndClip(x, prob, rng)
	return x
}

// sparsityMaximizerSeed draws every entry uniformly in [0,0.1]*range+xl,
// then raises 10 randomly chosen entries into [0.6,1.0]*range+xl, per §4.6.
func sparsityMaximizerSeed(prob *Problem, rng *rand.Rand) []float64 {
	x := make([]float64, NVar)
	for i := 0; i < NVar; i++ {
		lo, rng_ := prob.Bounds.Lower[i], prob.Bounds.Range(i)
		x[i] = lo + 0.1*rng.Float64()*rng_
	}
	for _, i := range rng.Perm(NVar)[:10] {
		lo, rng_ := prob.Bounds.Lower[i], prob.Bounds.Range(i)
		u := 0.6 + 0.4*rng.Float64()
		x[i] = lo + u*rng_
	}
	jitterAndClip(x, prob, rng)
	return x
}

// balancedSeed weights each entry by 1/(c_i+0.1) (cheaper variables pulled
// higher), min-max normalizes the weights, and scales them into
// [0,0.5]*range+xl, per §4.6.
func balancedSeed(prob *Problem, rng *rand.Rand) []float64 {
	x := make([]float64, NVar)

	w := make([]float64, NVar)
	minW, maxW := math.Inf(1), math.Inf(-1)
	for i := 0; i < NVar; i++ {
		c := 0.0
		if i < len(prob.CostCoeffs) {
			c = prob.CostCoeffs[i]
		}
		w[i] = 1.0 / (c + 0.1)
		if w[i] < minW {
			minW = w[i]
		}
		if w[i] > maxW {
			maxW = w[i]
		}
	}
	span := maxW - minW

	for i := 0; i < NVar; i++ {
		norm := 0.5
		if span > 1e-12 {
			norm = (w[i] - minW) / span
		}
		x[i] = prob.Bounds.Lower[i] + 0.5*norm*prob.Bounds.Range(i)
	}
	jitterAndClip(x, prob, rng)
	return x
}

// scheduledLocalRefinement runs every cfg.RefinementPeriod generations: it
// picks the top ⌈cfg.RefinementFraction*N⌉ solutions by rank (ties by
// crowding) and applies a greedy single-variable coordinate-descent local
// search, budget cfg.RefinementBudget trials, to each. Per §4.6's
// Lamarckian probability λ(g)=g/max_generations: with probability λ the
// refined pair overwrites both x and F (Lamarckian); otherwise only F is
// overwritten, leaving x unchanged (Baldwinian).
func scheduledLocalRefinement(prob *Problem, pop Population, gen int, cfg *Config, rng *rand.Rand) Population {
	period := cfg.RefinementPeriod
	if period <= 0 {
		period = 10
	}
	if gen%period != 0 {
		return pop
	}

	fraction := cfg.RefinementFraction
	if fraction <= 0 {
		fraction = 0.1
	}
	budget := cfg.RefinementBudget
	if budget <= 0 {
		budget = 10
	}

	k := int(math.Ceil(fraction * float64(len(pop))))
	if k <= 0 {
		return pop
	}
	if k > len(pop) {
		k = len(pop)
	}

	ranked := make(Population, len(pop))
	copy(ranked, pop)
	sort.Slice(ranked, func(i, j int) bool { return crowdedComparison(ranked[i], ranked[j]) })

	maxGen := cfg.MaxGenerations
	if maxGen <= 0 {
		maxGen = 1
	}
	lambda := float64(gen) / float64(maxGen)
	if lambda > 1 {
		lambda = 1
	}

	for i := 0; i < k; i++ {
		s := ranked[i]
		refinedX, refinedF := coordinateDescentRefine(prob, s, budget, rng)
		if refinedF == nil {
			continue
		}
		if rng.Float64() < lambda {
			s.X = refinedX
			s.F = refinedF
		} else {
			s.F = refinedF
		}
	}
	return pop
}

// coordinateDescentRefine runs budget trials of single-variable
// coordinate-descent on s, each trying both s.X[j]+delta and s.X[j]-delta
// for a randomly chosen free variable j (delta=0.05*range), greedily
// keeping any candidate that dominates the current incumbent. Returns nil,
// nil if no trial ever improved on s.
func coordinateDescentRefine(prob *Problem, s *Solution, budget int, rng *rand.Rand) ([]float64, []float64) {
	const delta = 0.05
	bestX := append([]float64(nil), s.X...)
	bestF := s.F
	improved := false

	for t := 0; t < budget; t++ {
		j := rng.Intn(len(bestX))
		if prob.Bounds.Fixed[j] {
			continue
		}
		for _, sign := range [2]float64{1, -1} {
			candX := append([]float64(nil), bestX...)
			candX[j] += sign * delta * prob.Bounds.Range(j)
			prob.Bounds.Clip(candX)
			candF := prob.Evaluate(candX)
			if Dominates(&Solution{X: candX, F: candF}, &Solution{X: bestX, F: bestF}) {
				bestX, bestF = candX, candF
				improved = true
			}
		}
	}
	if !improved {
		return nil, nil
	}
	return bestX, bestF
}

func sumObjectives(f []float64) float64 {
	var sum float64
	for _, v := range f {
		sum += v
	}
	return sum
}
