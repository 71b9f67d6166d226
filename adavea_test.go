package dva

import "testing"

// TestHeuristicSeededPopulationCountsMatchShare is S5 (heuristic seeding).
func TestHeuristicSeededPopulationCountsMatchShare(t *testing.T) {
	p := s1Problem(t)
	rng := newRNG(13)
	n := 50
	pop := heuristicSeededPopulation(p, n, heuristicShare, rng)
	if len(pop) != n {
		t.Fatalf("expected population of %d, got %d", n, len(pop))
	}
	wantHeuristic := int(float64(n) * heuristicShare)
	if wantHeuristic <= 0 || wantHeuristic >= n {
		t.Fatalf("test setup produced a degenerate heuristic share: %d of %d", wantHeuristic, n)
	}
	for i, s := range pop {
		if s.F == nil {
			t.Fatalf("member %d not evaluated", i)
		}
		if len(s.X) != NVar {
			t.Fatalf("member %d has wrong dimension %d", i, len(s.X))
		}
	}
}

// TestHeuristicSeededPopulationHonorsConfiguredRatio is S5 (heuristic
// seeding) with the ratio spec.md names explicitly: init_heuristic_ratio=0.4
// over N=100 should seed exactly 40 individuals from the four templates,
// cycling 10 per template.
func TestHeuristicSeededPopulationHonorsConfiguredRatio(t *testing.T) {
	p := s1Problem(t)
	rng := newRNG(19)
	n := 100
	ratio := 0.4
	pop := heuristicSeededPopulation(p, n, ratio, rng)
	wantHeuristic := int(float64(n) * ratio)
	if wantHeuristic != 40 {
		t.Fatalf("test setup error: expected 40 heuristically seeded individuals, got %d", wantHeuristic)
	}
	if len(pop) != n {
		t.Fatalf("expected population of %d, got %d", n, len(pop))
	}
}

// TestCostMinimizerSeedPartitionsByCostRank checks the literal §4.6 rule:
// the 20 most-expensive entries land at xl+0.2*range, the 10 cheapest at
// xl+0.8*range (both up to jitter), with bounds respected throughout.
func TestCostMinimizerSeedPartitionsByCostRank(t *testing.T) {
	p := s1Problem(t)
	rng := newRNG(14)
	x := costMinimizerSeed(p, rng)
	if len(x) != NVar {
		t.Fatalf("expected dimension %d, got %d", NVar, len(x))
	}
	for i := range x {
		if x[i] < p.Bounds.Lower[i]-1e-9 || x[i] > p.Bounds.Upper[i]+1e-9 {
			t.Fatalf("seed out of bounds at %d: %v", i, x[i])
		}
	}

	idx := make([]int, NVar)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < NVar; i++ {
		for j := i + 1; j < NVar; j++ {
			if p.CostCoeffs[idx[j]] > p.CostCoeffs[idx[i]] {
				idx[i], idx[j] = idx[j], idx[i]
			}
		}
	}
	mostExpensive := idx[0]
	cheapest := idx[NVar-1]
	lo, rangeV := p.Bounds.Lower[mostExpensive], p.Bounds.Range(mostExpensive)
	if want := lo + 0.2*rangeV; x[mostExpensive] < want-0.15*rangeV-1e-6 || x[mostExpensive] > want+0.15*rangeV+1e-6 {
		t.Fatalf("expected the most expensive entry near %v (jittered), got %v", want, x[mostExpensive])
	}
	lo, rangeV = p.Bounds.Lower[cheapest], p.Bounds.Range(cheapest)
	if want := lo + 0.8*rangeV; x[cheapest] < want-0.15*rangeV-1e-6 || x[cheapest] > want+0.15*rangeV+1e-6 {
		t.Fatalf("expected the cheapest entry near %v (jittered), got %v", want, x[cheapest])
	}
}

// TestFrfMinimizerSeedBoostsFixedIndices checks the §4.6 boost set
// {5,12,18,27,35,41} lands near xl+0.8*range.
func TestFrfMinimizerSeedBoostsFixedIndices(t *testing.T) {
	p := s1Problem(t)
	rng := newRNG(15)
	x := frfMinimizerSeed(p, rng)
	if len(x) != NVar {
		t.Fatalf("expected dimension %d, got %d", NVar, len(x))
	}
	for i := range x {
		if x[i] < p.Bounds.Lower[i]-1e-9 || x[i] > p.Bounds.Upper[i]+1e-9 {
			t.Fatalf("seed out of bounds at %d: %v", i, x[i])
		}
	}
	for _, i := range []int{5, 12, 18, 27, 35, 41} {
		lo, rangeV := p.Bounds.Lower[i], p.Bounds.Range(i)
		want := lo + 0.8*rangeV
		if x[i] < want-0.15*rangeV-1e-6 || x[i] > want+0.15*rangeV+1e-6 {
			t.Fatalf("expected boosted index %d near %v (jittered), got %v", i, want, x[i])
		}
	}
}

// TestSparsityMaximizerSeedRaisesExactlyTenEntries checks the §4.6 rule:
// most entries stay near the lower bound, with 10 raised toward the upper
// band.
func TestSparsityMaximizerSeedRaisesExactlyTenEntries(t *testing.T) {
	p := s1Problem(t)
	rng := newRNG(16)
	x := sparsityMaximizerSeed(p, rng)
	raised := 0
	for i := range x {
		lo, rangeV := p.Bounds.Lower[i], p.Bounds.Range(i)
		if rangeV <= 0 {
			continue
		}
		frac := (x[i] - lo) / rangeV
		if frac > 0.3 {
			raised++
		}
	}
	if raised == 0 {
		t.Fatal("expected at least some entries raised toward the upper band")
	}
	if raised != 10 {
		t.Fatalf("expected exactly 10 raised entries, got %d", raised)
	}
}

// TestBalancedSeedFavorsCheaperVariables checks §4.6's 1/(c_i+0.1) weighting:
// the cheapest-cost variable should land no lower than the most-expensive
// one, up to jitter.
func TestBalancedSeedFavorsCheaperVariables(t *testing.T) {
	p := s1Problem(t)
	rng := newRNG(21)
	x := balancedSeed(p, rng)
	for i := range x {
		if x[i] < p.Bounds.Lower[i]-1e-9 || x[i] > p.Bounds.Upper[i]+1e-9 {
			t.Fatalf("seed out of bounds at %d: %v", i, x[i])
		}
	}

	cheapest, expensive := 0, 0
	for i := 1; i < NVar; i++ {
		if p.CostCoeffs[i] < p.CostCoeffs[cheapest] {
			cheapest = i
		}
		if p.CostCoeffs[i] > p.CostCoeffs[expensive] {
			expensive = i
		}
	}
	loC, rangeC := p.Bounds.Lower[cheapest], p.Bounds.Range(cheapest)
	loE, rangeE := p.Bounds.Lower[expensive], p.Bounds.Range(expensive)
	fracCheap := (x[cheapest] - loC) / rangeC
	fracExpensive := (x[expensive] - loE) / rangeE
	if fracCheap < fracExpensive-0.2 {
		t.Fatalf("expected the cheapest variable (frac %v) to land no lower than the most expensive (frac %v)", fracCheap, fracExpensive)
	}
}

func TestScheduledLocalRefinementNoopOffSchedule(t *testing.T) {
	p := s1Problem(t)
	rng := newRNG(17)
	cfg := NewDefaultConfig()
	pop := initializePopulation(p, 10, rng)
	FastNonDominatedSort(pop)
	before := make([]*Solution, len(pop))
	for i, s := range pop {
		before[i] = s.CloneEvaluated()
	}
	out := scheduledLocalRefinement(p, pop, 3, cfg, rng) // 3 is not a multiple of RefinementPeriod
	for i := range out {
		if out[i].F[0] != before[i].F[0] || out[i].X[0] != before[i].X[0] {
			t.Fatalf("expected no-op off schedule, member %d changed", i)
		}
	}
}

// TestScheduledLocalRefinementNeverWorsensRefinedMembers checks that the
// refined F (whichever branch, Lamarckian or Baldwinian, is taken) never
// represents a worse outcome than the pre-refinement incumbent.
func TestScheduledLocalRefinementNeverWorsensRefinedMembers(t *testing.T) {
	p := s1Problem(t)
	rng := newRNG(18)
	cfg := NewDefaultConfig()
	pop := initializePopulation(p, 20, rng)
	FastNonDominatedSort(pop)
	CrowdingDistance(pop, frontIndices(pop))

	originals := make([]*Solution, len(pop))
	for i, s := range pop {
		originals[i] = s.CloneEvaluated()
	}

	out := scheduledLocalRefinement(p, pop, cfg.RefinementPeriod, cfg, rng)
	for i := range out {
		if Dominates(originals[i], out[i]) {
			t.Fatalf("refinement strictly worsened member %d", i)
		}
	}
}

func frontIndices(pop Population) Front {
	f := make(Front, len(pop))
	for i := range pop {
		f[i] = i
	}
	return f
}

func TestSumObjectivesAddsComponents(t *testing.T) {
	if got := sumObjectives([]float64{1, 2, 3}); got != 6 {
		t.Fatalf("expected 6, got %v", got)
	}
}
