package dva

import (
	"math"
	"sort"
)

// Dominates reports whether a dominates b under the minimization rule of
// §4.3: violation-aware, then componentwise-<=-with-one-strict-<.
func Dominates(a, b *Solution) bool {
	if a.Violation > 0 || b.Violation > 0 {
		if a.Violation >= b.Violation {
			return false
		}
	}
	if len(a.F) != len(b.F) {
		return false
	}
	strictlyBetter := false
	for i := range a.F {
		if a.F[i] > b.F[i] {
			return false
		}
		if a.F[i] < b.F[i] {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}

// FastNonDominatedSort performs Deb (2002) fast non-dominated sorting on a
// population, O(MN^2), returning fronts of indices in rank order and
// assigning pop[i].Rank as a side effect.
func FastNonDominatedSort(pop Population) []Front {
	n := len(pop)
	if n == 0 {
		return nil
	}

	dominatedBy := make([][]int, n)
	dominationCount := make([]int, n)

	firstFront := Front{}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if Dominates(pop[i], pop[j]) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if Dominates(pop[j], pop[i]) {
				dominationCount[i]++
			}
		}
		if dominationCount[i] == 0 {
			pop[i].Rank = 1
			firstFront = append(firstFront, i)
		}
	}

	fronts := []Front{firstFront}
	rank := 1
	for len(fronts[rank-1]) > 0 {
		next := Front{}
		for _, i := range fronts[rank-1] {
			for _, j := range dominatedBy[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					pop[j].Rank = rank + 1
					next = append(next, j)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		fronts = append(fronts, next)
		rank++
	}

	return fronts
}

// CrowdingDistance assigns pop[idx].Crowding for every idx in front, per
// §4.3: fronts of size <=2 get +Inf for every member; otherwise per
// objective sort, +Inf at the extremes, and normalized neighbour gaps for
// interior members. An objective with zero range contributes 0 (I5).
func CrowdingDistance(pop Population, front Front) {
	size := len(front)
	if size == 0 {
		return
	}
	for _, idx := range front {
		pop[idx].Crowding = 0
	}
	if size <= 2 {
		for _, idx := range front {
			pop[idx].Crowding = math.Inf(1)
		}
		return
	}

	numObjectives := len(pop[front[0]].F)
	for m := 0; m < numObjectives; m++ {
		sorted := make(Front, size)
		copy(sorted, front)
		sort.Slice(sorted, func(i, j int) bool {
			return pop[sorted[i]].F[m] < pop[sorted[j]].F[m]
		})

		objMin := pop[sorted[0]].F[m]
		objMax := pop[sorted[size-1]].F[m]
		objRange := objMax - objMin
		if objRange < 1e-10 {
			continue // zero-range objective contributes 0, per I5
		}

		pop[sorted[0]].Crowding = math.Inf(1)
		pop[sorted[size-1]].Crowding = math.Inf(1)

		for i := 1; i < size-1; i++ {
			if math.IsInf(pop[sorted[i]].Crowding, 1) {
				continue
			}
			gap := (pop[sorted[i+1]].F[m] - pop[sorted[i-1]].F[m]) / objRange
			pop[sorted[i]].Crowding += gap
		}
	}
}

// crowdedComparison implements the tournament/selection preference order of
// §4.4: lower rank wins; within a rank, higher crowding wins.
func crowdedComparison(a, b *Solution) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Crowding > b.Crowding
}

// EnvironmentalSelect implements §4.3's environmental selection: take
// fronts in order until the next would exceed n, then fill the remainder
// from the splitting front by descending crowding distance, breaking ties
// by original index (deterministic, independent of evaluation order).
func EnvironmentalSelect(pop Population, n int) Population {
	if len(pop) <= n {
		return pop
	}

	fronts := FastNonDominatedSort(pop)
	for _, f := range fronts {
		CrowdingDistance(pop, f)
	}

	selected := make(Population, 0, n)
	for _, f := range fronts {
		if len(selected)+len(f) <= n {
			for _, idx := range f {
				selected = append(selected, pop[idx])
			}
			continue
		}

		remaining := n - len(selected)
		splitting := make(Front, len(f))
		copy(splitting, f)
		sort.Slice(splitting, func(i, j int) bool {
			ci, cj := pop[splitting[i]].Crowding, pop[splitting[j]].Crowding
			if ci != cj {
				return ci > cj
			}
			return splitting[i] < splitting[j]
		})
		for i := 0; i < remaining; i++ {
			selected = append(selected, pop[splitting[i]])
		}
		break
	}

	return selected
}
