package dva

import (
	"math"
	"sort"
)

// Hypervolume3 computes the exact hypervolume indicator for a 3-objective
// (m=3) approximation set against a reference point, using the WFG family's
// slicing decomposition: sort by the third objective, sweep in ascending
// order, and accumulate (slab height) * (2D hypervolume of the active
// skyline). The 2D sweep itself is the teacher's own calculateHypervolume
// sweep (multiobjective.go), generalized from a standalone 2-objective
// indicator into the per-slab primitive of a 3-objective one.
func Hypervolume3(pop Population, ref [3]float64) float64 {
	type pt struct{ f0, f1, f2 float64 }
	pts := make([]pt, 0, len(pop))
	for _, s := range pop {
		if s.F == nil || len(s.F) != 3 {
			continue
		}
		if s.F[0] >= ref[0] || s.F[1] >= ref[1] || s.F[2] >= ref[2] {
			continue
		}
		pts = append(pts, pt{s.F[0], s.F[1], s.F[2]})
	}
	if len(pts) == 0 {
		return 0
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].f2 < pts[j].f2 })

	active := make([][2]float64, 0, len(pts))
	var total float64
	for i, p := range pts {
		active = append(active, [2]float64{p.f0, p.f1})
		var height float64
		if i+1 < len(pts) {
			height = pts[i+1].f2 - p.f2
		} else {
			height = ref[2] - p.f2
		}
		if height <= 0 {
			continue
		}
		total += hypervolume2D(active, ref[0], ref[1]) * height
	}
	return total
}

// hypervolume2D sweeps points by the first coordinate, tracking the
// shrinking skyline in the second; this is the teacher's own
// calculateHypervolume algorithm, unchanged in shape.
func hypervolume2D(points [][2]float64, r0, r1 float64) float64 {
	sorted := make([][2]float64, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })

	var hv float64
	previousY := r1
	for _, p := range sorted {
		width := r0 - p[0]
		height := previousY - p[1]
		if width > 0 && height > 0 {
			hv += width * height
		}
		if p[1] < previousY {
			previousY = p[1]
		}
	}
	return hv
}

// ReferencePoint computes r_k = max_k(front) + 0.1*range_k per §4.7,
// snapshotted from a fixed population (typically the final archive).
func ReferencePoint(pop Population) [3]float64 {
	var ref [3]float64
	if len(pop) == 0 {
		return ref
	}
	var min, max [3]float64
	for k := 0; k < 3; k++ {
		min[k], max[k] = pop[0].F[k], pop[0].F[k]
	}
	for _, s := range pop {
		for k := 0; k < 3; k++ {
			if s.F[k] < min[k] {
				min[k] = s.F[k]
			}
			if s.F[k] > max[k] {
				max[k] = s.F[k]
			}
		}
	}
	for k := 0; k < 3; k++ {
		ref[k] = max[k] + 0.1*(max[k]-min[k])
	}
	return ref
}

// IGDPlus computes the IGD+ indicator: the average dominance-distance from
// each reference-front point to its nearest point in the obtained set.
// Dominance-distance only penalizes objectives where obtained is worse than
// reference (for minimization), per the Ishibuchi et al. IGD+ definition.
func IGDPlus(obtained, reference Population) float64 {
	if len(reference) == 0 || len(obtained) == 0 {
		return math.Inf(1)
	}
	var total float64
	for _, z := range reference {
		best := math.Inf(1)
		for _, a := range obtained {
			var sum float64
			for k := range z.F {
				d := math.Max(a.F[k]-z.F[k], 0)
				sum += d * d
			}
			d := math.Sqrt(sum)
			if d < best {
				best = d
			}
		}
		total += best
	}
	return total / float64(len(reference))
}

// Spacing computes the SP indicator: the standard deviation of each
// solution's nearest-neighbour L1 distance in objective space.
func Spacing(pop Population) float64 {
	n := len(pop)
	if n < 2 {
		return 0
	}
	d := make([]float64, n)
	for i := range pop {
		best := math.Inf(1)
		for j := range pop {
			if i == j {
				continue
			}
			var sum float64
			for k := range pop[i].F {
				sum += math.Abs(pop[i].F[k] - pop[j].F[k])
			}
			if sum < best {
				best = sum
			}
		}
		d[i] = best
	}
	var mean float64
	for _, v := range d {
		mean += v
	}
	mean /= float64(n)
	var variance float64
	for _, v := range d {
		variance += (mean - v) * (mean - v)
	}
	return math.Sqrt(variance / float64(n-1))
}

// Spread computes Deb's spread metric (Delta) along a single representative
// objective ordering (the first objective), using the population's own
// extremes as boundary references when no external true-front extremes are
// supplied (extremeLow/extremeHigh both nil).
func Spread(pop Population, extremeLow, extremeHigh []float64) float64 {
	n := len(pop)
	if n < 2 {
		return 0
	}
	sorted := make(Population, n)
	copy(sorted, pop)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].F[0] < sorted[j].F[0] })

	dist := func(a, b []float64) float64 {
		var sum float64
		for k := range a {
			diff := a[k] - b[k]
			sum += diff * diff
		}
		return math.Sqrt(sum)
	}

	consecutive := make([]float64, n-1)
	var meanD float64
	for i := 0; i < n-1; i++ {
		consecutive[i] = dist(sorted[i].F, sorted[i+1].F)
		meanD += consecutive[i]
	}
	meanD /= float64(n - 1)

	df, dl := 0.0, 0.0
	if extremeLow != nil {
		df = dist(extremeLow, sorted[0].F)
	}
	if extremeHigh != nil {
		dl = dist(extremeHigh, sorted[n-1].F)
	}

	var deviationSum float64
	for _, d := range consecutive {
		deviationSum += math.Abs(d - meanD)
	}

	denom := df + dl + float64(n-1)*meanD
	if denom < 1e-12 {
		return 0
	}
	return (df + dl + deviationSum) / denom
}

// DecisionSpaceDiversity computes sigma_div = mean_i min_{j!=i} ||x_i-x_j||2,
// the diversity monitor of §4.6.
func DecisionSpaceDiversity(pop Population) float64 {
	n := len(pop)
	if n < 2 {
		return 0
	}
	var total float64
	for i := range pop {
		best := math.Inf(1)
		for j := range pop {
			if i == j {
				continue
			}
			var sum float64
			for k := range pop[i].X {
				diff := pop[i].X[k] - pop[j].X[k]
				sum += diff * diff
			}
			d := math.Sqrt(sum)
			if d < best {
				best = d
			}
		}
		total += best
	}
	return total / float64(n)
}
