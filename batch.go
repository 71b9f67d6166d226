package dva

import (
	"context"
	"math"
	"sort"
	"sync"
)

// RunBatch executes cfg.NRuns independent seeded runs of variant on prob,
// fanning out across cfg.ParallelWorkers workers (§5's per-run parallelism
// tier), and aggregates the per-run hypervolume, spread, and spacing series
// into summary statistics.
func RunBatch(ctx context.Context, prob *Problem, variant Variant, cfg *Config) BatchResult {
	runs := make([]RunResult, cfg.NRuns)

	jobs := make(chan int, cfg.NRuns)
	var wg sync.WaitGroup
	workers := cfg.ParallelWorkers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				seed := cfg.RandomSeed + int64(i)
				runs[i] = RunNSGA2(ctx, prob, variant, cfg, seed, nil)
			}
		}()
	}
	for i := 0; i < cfg.NRuns; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := make(map[string]MetricSummary, len(comparedMetrics))
	for _, m := range comparedMetrics {
		summary[m] = summarizeMetric(runs, metricExtractor(m))
	}

	return BatchResult{
		Algorithm: variant.Name(),
		Problem:   prob.Name,
		Runs:      runs,
		Summary:   summary,
	}
}

// comparedMetrics lists the scalar per-run metrics summarized and compared
// across algorithms (§4.7/§4.8).
var comparedMetrics = []string{"hypervolume", "spread", "spacing"}

// metricExtractor returns the final-generation accessor for a named metric.
func metricExtractor(name string) func(RunResult) float64 {
	switch name {
	case "hypervolume":
		return func(r RunResult) float64 {
			if len(r.PerGen) == 0 {
				return 0
			}
			return r.PerGen[len(r.PerGen)-1].HV
		}
	case "spread":
		return func(r RunResult) float64 {
			if len(r.PerGen) == 0 {
				return 0
			}
			return r.PerGen[len(r.PerGen)-1].Spread
		}
	case "spacing":
		return func(r RunResult) float64 {
			if len(r.PerGen) == 0 {
				return 0
			}
			return r.PerGen[len(r.PerGen)-1].Spacing
		}
	default:
		return func(RunResult) float64 { return 0 }
	}
}

// metricValues extracts metric's value from every non-failed run.
func metricValues(runs []RunResult, metric func(RunResult) float64) []float64 {
	values := make([]float64, 0, len(runs))
	for _, r := range runs {
		if r.Failed {
			continue
		}
		values = append(values, metric(r))
	}
	return values
}

// RunBatchComparison runs cfg.NRuns trials of each variant (§4.8) and
// computes, for every non-baseline algorithm and every compared metric, a
// Wilcoxon rank-sum statistic and Cohen's d against baselineIndex's sample;
// the Bonferroni-corrected significance threshold is alpha/k with
// k = C(A,2) over the len(variants) algorithms compared.
func RunBatchComparison(ctx context.Context, prob *Problem, variants []Variant, cfg *Config, baselineIndex int) MultiBatchResult {
	batches := make([]BatchResult, len(variants))
	for i, v := range variants {
		batches[i] = RunBatch(ctx, prob, v, cfg)
	}

	a := len(variants)
	k := a * (a - 1) / 2
	alpha := BonferroniThreshold(0.05, k)

	baseline := batches[baselineIndex]
	var comparisons []PairwiseComparison
	for i, b := range batches {
		if i == baselineIndex {
			continue
		}
		for _, m := range comparedMetrics {
			extractor := metricExtractor(m)
			baseVals := metricValues(baseline.Runs, extractor)
			vals := metricValues(b.Runs, extractor)

			d := CohensD(vals, baseVals)
			z := WilcoxonRankSum(vals, baseVals)

			s := b.Summary[m]
			s.CohensDVsBase = d
			s.HasCohensDValue = true
			b.Summary[m] = s

			comparisons = append(comparisons, PairwiseComparison{
				Algorithm:       b.Algorithm,
				Metric:          m,
				WilcoxonZ:       z,
				CohensD:         d,
				BonferroniAlpha: alpha,
			})
		}
		batches[i] = b
	}

	return MultiBatchResult{
		Problem:     prob.Name,
		Baseline:    baseline.Algorithm,
		Batches:     batches,
		Comparisons: comparisons,
	}
}

// summarizeMetric computes mean/std/median/95% CI across the non-failed
// runs for the scalar extracted by metric.
func summarizeMetric(runs []RunResult, metric func(RunResult) float64) MetricSummary {
	values := make([]float64, 0, len(runs))
	for _, r := range runs {
		if r.Failed {
			continue
		}
		values = append(values, metric(r))
	}
	if len(values) == 0 {
		return MetricSummary{}
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	std := 0.0
	if len(values) > 1 {
		std = math.Sqrt(variance / float64(len(values)-1))
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		median = 0.5 * (sorted[len(sorted)/2-1] + sorted[len(sorted)/2])
	}

	margin := 1.96 * std / math.Sqrt(float64(len(values)))
	return MetricSummary{
		Mean:     mean,
		Std:      std,
		Median:   median,
		CI95Low:  mean - margin,
		CI95High: mean + margin,
	}
}

// CohensD computes the pooled-standard-deviation effect size between two
// independent samples (positive means a has the larger mean).
func CohensD(a, b []float64) float64 {
	if len(a) < 2 || len(b) < 2 {
		return 0
	}
	meanA, meanB := mean(a), mean(b)
	varA, varB := variance(a, meanA), variance(b, meanB)
	na, nb := float64(len(a)), float64(len(b))
	pooled := math.Sqrt(((na-1)*varA + (nb-1)*varB) / (na + nb - 2))
	if pooled < 1e-12 {
		return 0
	}
	return (meanA - meanB) / pooled
}

func mean(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

func variance(v []float64, m float64) float64 {
	s := 0.0
	for _, x := range v {
		d := x - m
		s += d * d
	}
	return s / float64(len(v)-1)
}

// WilcoxonRankSum performs the (normal-approximation) two-sample Wilcoxon
// rank-sum test between samples a and b, returning the z-statistic.
func WilcoxonRankSum(a, b []float64) float64 {
	na, nb := len(a), len(b)
	if na == 0 || nb == 0 {
		return 0
	}
	type tagged struct {
		v   float64
		fromA bool
	}
	combined := make([]tagged, 0, na+nb)
	for _, v := range a {
		combined = append(combined, tagged{v, true})
	}
	for _, v := range b {
		combined = append(combined, tagged{v, false})
	}
	sort.Slice(combined, func(i, j int) bool { return combined[i].v < combined[j].v })

	ranks := make([]float64, len(combined))
	i := 0
	for i < len(combined) {
		j := i
		for j < len(combined) && combined[j].v == combined[i].v {
			j++
		}
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[k] = avgRank
		}
		i = j
	}

	rA := 0.0
	for idx, t := range combined {
		if t.fromA {
			rA += ranks[idx]
		}
	}

	n, m := float64(na), float64(nb)
	meanR := n * (n + m + 1) / 2.0
	stdR := math.Sqrt(n * m * (n + m + 1) / 12.0)
	if stdR < 1e-12 {
		return 0
	}
	return (rA - meanR) / stdR
}

// BonferroniThreshold returns the corrected significance threshold for k
// pairwise comparisons at family-wise level alpha.
func BonferroniThreshold(alpha float64, k int) float64 {
	if k <= 0 {
		return alpha
	}
	return alpha / float64(k)
}
