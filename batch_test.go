package dva

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRunBatchProducesOneResultPerRun is B2-style: a small, fast-converging
// configuration still completes every run and aggregates a summary.
func TestRunBatchProducesOneResultPerRun(t *testing.T) {
	p := s1Problem(t)
	cfg := NewDefaultConfig()
	cfg.PopulationSize = 4
	cfg.MaxGenerations = 1
	cfg.NRuns = 5
	cfg.ParallelWorkers = 3
	v := &NSGA2Variant{}

	result := RunBatch(context.Background(), p, v, cfg)
	require.Len(t, result.Runs, cfg.NRuns)
	for i, r := range result.Runs {
		require.Falsef(t, r.Failed, "run %d unexpectedly failed: %s", i, r.FailureNote)
	}
	for _, key := range []string{"hypervolume", "spread", "spacing"} {
		_, ok := result.Summary[key]
		require.Truef(t, ok, "expected summary key %q", key)
	}
	require.Equal(t, "nsga2", result.Algorithm)
}

func TestRunBatchUsesDistinctSeedsPerRun(t *testing.T) {
	p := s1Problem(t)
	cfg := NewDefaultConfig()
	cfg.PopulationSize = 4
	cfg.MaxGenerations = 1
	cfg.NRuns = 4
	cfg.ParallelWorkers = 2
	v := &NSGA2Variant{}

	result := RunBatch(context.Background(), p, v, cfg)
	seen := map[int64]bool{}
	for _, r := range result.Runs {
		if seen[r.Seed] {
			t.Fatalf("duplicate seed %d across runs", r.Seed)
		}
		seen[r.Seed] = true
	}
}

func TestSummarizeMetricSkipsFailedRuns(t *testing.T) {
	runs := []RunResult{
		{Failed: false, PerGen: []GenerationRecord{{HV: 1.0}}},
		{Failed: true, PerGen: []GenerationRecord{{HV: 100.0}}},
		{Failed: false, PerGen: []GenerationRecord{{HV: 3.0}}},
	}
	summary := summarizeMetric(runs, func(r RunResult) float64 {
		return r.PerGen[len(r.PerGen)-1].HV
	})
	if summary.Mean != 2.0 {
		t.Fatalf("expected mean of 2.0 excluding the failed run, got %v", summary.Mean)
	}
}

func TestSummarizeMetricEmptyWhenAllFailed(t *testing.T) {
	runs := []RunResult{{Failed: true}, {Failed: true}}
	summary := summarizeMetric(runs, func(r RunResult) float64 { return 1.0 })
	if summary.Mean != 0 || summary.Std != 0 {
		t.Fatalf("expected zero-value summary when every run failed, got %+v", summary)
	}
}

func TestCohensDZeroForIdenticalSamples(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{1, 2, 3, 4}
	if d := CohensD(a, b); math.Abs(d) > 1e-9 {
		t.Fatalf("expected ~0 effect size for identical samples, got %v", d)
	}
}

func TestCohensDPositiveWhenAHasHigherMean(t *testing.T) {
	a := []float64{10, 11, 12, 13}
	b := []float64{1, 2, 3, 4}
	if d := CohensD(a, b); d <= 0 {
		t.Fatalf("expected positive effect size, got %v", d)
	}
}

func TestWilcoxonRankSumZeroForIdenticalSamples(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{1, 2, 3, 4, 5}
	if z := WilcoxonRankSum(a, b); math.Abs(z) > 1e-9 {
		t.Fatalf("expected z~0 for identical distributions, got %v", z)
	}
}

func TestWilcoxonRankSumPositiveWhenAStochasticallyLarger(t *testing.T) {
	a := []float64{10, 11, 12, 13, 14}
	b := []float64{1, 2, 3, 4, 5}
	if z := WilcoxonRankSum(a, b); z <= 0 {
		t.Fatalf("expected positive z when a dominates b, got %v", z)
	}
}

// TestRunBatchComparisonPopulatesPairwiseStatsAgainstBaseline is S6-style:
// running two algorithms head-to-head should produce one BatchResult per
// algorithm plus a per-metric Wilcoxon/Cohen's d pair against the baseline,
// Bonferroni-corrected over k=C(2,2)=1 comparison.
func TestRunBatchComparisonPopulatesPairwiseStatsAgainstBaseline(t *testing.T) {
	p := s1Problem(t)
	cfg := NewDefaultConfig()
	cfg.PopulationSize = 6
	cfg.MaxGenerations = 2
	cfg.NRuns = 5
	cfg.ParallelWorkers = 2

	variants := []Variant{&NSGA2Variant{}, &AdaVEAVariant{}}
	result := RunBatchComparison(context.Background(), p, variants, cfg, 0)

	require.Len(t, result.Batches, 2)
	require.Equal(t, "nsga2", result.Baseline)
	require.Len(t, result.Comparisons, len(comparedMetrics))

	wantAlpha := BonferroniThreshold(0.05, 1)
	for _, cmp := range result.Comparisons {
		require.Equal(t, "adavea", cmp.Algorithm)
		require.Containsf(t, comparedMetrics, cmp.Metric, "unexpected compared metric %q", cmp.Metric)
		require.InDelta(t, wantAlpha, cmp.BonferroniAlpha, 1e-9)
	}

	adaveaSummary := result.Batches[1].Summary["hypervolume"]
	require.True(t, adaveaSummary.HasCohensDValue)
}

func TestBonferroniThresholdDividesAlphaByComparisons(t *testing.T) {
	if got := BonferroniThreshold(0.05, 5); math.Abs(got-0.01) > 1e-9 {
		t.Fatalf("expected 0.01, got %v", got)
	}
	if got := BonferroniThreshold(0.05, 0); got != 0.05 {
		t.Fatalf("expected alpha unchanged for k<=0, got %v", got)
	}
}
