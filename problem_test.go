package dva

import "testing"

func TestNewProblemRejectsTooFewOmegaPoints(t *testing.T) {
	b := s1Bounds(t)
	_, err := NewProblem("bad", s1Primary(), 0, 100, 1, s1Targets(), b, 0.01, nil, 1)
	if err == nil {
		t.Fatal("expected InvalidConfig error for omega_points < 2")
	}
}

func TestNewProblemFreezesCostCoefficients(t *testing.T) {
	b := s1Bounds(t)
	p1, err := NewProblem("p", s1Primary(), 0, 100, 10, s1Targets(), b, 0.01, nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := NewProblem("p", s1Primary(), 0, 100, 10, s1Targets(), b, 0.01, nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := range p1.CostCoeffs {
		if p1.CostCoeffs[i] != p2.CostCoeffs[i] {
			t.Fatalf("cost coefficients not deterministic under the same seed at index %d", i)
		}
	}
}

// TestProblemEvaluateIsDeterministic is R1.
func TestProblemEvaluateIsDeterministic(t *testing.T) {
	p := s1Problem(t)
	x := p.Bounds.Sample(newRNG(11))
	f1 := p.Evaluate(x)
	f2 := p.Evaluate(x)
	for i := range f1 {
		if f1[i] != f2[i] {
			t.Fatalf("objective %d not deterministic: %v != %v", i, f1[i], f2[i])
		}
	}
}

func TestProblemEvaluateSanitizesNonFinite(t *testing.T) {
	p := s1Problem(t)
	x := make([]float64, NVar)
	f := p.Evaluate(x)
	for i, v := range f {
		if v != v { // NaN check
			t.Fatalf("objective %d is NaN, expected sanitized penalty", i)
		}
	}
}
