package dva

import (
	"math/rand"
	"testing"
)

// s1Primary returns the primary-structure parameters of scenario S1.
func s1Primary() PrimaryParams {
	return PrimaryParams{
		MU:      2.0,
		Landa:   [5]float64{0.4, 0.6, 0.8, 1.0, 1.2},
		Nu:      [5]float64{0.1, 0.1, 0.1, 0.1, 0.1},
		ALow:    0.02,
		AUpp:    0.02,
		F1:      150,
		F2:      150,
		OmegaDC: 8000,
		ZetaDC:  0.02,
	}
}

func s1Targets() [5]MassTargets {
	var targets [5]MassTargets
	for i := range targets {
		targets[i] = MassTargets{
			{Name: "area_under_curve", Target: 1.0, Weight: 1.0},
		}
	}
	return targets
}

func s1Bounds(t *testing.T) *Bounds {
	lower := make([]float64, NVar)
	upper := make([]float64, NVar)
	for i := 0; i < NVar; i++ {
		lower[i] = 0
		upper[i] = 1
	}
	b, err := NewBounds(lower, upper)
	if err != nil {
		t.Fatalf("NewBounds: %v", err)
	}
	return b
}

func s1Problem(t *testing.T) *Problem {
	b := s1Bounds(t)
	p, err := NewProblem("s1", s1Primary(), 0, 12000, 1500, s1Targets(), b, 0.01, nil, 1)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	return p
}

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
