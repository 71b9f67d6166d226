package dva

import (
	"math"
	"math/rand"
)

// Problem bundles everything needed to map a 48-vector to the three
// objectives of §4.2: the primary structure, the frequency sweep, per-mass
// criterion targets, the sparsity coefficient, and the cost coefficients.
type Problem struct {
	Name    string
	Primary PrimaryParams
	Omega   []float64
	Targets [5]MassTargets
	Bounds  *Bounds

	AlphaSparsity float64
	CostCoeffs    []float64 // length NVar; frozen at construction
}

// NewProblem builds a Problem, freezing cost coefficients from costCoeffs
// if provided, else sampling them uniformly in [0.1, 1.0] from seededRNG
// (frozen once, per §4.2).
func NewProblem(name string, primary PrimaryParams, omegaStart, omegaEnd float64, omegaPoints int,
	targets [5]MassTargets, bounds *Bounds, alphaSparsity float64, costCoeffs []float64, seed int64) (*Problem, error) {
	if omegaPoints < 2 {
		return nil, &ConfigError{Kind: InvalidConfig, Msg: "omega_points must be >= 2"}
	}
	omega := linspace(omegaStart, omegaEnd, omegaPoints)

	coeffs := costCoeffs
	if coeffs == nil {
		rng := rand.New(rand.NewSource(seed))
		coeffs = unifrndVec(0.1, 1.0, NVar, rng)
	}
	if len(coeffs) != NVar {
		return nil, &ConfigError{Kind: InvalidConfig, Msg: "cost coefficients must have length 48"}
	}

	return &Problem{
		Name:          name,
		Primary:       primary,
		Omega:         omega,
		Targets:       targets,
		Bounds:        bounds,
		AlphaSparsity: alphaSparsity,
		CostCoeffs:    coeffs,
	}, nil
}

func linspace(start, end float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = start + step*float64(i)
	}
	return out
}

// Evaluate computes F = (f_FRF, f_sparsity, f_cost) for x, per §4.2.
// Non-finite objective components are replaced with 1e6 (§6), and an
// unsolvable FRF (FrfUnsolvable) yields 1e6 on every component. Randomness
// inside the evaluator is forbidden (Design Notes §9): this function is
// pure given (pr, x).
func (pr *Problem) Evaluate(x []float64) []float64 {
	a := AbsorberFromVector(x)

	var fFRF float64
	res, err := Evaluate(pr.Primary, a, pr.Omega, pr.Targets)
	if err != nil {
		return []float64{1e6, 1e6, 1e6}
	}
	fFRF = math.Abs(res.SingularResponse - 1.0)

	var absSum float64
	for _, v := range x {
		absSum += math.Abs(v)
	}
	fSparsity := pr.AlphaSparsity * absSum

	var fCost float64
	for i, v := range x {
		fCost += pr.CostCoeffs[i] * v
	}

	f := []float64{fFRF, fSparsity, fCost}
	sanitizeObjectives(f)
	return f
}
