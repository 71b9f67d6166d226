package dva

import (
	"math"
	"math/rand"
	"strings"
)

// Variant is the per-generation strategy plugged into the MOEA core (§9
// Design Notes), generalized from the teacher's AlgorithmVariant registry
// down to the two variants this engine ships: plain NSGA-II and its
// AdaVEA-MOO extension.
type Variant interface {
	// Name returns the short variant name ("nsga2" or "adavea").
	Name() string

	// Initialize seeds the starting population of size cfg.PopulationSize for
	// prob.
	Initialize(prob *Problem, cfg *Config, rng *rand.Rand) Population

	// GenerateOffspring produces n offspring from the current (evaluated,
	// ranked) population at generation gen.
	GenerateOffspring(prob *Problem, pop Population, n int, gen int, state *VariantState, rng *rand.Rand) Population

	// Select performs environmental selection of combined down to n.
	Select(combined Population, n int) Population

	// PostProcess runs after selection for the generation (e.g. AdaVEA-MOO's
	// diversity bookkeeping and scheduled local refinement); may mutate pop
	// in place and returns the (possibly refined) population.
	PostProcess(prob *Problem, pop Population, gen int, cfg *Config, state *VariantState, rng *rand.Rand) Population
}

// VariantState carries the mutable per-run bookkeeping a Variant needs
// across generations (adaptive rates, diversity tracking). Kept separate
// from Variant itself so a single Variant value is stateless and reusable
// across concurrent runs (§5).
type VariantState struct {
	Pc               float64
	Pm               float64
	Diversity        float64
	InitialDiversity float64 // sigma_initial, snapshotted once from the seeded population
}

// NewVariantState returns the initial state for cfg.
func NewVariantState(cfg *Config) *VariantState {
	pm := cfg.MutationProb
	if pm <= 0 {
		pm = 1.0 / float64(NVar)
	}
	return &VariantState{
		Pc: cfg.CrossoverProb,
		Pm: pm,
	}
}

// NewVariant resolves a Variant by name ("nsga2" or "adavea").
func NewVariant(name string) Variant {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nsga2", "nsga-ii", "nsga":
		return &NSGA2Variant{}
	case "adavea", "adavea-moo":
		return &AdaVEAVariant{}
	default:
		return nil
	}
}

// NSGA2Variant is the MOEA Core of §4.5: SBX crossover + polynomial
// mutation at fixed rates, binary tournament selection, NSGA-II
// environmental selection. No adaptation, no local refinement.
type NSGA2Variant struct{}

func (v *NSGA2Variant) Name() string { return "nsga2" }

func (v *NSGA2Variant) Initialize(prob *Problem, cfg *Config, rng *rand.Rand) Population {
	return initializePopulation(prob, cfg.PopulationSize, rng)
}

func (v *NSGA2Variant) GenerateOffspring(prob *Problem, pop Population, n int, gen int, state *VariantState, rng *rand.Rand) Population {
	return sbxOffspring(prob, pop, n, state.Pc, state.Pm, rng)
}

func (v *NSGA2Variant) Select(combined Population, n int) Population {
	return EnvironmentalSelect(combined, n)
}

func (v *NSGA2Variant) PostProcess(prob *Problem, pop Population, gen int, cfg *Config, state *VariantState, rng *rand.Rand) Population {
	return pop
}

// AdaVEAVariant is the AdaVEA-MOO extension of §4.6: heuristic-seeded
// initialization, diversity-driven adaptive p_m/p_c, rank-dependent ensemble
// mutation in place of plain polynomial mutation, and scheduled hybrid
// Lamarckian/Baldwinian local refinement.
type AdaVEAVariant struct{}

func (v *AdaVEAVariant) Name() string { return "adavea" }

func (v *AdaVEAVariant) Initialize(prob *Problem, cfg *Config, rng *rand.Rand) Population {
	ratio := cfg.SeedHeuristicShare
	if ratio <= 0 {
		ratio = heuristicShare
	}
	return heuristicSeededPopulation(prob, cfg.PopulationSize, ratio, rng)
}

func (v *AdaVEAVariant) GenerateOffspring(prob *Problem, pop Population, n int, gen int, state *VariantState, rng *rand.Rand) Population {
	offspring := sbxOffspring(prob, pop, n, state.Pc, state.Pm, rng)
	maxRank := 1
	for _, s := range pop {
		if s.Rank > maxRank {
			maxRank = s.Rank
		}
	}
	for _, child := range offspring {
		rank := 1
		parent := TournamentSelect(pop, rng)
		if parent != nil {
			rank = parent.Rank
		}
		child.X = EnsembleMutate(child.X, prob.Bounds, rank, maxRank, prob.CostCoeffs, rng)
	}
	return offspring
}

func (v *AdaVEAVariant) Select(combined Population, n int) Population {
	return EnvironmentalSelect(combined, n)
}

func (v *AdaVEAVariant) PostProcess(prob *Problem, pop Population, gen int, cfg *Config, state *VariantState, rng *rand.Rand) Population {
	state.Diversity = DecisionSpaceDiversity(pop)
	adaptRates(state, gen, cfg.MaxGenerations)
	return scheduledLocalRefinement(prob, pop, gen, cfg, rng)
}

// adaptRates implements the diversity-driven p_m/p_c adaptation of §4.6:
// below the target sigma_target = 0.3*sigma_initial, mutation pressure
// rises and crossover relaxes; above it, the reverse. A soft-cap schedule
// p_c(g) = 0.5 + 0.5*exp(-g/(G/4)) additionally bounds p_c from above,
// independent of diversity.
func adaptRates(state *VariantState, gen, maxGen int) {
	sigmaTarget := 0.3 * state.InitialDiversity

	if state.Diversity < sigmaTarget {
		state.Pm = math.Min(state.Pm+0.005, 0.1)
		state.Pc = math.Max(state.Pc*0.8, 0.5)
	} else {
		state.Pm = math.Max(state.Pm-0.002, 0.01)
		state.Pc = math.Min(state.Pc*1.5, 1.0)
	}

	if maxGen <= 0 {
		maxGen = 1
	}
	quarter := float64(maxGen) / 4.0
	if quarter <= 0 {
		quarter = 1
	}
	softCap := 0.5 + 0.5*math.Exp(-float64(gen)/quarter)
	if state.Pc > softCap {
		state.Pc = softCap
	}
}
