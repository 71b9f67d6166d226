package dva

// Config is the JSON-serializable run configuration for the engine (§6).
// ObjectiveFunc-equivalent state (the Problem) is built separately from the
// Problem-specific fields below, since a Problem also carries the frequency
// sweep and per-mass targets that do not serialize compactly.
type Config struct {
	// Run control
	PopulationSize   int   `json:"population_size"`
	MaxGenerations   int   `json:"max_generations"`
	NRuns            int   `json:"n_runs"`
	RandomSeed       int64 `json:"random_seed"`
	ParallelWorkers  int   `json:"parallel_workers"`
	ArchiveMaxSize   int   `json:"archive_max_size"`

	// NSGA-II operator parameters
	CrossoverProb float64 `json:"crossover_prob"` // p_c
	MutationProb  float64 `json:"mutation_prob"`  // p_m, 0 means 1/n_var

	// AdaVEA-MOO parameters. Diversity targets are not independently
	// configurable: sigma_target is derived as 0.3*sigma_initial, the
	// snapshot taken from the seeded population (§4.6).
	UseAdaVEA          bool    `json:"use_adavea"`
	RefinementPeriod   int     `json:"local_search_freq"`    // generations between local refinement sweeps
	RefinementFraction float64 `json:"local_search_top_k"`   // fraction of the population refined each sweep
	RefinementBudget   int     `json:"local_search_budget"`  // coordinate-descent trials per refined member
	SeedHeuristicShare float64 `json:"init_heuristic_ratio"` // fraction of initial population seeded heuristically; 0 selects 0.4

	// Problem parameters
	ProblemName   string     `json:"problem_name"`
	OmegaStart    float64    `json:"omega_start"`
	OmegaEnd      float64    `json:"omega_end"`
	OmegaPoints   int        `json:"omega_points"`
	AlphaSparsity float64    `json:"alpha_sparsity"`
	Primary       PrimaryParams `json:"primary"`
	BoundsLower   []float64  `json:"bounds_lower"`
	BoundsUpper   []float64  `json:"bounds_upper"`
}

// NewDefaultConfig returns a Config with the defaults of §2/§4.3-4.6. The
// caller must still set Primary, BoundsLower, and BoundsUpper.
func NewDefaultConfig() *Config {
	return &Config{
		PopulationSize:     100,
		MaxGenerations:     2000,
		NRuns:              30,
		RandomSeed:         1,
		ParallelWorkers:    4,
		ArchiveMaxSize:     200,
		CrossoverProb:      0.9,
		MutationProb:       0, // 1/n_var
		UseAdaVEA:          true,
		RefinementPeriod:   10,
		RefinementFraction: 0.1,
		RefinementBudget:   10,
		SeedHeuristicShare: 0.4,
		ProblemName:        "dva-default",
		OmegaStart:         0.1,
		OmegaEnd:           3.0,
		OmegaPoints:        300,
		AlphaSparsity:      1e-3,
	}
}
