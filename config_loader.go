package dva

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadConfigFromFile loads a Config from a JSON file.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := &Config{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfigToFile writes config to path as indented JSON.
func SaveConfigToFile(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ValidateConfig checks a configuration for the invariants of §3/§6 and
// returns a *ConfigError (Kind InvalidConfig or InvalidBounds) on failure.
func ValidateConfig(config *Config) error {
	if config == nil {
		return &ConfigError{Kind: InvalidConfig, Msg: "config is nil"}
	}

	if config.PopulationSize < 4 {
		return &ConfigError{Kind: InvalidConfig, Msg: fmt.Sprintf("population_size must be >= 4 (binary tournament + 2-child SBX offspring is degenerate below 4, got %d)", config.PopulationSize)}
	}
	if config.MaxGenerations <= 0 {
		return &ConfigError{Kind: InvalidConfig, Msg: fmt.Sprintf("max_generations must be positive (got %d)", config.MaxGenerations)}
	}
	if config.NRuns <= 0 {
		return &ConfigError{Kind: InvalidConfig, Msg: fmt.Sprintf("n_runs must be positive (got %d)", config.NRuns)}
	}
	if config.ParallelWorkers <= 0 {
		return &ConfigError{Kind: InvalidConfig, Msg: fmt.Sprintf("parallel_workers must be positive (got %d)", config.ParallelWorkers)}
	}
	if config.CrossoverProb < 0 || config.CrossoverProb > 1 {
		return &ConfigError{Kind: InvalidConfig, Msg: fmt.Sprintf("crossover_prob must be in [0,1] (got %f)", config.CrossoverProb)}
	}
	if config.MutationProb < 0 || config.MutationProb > 1 {
		return &ConfigError{Kind: InvalidConfig, Msg: fmt.Sprintf("mutation_prob must be in [0,1] (got %f)", config.MutationProb)}
	}
	if config.SeedHeuristicShare < 0 || config.SeedHeuristicShare > 1 {
		return &ConfigError{Kind: InvalidConfig, Msg: fmt.Sprintf("init_heuristic_ratio must be in [0,1] (got %f)", config.SeedHeuristicShare)}
	}
	if config.OmegaPoints < 2 {
		return &ConfigError{Kind: InvalidConfig, Msg: fmt.Sprintf("omega_points must be >= 2 (got %d)", config.OmegaPoints)}
	}
	if config.OmegaStart >= config.OmegaEnd {
		return &ConfigError{Kind: InvalidConfig, Msg: fmt.Sprintf("omega_start (%f) must be less than omega_end (%f)", config.OmegaStart, config.OmegaEnd)}
	}
	if config.UseAdaVEA {
		if config.RefinementPeriod <= 0 {
			return &ConfigError{Kind: InvalidConfig, Msg: "local_search_freq must be positive when adavea is enabled"}
		}
		if config.RefinementBudget <= 0 {
			return &ConfigError{Kind: InvalidConfig, Msg: "local_search_budget must be positive when adavea is enabled"}
		}
	}
	if len(config.BoundsLower) != 0 && len(config.BoundsLower) != NVar {
		return &ConfigError{Kind: InvalidBounds, Msg: fmt.Sprintf("bounds_lower must have length %d (got %d)", NVar, len(config.BoundsLower))}
	}
	if len(config.BoundsUpper) != 0 && len(config.BoundsUpper) != NVar {
		return &ConfigError{Kind: InvalidBounds, Msg: fmt.Sprintf("bounds_upper must have length %d (got %d)", NVar, len(config.BoundsUpper))}
	}

	return nil
}

// BuildBounds constructs a *Bounds from the config's bounds vectors.
func (c *Config) BuildBounds() (*Bounds, error) {
	if len(c.BoundsLower) == 0 || len(c.BoundsUpper) == 0 {
		return nil, &ConfigError{Kind: InvalidBounds, Msg: "bounds_lower and bounds_upper must be set"}
	}
	return NewBounds(c.BoundsLower, c.BoundsUpper)
}
