package dva

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// initializePopulation draws n uniform-random points from prob.Bounds and
// evaluates them, the plain-NSGA-II counterpart to AdaVEA-MOO's heuristic
// seeding (§4.2/§4.6).
func initializePopulation(prob *Problem, n int, rng *rand.Rand) Population {
	pop := make(Population, n)
	for i := 0; i < n; i++ {
		x := prob.Bounds.Sample(rng)
		pop[i] = &Solution{X: x}
	}
	evaluatePopulation(prob, pop, 0)
	return pop
}

// evaluatePopulation evaluates every unevaluated member of pop, fanning out
// across workers worker goroutines when workers > 1 (§5 concurrency model,
// grounded on the descheduler's worker-pool pattern). workers <= 1 runs
// sequentially.
func evaluatePopulation(prob *Problem, pop Population, workers int) {
	pending := make([]int, 0, len(pop))
	for i, s := range pop {
		if s.F == nil {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return
	}
	if workers <= 1 {
		for _, i := range pending {
			pop[i].F = prob.Evaluate(pop[i].X)
		}
		return
	}

	jobs := make(chan int, len(pending))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				pop[i].F = prob.Evaluate(pop[i].X)
			}
		}()
	}
	for _, i := range pending {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// sbxOffspring generates n offspring via binary tournament selection
// followed by SBX crossover and polynomial mutation (§4.4/§4.5).
func sbxOffspring(prob *Problem, pop Population, n int, pc, pm float64, rng *rand.Rand) Population {
	offspring := make(Population, 0, n)
	for len(offspring) < n {
		p1 := TournamentSelect(pop, rng)
		p2 := TournamentSelect(pop, rng)
		c1x, c2x := SBXCrossover(p1.X, p2.X, prob.Bounds, pc, rng)
		c1x = PolynomialMutation(c1x, prob.Bounds, pm, rng)
		c2x = PolynomialMutation(c2x, prob.Bounds, pm, rng)
		offspring = append(offspring, &Solution{X: c1x})
		if len(offspring) < n {
			offspring = append(offspring, &Solution{X: c2x})
		}
	}
	return offspring
}

// RunNSGA2 runs variant on prob for cfg.MaxGenerations generations starting
// from a population of size cfg.PopulationSize, seeded by seed. ctx governs cooperative
// cancellation (§5, grounded on the flow package's context-based BFS
// cancellation): a cancelled context stops the loop after the generation in
// flight and the returned RunResult carries Failed=true with FailureNote
// set from ctx.Err().
// tick, if non-nil, receives a copy of each generation's record on a
// best-effort (non-blocking) basis — the optional live-monitor hook (§6).
func RunNSGA2(ctx context.Context, prob *Problem, variant Variant, cfg *Config, seed int64, tick chan<- GenerationRecord) RunResult {
	rng := rand.New(rand.NewSource(seed))
	state := NewVariantState(cfg)
	archive := NewArchive(cfg.ArchiveMaxSize)

	pop := variant.Initialize(prob, cfg, rng)
	FastNonDominatedSort(pop)
	archive.AddAll(pop)
	state.InitialDiversity = DecisionSpaceDiversity(pop)

	result := RunResult{Seed: seed, Archive: archive}

	for gen := 1; gen <= cfg.MaxGenerations; gen++ {
		start := time.Now()

		select {
		case <-ctx.Done():
			result.Failed = true
			result.FailureNote = ctx.Err().Error()
			result.Final = pop
			return result
		default:
		}

		offspring := variant.GenerateOffspring(prob, pop, cfg.PopulationSize, gen, state, rng)
		evaluatePopulation(prob, offspring, cfg.ParallelWorkers)

		combined := make(Population, 0, len(pop)+len(offspring))
		combined = append(combined, pop...)
		combined = append(combined, offspring...)
		FastNonDominatedSort(combined)

		selected := variant.Select(combined, cfg.PopulationSize)
		pop = variant.PostProcess(prob, selected, gen, cfg, state, rng)
		FastNonDominatedSort(pop)
		archive.AddAll(pop)

		rec := recordGeneration(pop, gen, state, start, archive)
		result.PerGen = append(result.PerGen, rec)
		if tick != nil {
			select {
			case tick <- rec:
			default:
			}
		}
	}

	sortByFirstObjective(pop)
	result.Final = pop
	return result
}

// recordGeneration builds the diagnostic row for one completed generation
// (§4.7/§4.8). IGD+ is measured against archive's accumulated Pareto front,
// the pseudo-reference-front fallback of §4.7 when no external true front is
// available.
func recordGeneration(pop Population, gen int, state *VariantState, start time.Time, archive *Archive) GenerationRecord {
	ref := ReferencePoint(pop)
	frontOne := 0
	for _, s := range pop {
		if s.Rank == 1 {
			frontOne++
		}
	}
	var best [3]float64
	if len(pop) > 0 {
		best = [3]float64{pop[0].F[0], pop[0].F[1], pop[0].F[2]}
		for _, s := range pop {
			for k := 0; k < 3; k++ {
				if s.F[k] < best[k] {
					best[k] = s.F[k]
				}
			}
		}
	}
	return GenerationRecord{
		Gen:        gen,
		HV:         Hypervolume3(pop, ref),
		IGDPlus:    IGDPlus(pop, archive.Solutions),
		Spread:     Spread(pop, nil, nil),
		Spacing:    Spacing(pop),
		FrontOne:   frontOne,
		PM:         state.Pm,
		PC:         state.Pc,
		Diversity:  state.Diversity,
		TimeMillis: float64(time.Since(start).Microseconds()) / 1000.0,
		BestF:      best,
	}
}
