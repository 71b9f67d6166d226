package dva

// Archive holds an unbounded-admission, capacity-pruned external archive of
// non-dominated solutions (§3, I4: no member dominates another; bounded at
// MaxSize). Pruning reuses the environmental-selection machinery of the
// sorting kernel rather than a bespoke crowding pass.
type Archive struct {
	Solutions Population
	MaxSize   int
}

// NewArchive creates an empty archive with the given capacity.
func NewArchive(maxSize int) *Archive {
	return &Archive{MaxSize: maxSize}
}

// Add inserts candidate if no current member dominates it, drops any
// current members the candidate dominates, and prunes back to MaxSize via
// EnvironmentalSelect when the archive overflows. Maintains I4.
func (a *Archive) Add(candidate *Solution) {
	for _, s := range a.Solutions {
		if Dominates(s, candidate) {
			return
		}
	}

	kept := a.Solutions[:0:0]
	for _, s := range a.Solutions {
		if !Dominates(candidate, s) {
			kept = append(kept, s)
		}
	}
	a.Solutions = append(kept, candidate.CloneEvaluated())

	if a.MaxSize > 0 && len(a.Solutions) > a.MaxSize {
		FastNonDominatedSort(a.Solutions)
		a.Solutions = EnvironmentalSelect(a.Solutions, a.MaxSize)
	}
}

// AddAll inserts every member of pop into the archive.
func (a *Archive) AddAll(pop Population) {
	for _, s := range pop {
		a.Add(s)
	}
}

// Len returns the current archive size.
func (a *Archive) Len() int {
	return len(a.Solutions)
}
