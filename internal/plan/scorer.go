package plan

// Scoring weights. Static weights share the base score across an exercise's
// own muscle count so multi-muscle exercises cannot dominate; dynamic weights
// shape ordering and variety within a day and across the week.
const (
	primaryMuscleBase   = 3.0
	secondaryMuscleBase = 2.0
	commonExerciseBonus = 2.0

	diversityThreshold = 3
	diversityPenalty   = -3.0

	sameFamilyPenalty      = -10.0
	weeklyRepeatPenalty    = -8.0
	adjacentOverlapPenalty = -1.0
)

// Position bonus tables, indexed by zero-based slot position. Major and
// compound movements belong early in a session; isolation and machine work
// belongs late. Free weights come first while fresh, machines close out.
//
//nolint:gochecknoglobals // fixed lookup tables
var (
	majorPositionBonus     = [DefaultExercisesPerDay]float64{8, 5, 0, 0, 0}
	minorPositionBonus     = [DefaultExercisesPerDay]float64{0, 0, 0, 5, 8}
	compoundPositionBonus  = [DefaultExercisesPerDay]float64{8, 5, 0, 0, 0}
	isolationPositionBonus = [DefaultExercisesPerDay]float64{0, 0, 0, 5, 8}
	freePositionBonus      = [DefaultExercisesPerDay]float64{3, 2, 0, 0, 0}
	machinePositionBonus   = [DefaultExercisesPerDay]float64{0, 0, 0, 2, 3}
)

// scorer computes static and dynamic score contributions for one day's
// selection. It is pure: identical inputs always yield identical scores.
type scorer struct {
	catalog    Catalog
	targets    map[Area]bool
	tiers      TierConfig
	weeklyUsed map[int]bool
}

func newScorer(catalog Catalog, archetype Archetype, tiers TierConfig, weeklyUsed map[int]bool) *scorer {
	targets := make(map[Area]bool, len(archetype.Targets))
	for _, area := range archetype.Targets {
		targets[area] = true
	}
	return &scorer{
		catalog:    catalog,
		targets:    targets,
		tiers:      tiers,
		weeklyUsed: weeklyUsed,
	}
}

// matchesTargets reports whether any of the exercise's muscles hits a target area.
func (s *scorer) matchesTargets(ex Exercise) bool {
	for _, muscle := range ex.PrimaryMuscles {
		if area, ok := s.catalog.AreaOf(muscle); ok && s.targets[area] {
			return true
		}
	}
	for _, muscle := range ex.SecondaryMuscles {
		if area, ok := s.catalog.AreaOf(muscle); ok && s.targets[area] {
			return true
		}
	}
	return false
}

// staticScore is the position-independent contribution of an exercise.
//
// Each matching primary muscle contributes 3.0 divided by the exercise's own
// primary muscle count, times the tier coefficient of the muscle's group; each
// matching secondary muscle contributes 2.0 divided by the secondary count.
// The denominators always use the exercise's full muscle counts, not the
// intersection size. Common exercises get a flat +2.
func (s *scorer) staticScore(ex Exercise) float64 {
	score := 0.0

	if n := len(ex.PrimaryMuscles); n > 0 {
		perMuscle := primaryMuscleBase / float64(n)
		for _, muscle := range ex.PrimaryMuscles {
			if area, ok := s.catalog.AreaOf(muscle); ok && s.targets[area] {
				score += perMuscle * s.tiers.Coefficient(area.Group())
			}
		}
	}

	if n := len(ex.SecondaryMuscles); n > 0 {
		perMuscle := secondaryMuscleBase / float64(n)
		for _, muscle := range ex.SecondaryMuscles {
			if area, ok := s.catalog.AreaOf(muscle); ok && s.targets[area] {
				score += perMuscle * s.tiers.Coefficient(area.Group())
			}
		}
	}

	if ex.Common {
		score += commonExerciseBonus
	}

	return score
}

// positionBonus sums every applicable attribute row for the given zero-based
// position. Bonuses are additive across the independent attribute axes.
func (s *scorer) positionBonus(ex Exercise, position int) float64 {
	if position < 0 || position >= DefaultExercisesPerDay {
		return 0
	}

	bonus := 0.0
	if ex.Major {
		bonus += majorPositionBonus[position]
	} else {
		bonus += minorPositionBonus[position]
	}
	if ex.Compound {
		bonus += compoundPositionBonus[position]
	} else {
		bonus += isolationPositionBonus[position]
	}
	if ex.Machine {
		bonus += machinePositionBonus[position]
	} else {
		bonus += freePositionBonus[position]
	}
	return bonus
}

// dynamicScore is the position- and context-dependent contribution of placing
// ex at the given position after the fixed prefix. Three layers are summed
// without weighting: position bonus, diversity balance, repetition penalties.
func (s *scorer) dynamicScore(ex Exercise, position int, prefix []Exercise) float64 {
	score := s.positionBonus(ex, position)

	// Diversity balance: once three earlier slots share an attribute value,
	// every further exercise with that value is penalized.
	var unilateral, compound, machine int
	for _, prev := range prefix {
		if prev.Unilateral == ex.Unilateral {
			unilateral++
		}
		if prev.Compound == ex.Compound {
			compound++
		}
		if prev.Machine == ex.Machine {
			machine++
		}
	}
	if unilateral >= diversityThreshold {
		score += diversityPenalty
	}
	if compound >= diversityThreshold {
		score += diversityPenalty
	}
	if machine >= diversityThreshold {
		score += diversityPenalty
	}

	// Same movement family within the day.
	for _, prev := range prefix {
		if prev.MovementFamily != "" && prev.MovementFamily == ex.MovementFamily {
			score += sameFamilyPenalty
			break
		}
	}

	// Exercise already committed on an earlier day this week.
	if s.weeklyUsed[ex.ID] {
		score += weeklyRepeatPenalty
	}

	// Muscle overlap with the adjacent preceding exercise.
	if len(prefix) > 0 {
		score += adjacentOverlapPenalty * float64(sharedMuscleCount(prefix[len(prefix)-1], ex))
	}

	return score
}

// sharedMuscleCount counts distinct muscle tags present in both exercises'
// combined primary and secondary lists.
func sharedMuscleCount(a, b Exercise) int {
	tags := make(map[string]bool, len(a.PrimaryMuscles)+len(a.SecondaryMuscles))
	for _, muscle := range a.PrimaryMuscles {
		tags[muscle] = true
	}
	for _, muscle := range a.SecondaryMuscles {
		tags[muscle] = true
	}

	seen := make(map[string]bool, len(b.PrimaryMuscles)+len(b.SecondaryMuscles))
	count := 0
	for _, muscle := range b.PrimaryMuscles {
		if tags[muscle] && !seen[muscle] {
			seen[muscle] = true
			count++
		}
	}
	for _, muscle := range b.SecondaryMuscles {
		if tags[muscle] && !seen[muscle] {
			seen[muscle] = true
			count++
		}
	}
	return count
}

// scoredSlot is one position of a scored sequence.
type scoredSlot struct {
	exercise Exercise
	static   float64
	dynamic  float64
}

func (slot scoredSlot) total() float64 {
	return slot.static + slot.dynamic
}

// scoreSequence evaluates a fixed ordering, walking it position by position so
// each slot's dynamic score reflects exactly the exercises placed before it.
// Returns the sequence total and the per-slot breakdown.
func (s *scorer) scoreSequence(seq []Exercise) (float64, []scoredSlot) {
	total := 0.0
	slots := make([]scoredSlot, len(seq))
	for i, ex := range seq {
		slot := scoredSlot{
			exercise: ex,
			static:   s.staticScore(ex),
			dynamic:  s.dynamicScore(ex, i, seq[:i]),
		}
		slots[i] = slot
		total += slot.total()
	}
	return total, slots
}
