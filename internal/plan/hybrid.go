package plan

import (
	"context"
	"fmt"
	"math"
)

// planner orchestrates one weekly plan run. It resolves the template, builds
// the candidate pool per day, dispatches to the right selector by pool size,
// and carries the weekly used-set across days.
//
// The used-set only feeds the repetition penalty; exercises chosen on earlier
// days stay eligible, just scored lower. Earlier days' scores are never
// recomputed when later days commit.
type planner struct {
	catalog      Catalog
	trainingDays int
	tiers        TierConfig
	excluded     map[int]bool
	opts         Options
	weeklyUsed   map[int]bool
}

// newPlanner constructs a planner for a single run. Every run gets its own
// tier config and used-set; nothing is shared between concurrent runs.
func newPlanner(catalog Catalog, req Request, opts Options) *planner {
	tiers := req.MuscleTiers
	if tiers == nil {
		tiers = DefaultTiers()
	}
	excluded := make(map[int]bool, len(req.ExcludedExerciseIDs))
	for _, id := range req.ExcludedExerciseIDs {
		excluded[id] = true
	}
	return &planner{
		catalog:      catalog,
		trainingDays: req.TrainingDays,
		tiers:        tiers,
		excluded:     excluded,
		opts:         opts.withDefaults(),
		weeklyUsed:   make(map[int]bool),
	}
}

// BuildWeeklyPlan runs the full weekly orchestration. It either returns a
// complete plan or an error; no partial plan is ever emitted.
func (p *planner) BuildWeeklyPlan(ctx context.Context) (WeeklyPlan, error) {
	template, err := ResolveTemplate(p.trainingDays)
	if err != nil {
		return WeeklyPlan{}, err
	}

	days := make([]DayPlan, 0, len(template))
	for i, archetype := range template {
		day, err := p.buildDayPlan(ctx, i+1, archetype)
		if err != nil {
			return WeeklyPlan{}, err
		}

		// Commit before scoring the next day so its repetition penalty
		// reflects everything chosen so far.
		for _, ex := range day.Exercises {
			p.weeklyUsed[ex.ExerciseID] = true
		}
		days = append(days, day)
	}

	return WeeklyPlan{TrainingDays: p.trainingDays, Days: days}, nil
}

// buildDayPlan selects and scores one day.
func (p *planner) buildDayPlan(ctx context.Context, dayNumber int, archetype Archetype) (DayPlan, error) {
	label := fmt.Sprintf("Day %d", dayNumber)

	if archetype.IsRest() {
		return DayPlan{
			Label:         label,
			Archetype:     archetype.Label,
			TargetMuscles: nil,
			Exercises:     []ScoredExercise{},
			TotalScore:    0,
		}, nil
	}

	sc := newScorer(p.catalog, archetype, p.tiers, p.weeklyUsed)
	pool := p.candidatePool(sc)
	if len(pool) < p.opts.ExercisesPerDay {
		return DayPlan{}, &InsufficientCandidatesError{
			Day:       dayNumber,
			Archetype: archetype.Label,
			Available: len(pool),
			Required:  p.opts.ExercisesPerDay,
		}
	}

	slots, total, err := p.selectForDay(ctx, sc, pool)
	if err != nil {
		return DayPlan{}, fmt.Errorf("select exercises for %s: %w", label, err)
	}

	return materializeDayPlan(label, archetype, slots, total), nil
}

// selectForDay dispatches by pool size: exhaustive search when the pool is
// small enough to enumerate, greedy plus 2-opt refinement otherwise.
func (p *planner) selectForDay(ctx context.Context, sc *scorer, pool []Exercise) ([]scoredSlot, float64, error) {
	if len(pool) <= p.opts.ExhaustiveThreshold {
		var sel selector = &exhaustiveSelector{scorer: sc, slots: p.opts.ExercisesPerDay}
		return sel.Select(ctx, pool)
	}

	var sel selector = &greedySelector{scorer: sc, slots: p.opts.ExercisesPerDay}
	slots, total, err := sel.Select(ctx, pool)
	if err != nil {
		return nil, 0, err
	}
	return p.refine(ctx, sc, slots, total)
}

// refine runs first-improvement 2-opt on the greedy result: it accepts the
// first position swap that strictly increases the total and repeats until no
// swap improves or the iteration budget is spent. First-improvement bounds
// per-iteration cost compared to scanning all swaps for the best one.
func (p *planner) refine(
	ctx context.Context,
	sc *scorer,
	current []scoredSlot,
	currentTotal float64,
) ([]scoredSlot, float64, error) {
	seq := make([]Exercise, len(current))
	for i, slot := range current {
		seq[i] = slot.exercise
	}

	improved := true
	for iterations := 0; improved && iterations < p.opts.Max2OptIterations; iterations++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, fmt.Errorf("2-opt refinement cancelled: %w", err)
		}
		improved = false

	sweep:
		for i := 0; i < len(seq); i++ {
			for j := i + 1; j < len(seq); j++ {
				seq[i], seq[j] = seq[j], seq[i]
				total, slots := sc.scoreSequence(seq)
				if total > currentTotal {
					currentTotal = total
					current = slots
					improved = true
					break sweep
				}
				seq[i], seq[j] = seq[j], seq[i]
			}
		}
	}

	return current, currentTotal, nil
}

// candidatePool filters the catalog down to exercises whose primary or
// secondary muscles intersect the day's target areas, minus exclusions.
// Catalog order (ascending ID) is preserved for deterministic iteration.
func (p *planner) candidatePool(sc *scorer) []Exercise {
	var pool []Exercise
	for _, ex := range p.catalog.Exercises() {
		if p.excluded[ex.ID] {
			continue
		}
		if sc.matchesTargets(ex) {
			pool = append(pool, ex)
		}
	}
	return pool
}

// materializeDayPlan converts selector output into the immutable DayPlan,
// rounding scores for presentation.
func materializeDayPlan(label string, archetype Archetype, slots []scoredSlot, total float64) DayPlan {
	targets := make([]string, len(archetype.Targets))
	for i, area := range archetype.Targets {
		targets[i] = string(area)
	}

	exercises := make([]ScoredExercise, len(slots))
	for i, slot := range slots {
		exercises[i] = ScoredExercise{
			ExerciseID:       slot.exercise.ID,
			Name:             slot.exercise.Name,
			PrimaryMuscles:   slot.exercise.PrimaryMuscles,
			SecondaryMuscles: slot.exercise.SecondaryMuscles,
			Position:         i + 1,
			StaticScore:      round2(slot.static),
			DynamicScore:     round2(slot.dynamic),
			Score:            round2(slot.total()),
		}
	}

	return DayPlan{
		Label:         label,
		Archetype:     archetype.Label,
		TargetMuscles: targets,
		Exercises:     exercises,
		TotalScore:    round2(total),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100 //nolint:mnd // two decimal places
}
