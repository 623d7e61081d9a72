package plan

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// pushDayPool returns a pool of chest, shoulder and tricep exercises with
// varied attributes so position bonuses and penalties all come into play.
func pushDayPool() []Exercise {
	return []Exercise{
		{
			ID: 1, Name: "Bench Press",
			PrimaryMuscles: []string{"chest"}, SecondaryMuscles: []string{"tricep", "shoulder"},
			Major: true, Compound: true, Common: true, MovementFamily: "horizontal-press",
		},
		{
			ID: 2, Name: "Overhead Press",
			PrimaryMuscles: []string{"shoulder"}, SecondaryMuscles: []string{"tricep"},
			Major: true, Compound: true, Common: true, MovementFamily: "vertical-press",
		},
		{
			ID: 3, Name: "Incline Dumbbell Press",
			PrimaryMuscles: []string{"chest"}, SecondaryMuscles: []string{"shoulder"},
			Compound: true, MovementFamily: "horizontal-press",
		},
		{
			ID: 4, Name: "Cable Fly",
			PrimaryMuscles: []string{"chest"},
			Machine:        true, MovementFamily: "fly",
		},
		{
			ID: 5, Name: "Lateral Raise",
			PrimaryMuscles: []string{"shoulder"},
			MovementFamily: "raise",
		},
		{
			ID: 6, Name: "Tricep Pushdown",
			PrimaryMuscles: []string{"tricep"},
			Machine:        true, Common: true, MovementFamily: "extension",
		},
		{
			ID: 7, Name: "Skull Crusher",
			PrimaryMuscles: []string{"tricep"},
			MovementFamily: "extension",
		},
		{
			ID: 8, Name: "Machine Shoulder Press",
			PrimaryMuscles: []string{"shoulder"}, SecondaryMuscles: []string{"tricep"},
			Compound: true, Machine: true, MovementFamily: "vertical-press",
		},
	}
}

// weeklyPool returns a catalog large enough to fill every archetype of every
// weekly template, including the single-area days of the five-day split.
func weeklyPool() []Exercise {
	return []Exercise{
		// Chest
		{ID: 1, Name: "Bench Press", PrimaryMuscles: []string{"chest"}, SecondaryMuscles: []string{"tricep"}, Major: true, Compound: true, Common: true, MovementFamily: "horizontal-press"},
		{ID: 2, Name: "Incline Dumbbell Press", PrimaryMuscles: []string{"chest"}, SecondaryMuscles: []string{"shoulder"}, Compound: true, MovementFamily: "horizontal-press"},
		{ID: 3, Name: "Push-Up", PrimaryMuscles: []string{"chest"}, SecondaryMuscles: []string{"tricep"}, Compound: true, Common: true, MovementFamily: "horizontal-press"},
		{ID: 4, Name: "Cable Fly", PrimaryMuscles: []string{"chest"}, Machine: true, MovementFamily: "fly"},
		{ID: 5, Name: "Pec Deck", PrimaryMuscles: []string{"chest"}, Machine: true, MovementFamily: "fly"},
		{ID: 6, Name: "Dips", PrimaryMuscles: []string{"chest", "tricep"}, Compound: true, MovementFamily: "dip"},
		// Back
		{ID: 10, Name: "Deadlift", PrimaryMuscles: []string{"back"}, SecondaryMuscles: []string{"leg"}, Major: true, Compound: true, Common: true, MovementFamily: "hinge"},
		{ID: 11, Name: "Pull-Up", PrimaryMuscles: []string{"back"}, SecondaryMuscles: []string{"bicep"}, Major: true, Compound: true, Common: true, MovementFamily: "vertical-pull"},
		{ID: 12, Name: "Barbell Row", PrimaryMuscles: []string{"back"}, SecondaryMuscles: []string{"bicep"}, Compound: true, MovementFamily: "horizontal-pull"},
		{ID: 13, Name: "Lat Pulldown", PrimaryMuscles: []string{"back"}, SecondaryMuscles: []string{"bicep"}, Machine: true, Common: true, MovementFamily: "vertical-pull"},
		{ID: 14, Name: "Seated Cable Row", PrimaryMuscles: []string{"back"}, Machine: true, MovementFamily: "horizontal-pull"},
		// Shoulders
		{ID: 20, Name: "Overhead Press", PrimaryMuscles: []string{"shoulder"}, SecondaryMuscles: []string{"tricep"}, Major: true, Compound: true, Common: true, MovementFamily: "vertical-press"},
		{ID: 21, Name: "Dumbbell Shoulder Press", PrimaryMuscles: []string{"shoulder"}, Compound: true, MovementFamily: "vertical-press"},
		{ID: 22, Name: "Lateral Raise", PrimaryMuscles: []string{"shoulder"}, MovementFamily: "raise"},
		{ID: 23, Name: "Rear Delt Fly", PrimaryMuscles: []string{"shoulder"}, Machine: true, MovementFamily: "fly"},
		{ID: 24, Name: "Upright Row", PrimaryMuscles: []string{"shoulder"}, SecondaryMuscles: []string{"bicep"}, MovementFamily: "raise"},
		// Arms
		{ID: 30, Name: "Barbell Curl", PrimaryMuscles: []string{"bicep"}, Common: true, MovementFamily: "curl"},
		{ID: 31, Name: "Hammer Curl", PrimaryMuscles: []string{"bicep"}, MovementFamily: "curl"},
		{ID: 32, Name: "Preacher Curl", PrimaryMuscles: []string{"bicep"}, Machine: true, MovementFamily: "curl"},
		{ID: 33, Name: "Tricep Pushdown", PrimaryMuscles: []string{"tricep"}, Machine: true, Common: true, MovementFamily: "extension"},
		{ID: 34, Name: "Skull Crusher", PrimaryMuscles: []string{"tricep"}, MovementFamily: "extension"},
		// Legs
		{ID: 40, Name: "Barbell Squat", PrimaryMuscles: []string{"leg"}, SecondaryMuscles: []string{"core"}, Major: true, Compound: true, Common: true, MovementFamily: "squat"},
		{ID: 41, Name: "Romanian Deadlift", PrimaryMuscles: []string{"leg"}, Major: true, Compound: true, MovementFamily: "hinge"},
		{ID: 42, Name: "Leg Press", PrimaryMuscles: []string{"leg"}, Compound: true, Machine: true, Common: true, MovementFamily: "squat"},
		{ID: 43, Name: "Walking Lunge", PrimaryMuscles: []string{"leg"}, Compound: true, Unilateral: true, MovementFamily: "lunge"},
		{ID: 44, Name: "Leg Extension", PrimaryMuscles: []string{"leg"}, Machine: true, MovementFamily: "extension"},
		{ID: 45, Name: "Leg Curl", PrimaryMuscles: []string{"leg"}, Machine: true, MovementFamily: "curl"},
		{ID: 46, Name: "Calf Raise", PrimaryMuscles: []string{"leg"}, MovementFamily: "raise"},
		// Core
		{ID: 50, Name: "Plank", PrimaryMuscles: []string{"core"}, Common: true, MovementFamily: "brace"},
		{ID: 51, Name: "Hanging Leg Raise", PrimaryMuscles: []string{"core"}, MovementFamily: "raise"},
	}
}

func TestResolveTemplate(t *testing.T) {
	testCases := []struct {
		days       int
		wantLabels []string
	}{
		{days: 1, wantLabels: []string{"Full Body"}},
		{days: 2, wantLabels: []string{"Upper", "Lower"}},
		{days: 3, wantLabels: []string{"Push", "Pull", "Legs"}},
		{days: 4, wantLabels: []string{"Push", "Pull", "Push", "Pull"}},
		{days: 5, wantLabels: []string{"Chest", "Back", "Shoulders", "Arms", "Legs"}},
		{days: 6, wantLabels: []string{"Push", "Pull", "Legs", "Push", "Pull", "Legs"}},
		{days: 7, wantLabels: []string{"Push", "Legs", "Pull", "Push", "Legs", "Pull", "Rest"}},
	}

	for _, tc := range testCases {
		template, err := ResolveTemplate(tc.days)
		if err != nil {
			t.Fatalf("ResolveTemplate(%d) returned error: %v", tc.days, err)
		}
		if len(template) != len(tc.wantLabels) {
			t.Fatalf("ResolveTemplate(%d) returned %d days, want %d", tc.days, len(template), len(tc.wantLabels))
		}
		for i, archetype := range template {
			if archetype.Label != tc.wantLabels[i] {
				t.Errorf("ResolveTemplate(%d) day %d = %q, want %q", tc.days, i+1, archetype.Label, tc.wantLabels[i])
			}
		}
	}

	for _, days := range []int{-1, 0, 8} {
		_, err := ResolveTemplate(days)
		var invalidErr *InvalidConfigurationError
		if !errors.As(err, &invalidErr) {
			t.Errorf("ResolveTemplate(%d) error = %v, want InvalidConfigurationError", days, err)
		}
	}
}

// TestExhaustiveSelectorFindsOptimum verifies the exhaustive result against an
// independent iterative enumeration of every ordered five-exercise sequence.
func TestExhaustiveSelectorFindsOptimum(t *testing.T) {
	pool := pushDayPool()[:6]
	catalog := testCatalog(pool)
	sc := newScorer(catalog, archetypePush(), DefaultTiers(), nil)

	sel := &exhaustiveSelector{scorer: sc, slots: 5}
	slots, total, err := sel.Select(t.Context(), pool)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(slots) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(slots))
	}

	bestTotal := math.Inf(-1)
	seq := make([]Exercise, 5)
	for a := range pool {
		for b := range pool {
			for c := range pool {
				for d := range pool {
					for e := range pool {
						if a == b || a == c || a == d || a == e ||
							b == c || b == d || b == e ||
							c == d || c == e || d == e {
							continue
						}
						seq[0], seq[1], seq[2], seq[3], seq[4] = pool[a], pool[b], pool[c], pool[d], pool[e]
						if seqTotal, _ := sc.scoreSequence(seq); seqTotal > bestTotal {
							bestTotal = seqTotal
						}
					}
				}
			}
		}
	}

	if !almostEqual(total, bestTotal) {
		t.Errorf("exhaustive total = %v, independent enumeration found %v", total, bestTotal)
	}
}

func TestExhaustiveSelectorPoolEqualsSlots(t *testing.T) {
	pool := pushDayPool()[:5]
	catalog := testCatalog(pool)
	sc := newScorer(catalog, archetypePush(), DefaultTiers(), nil)

	sel := &exhaustiveSelector{scorer: sc, slots: 5}
	slots, _, err := sel.Select(t.Context(), pool)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}

	// Every pool exercise must appear exactly once.
	seen := make(map[int]bool)
	for _, slot := range slots {
		if seen[slot.exercise.ID] {
			t.Errorf("exercise %d selected twice", slot.exercise.ID)
		}
		seen[slot.exercise.ID] = true
	}
	if len(seen) != len(pool) {
		t.Errorf("expected all %d pool exercises selected, got %d", len(pool), len(seen))
	}
}

func TestSelectorsRejectSmallPool(t *testing.T) {
	pool := pushDayPool()[:3]
	catalog := testCatalog(pool)
	sc := newScorer(catalog, archetypePush(), DefaultTiers(), nil)

	selectors := map[string]selector{
		"exhaustive": &exhaustiveSelector{scorer: sc, slots: 5},
		"greedy":     &greedySelector{scorer: sc, slots: 5},
	}
	for name, sel := range selectors {
		t.Run(name, func(t *testing.T) {
			if _, _, err := sel.Select(t.Context(), pool); err == nil {
				t.Error("expected error for pool smaller than slot count, got nil")
			}
		})
	}
}

func TestGreedySelector(t *testing.T) {
	pool := pushDayPool()
	catalog := testCatalog(pool)
	sc := newScorer(catalog, archetypePush(), DefaultTiers(), nil)

	sel := &greedySelector{scorer: sc, slots: 5}
	slots, total, err := sel.Select(t.Context(), pool)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(slots) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(slots))
	}

	seen := make(map[int]bool)
	seq := make([]Exercise, len(slots))
	for i, slot := range slots {
		if seen[slot.exercise.ID] {
			t.Errorf("exercise %d selected twice", slot.exercise.ID)
		}
		seen[slot.exercise.ID] = true
		seq[i] = slot.exercise
	}

	// The reported total must agree with scoring the chosen sequence from scratch.
	if wantTotal, _ := sc.scoreSequence(seq); !almostEqual(total, wantTotal) {
		t.Errorf("greedy total = %v, rescoring the sequence gives %v", total, wantTotal)
	}
}

func TestRefineNeverDecreasesTotal(t *testing.T) {
	pool := weeklyPool()
	catalog := testCatalog(pool)
	p := newPlanner(catalog, Request{TrainingDays: 3}, Options{})
	sc := newScorer(catalog, archetypeUpper(), DefaultTiers(), nil)

	candidates := p.candidatePool(sc)
	sel := &greedySelector{scorer: sc, slots: p.opts.ExercisesPerDay}
	greedySlots, greedyTotal, err := sel.Select(t.Context(), candidates)
	if err != nil {
		t.Fatalf("greedy Select returned error: %v", err)
	}

	refinedSlots, refinedTotal, err := p.refine(t.Context(), sc, greedySlots, greedyTotal)
	if err != nil {
		t.Fatalf("refine returned error: %v", err)
	}
	if refinedTotal < greedyTotal-scoreTolerance {
		t.Errorf("refine decreased total: %v -> %v", greedyTotal, refinedTotal)
	}

	seq := make([]Exercise, len(refinedSlots))
	for i, slot := range refinedSlots {
		seq[i] = slot.exercise
	}
	if wantTotal, _ := sc.scoreSequence(seq); !almostEqual(refinedTotal, wantTotal) {
		t.Errorf("refined total = %v, rescoring the sequence gives %v", refinedTotal, wantTotal)
	}
}

func TestExhaustiveNeverWorseThanRefinedGreedy(t *testing.T) {
	pool := pushDayPool()
	catalog := testCatalog(pool)
	p := newPlanner(catalog, Request{TrainingDays: 1}, Options{})
	sc := newScorer(catalog, archetypePush(), DefaultTiers(), nil)

	exhaustive := &exhaustiveSelector{scorer: sc, slots: p.opts.ExercisesPerDay}
	_, exhaustiveTotal, err := exhaustive.Select(t.Context(), pool)
	if err != nil {
		t.Fatalf("exhaustive Select returned error: %v", err)
	}

	greedy := &greedySelector{scorer: sc, slots: p.opts.ExercisesPerDay}
	greedySlots, greedyTotal, err := greedy.Select(t.Context(), pool)
	if err != nil {
		t.Fatalf("greedy Select returned error: %v", err)
	}
	_, refinedTotal, err := p.refine(t.Context(), sc, greedySlots, greedyTotal)
	if err != nil {
		t.Fatalf("refine returned error: %v", err)
	}

	if exhaustiveTotal < refinedTotal-scoreTolerance {
		t.Errorf("exhaustive total %v is below refined greedy total %v", exhaustiveTotal, refinedTotal)
	}
}

func TestBuildWeeklyPlan(t *testing.T) {
	catalog := testCatalog(weeklyPool())

	for days := 1; days <= 7; days++ {
		p := newPlanner(catalog, Request{TrainingDays: days}, Options{})
		weekly, err := p.BuildWeeklyPlan(t.Context())
		if err != nil {
			t.Fatalf("BuildWeeklyPlan(%d days) returned error: %v", days, err)
		}

		if len(weekly.Days) != days {
			t.Fatalf("%d days: got %d day plans, want %d", days, len(weekly.Days), days)
		}

		for i, day := range weekly.Days {
			if day.Archetype == "Rest" {
				if len(day.Exercises) != 0 {
					t.Errorf("%d days: rest day has %d exercises", days, len(day.Exercises))
				}
				if day.TotalScore != 0 {
					t.Errorf("%d days: rest day score = %v, want 0", days, day.TotalScore)
				}
				continue
			}

			if len(day.Exercises) != DefaultExercisesPerDay {
				t.Errorf("%d days: day %d has %d exercises, want %d",
					days, i+1, len(day.Exercises), DefaultExercisesPerDay)
			}

			seen := make(map[int]bool)
			for j, ex := range day.Exercises {
				if ex.Position != j+1 {
					t.Errorf("%d days: day %d slot %d position = %d", days, i+1, j, ex.Position)
				}
				if seen[ex.ExerciseID] {
					t.Errorf("%d days: day %d repeats exercise %d", days, i+1, ex.ExerciseID)
				}
				seen[ex.ExerciseID] = true
			}
		}
	}
}

func TestBuildWeeklyPlanSevenDayEndsWithRest(t *testing.T) {
	catalog := testCatalog(weeklyPool())
	p := newPlanner(catalog, Request{TrainingDays: 7}, Options{})

	weekly, err := p.BuildWeeklyPlan(t.Context())
	if err != nil {
		t.Fatalf("BuildWeeklyPlan returned error: %v", err)
	}

	last := weekly.Days[len(weekly.Days)-1]
	if last.Archetype != "Rest" {
		t.Errorf("last day archetype = %q, want Rest", last.Archetype)
	}
	if len(last.Exercises) != 0 || last.TotalScore != 0 {
		t.Errorf("rest day not empty: %d exercises, score %v", len(last.Exercises), last.TotalScore)
	}
}

// TestBuildWeeklyPlanDeterminism verifies that identical requests against the
// same catalog produce byte-identical plans.
func TestBuildWeeklyPlanDeterminism(t *testing.T) {
	catalog := testCatalog(weeklyPool())
	req := Request{
		TrainingDays:        6,
		MuscleTiers:         TierConfig{GroupChest: 5, GroupLeg: 1},
		ExcludedExerciseIDs: []int{4, 44},
	}

	first, err := newPlanner(catalog, req, Options{}).BuildWeeklyPlan(t.Context())
	if err != nil {
		t.Fatalf("first run returned error: %v", err)
	}
	second, err := newPlanner(catalog, req, Options{}).BuildWeeklyPlan(t.Context())
	if err != nil {
		t.Fatalf("second run returned error: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("plans differ between identical runs (-first +second):\n%s", diff)
	}
}

func TestBuildWeeklyPlanExclusionsRespected(t *testing.T) {
	catalog := testCatalog(weeklyPool())
	excluded := []int{1, 11, 40}
	p := newPlanner(catalog, Request{TrainingDays: 3, ExcludedExerciseIDs: excluded}, Options{})

	weekly, err := p.BuildWeeklyPlan(t.Context())
	if err != nil {
		t.Fatalf("BuildWeeklyPlan returned error: %v", err)
	}

	banned := map[int]bool{1: true, 11: true, 40: true}
	for _, day := range weekly.Days {
		for _, ex := range day.Exercises {
			if banned[ex.ExerciseID] {
				t.Errorf("excluded exercise %d appears in %s", ex.ExerciseID, day.Label)
			}
		}
	}
}

func TestBuildWeeklyPlanInsufficientCandidates(t *testing.T) {
	catalog := testCatalog(weeklyPool())
	// Exclude enough chest exercises that the five-day split's chest day
	// cannot fill its slots.
	req := Request{
		TrainingDays:        5,
		ExcludedExerciseIDs: []int{1, 2, 3, 4},
	}
	p := newPlanner(catalog, req, Options{})

	_, err := p.BuildWeeklyPlan(t.Context())
	var insufficientErr *InsufficientCandidatesError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("error = %v, want InsufficientCandidatesError", err)
	}
	if insufficientErr.Archetype != "Chest" {
		t.Errorf("failing archetype = %q, want Chest", insufficientErr.Archetype)
	}
	if insufficientErr.Required != DefaultExercisesPerDay {
		t.Errorf("required = %d, want %d", insufficientErr.Required, DefaultExercisesPerDay)
	}
}

func TestBuildWeeklyPlanScoresAreRounded(t *testing.T) {
	catalog := testCatalog(weeklyPool())
	p := newPlanner(catalog, Request{TrainingDays: 3}, Options{})

	weekly, err := p.BuildWeeklyPlan(t.Context())
	if err != nil {
		t.Fatalf("BuildWeeklyPlan returned error: %v", err)
	}

	assertRounded := func(label string, v float64) {
		t.Helper()
		if math.Abs(v*100-math.Round(v*100)) > scoreTolerance {
			t.Errorf("%s = %v, want at most two decimal places", label, v)
		}
	}
	for _, day := range weekly.Days {
		assertRounded(day.Label+" total", day.TotalScore)
		for _, ex := range day.Exercises {
			assertRounded(ex.Name+" static", ex.StaticScore)
			assertRounded(ex.Name+" dynamic", ex.DynamicScore)
			assertRounded(ex.Name+" score", ex.Score)
		}
	}
}

func TestBuildWeeklyPlanCancelledContext(t *testing.T) {
	catalog := testCatalog(weeklyPool())
	p := newPlanner(catalog, Request{TrainingDays: 3}, Options{})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := p.BuildWeeklyPlan(ctx); err == nil {
		t.Error("expected error for cancelled context, got nil")
	}
}
