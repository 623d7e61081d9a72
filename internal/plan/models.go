// Package plan generates weekly workout plans from the exercise catalog.
//
// A plan run resolves a weekly template for the requested number of training
// days, then selects and orders exercises for each day by maximizing a layered
// fitness score under the user's muscle preferences and exclusions.
package plan

import (
	"sort"
)

// MuscleGroup is one of the six preference groups a user can weight with tiers.
type MuscleGroup string

const (
	GroupChest    MuscleGroup = "chest"
	GroupBack     MuscleGroup = "back"
	GroupShoulder MuscleGroup = "shoulder"
	GroupArm      MuscleGroup = "arm"
	GroupLeg      MuscleGroup = "leg"
	GroupCore     MuscleGroup = "core"
)

// MuscleGroups returns all preference groups in a fixed order.
func MuscleGroups() []MuscleGroup {
	return []MuscleGroup{GroupChest, GroupBack, GroupShoulder, GroupArm, GroupLeg, GroupCore}
}

// Area is the finer-grained targeting unit used by day archetypes. Biceps and
// triceps are separate areas so that Push and Pull days can split the arms, but
// both roll up into the arm preference group.
type Area string

const (
	AreaChest    Area = "chest"
	AreaBack     Area = "back"
	AreaShoulder Area = "shoulder"
	AreaBicep    Area = "bicep"
	AreaTricep   Area = "tricep"
	AreaLeg      Area = "leg"
	AreaCore     Area = "core"
)

// Group maps an area to its preference group.
func (a Area) Group() MuscleGroup {
	switch a {
	case AreaBicep, AreaTricep:
		return GroupArm
	case AreaChest:
		return GroupChest
	case AreaBack:
		return GroupBack
	case AreaShoulder:
		return GroupShoulder
	case AreaLeg:
		return GroupLeg
	case AreaCore:
		return GroupCore
	default:
		return MuscleGroup(a)
	}
}

// allAreas lists every area, used by the Full Body archetype.
func allAreas() []Area {
	return []Area{AreaChest, AreaBack, AreaShoulder, AreaBicep, AreaTricep, AreaLeg, AreaCore}
}

// Exercise is an immutable catalog record.
type Exercise struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Major            bool     `json:"major"`
	Compound         bool     `json:"compound"`
	Unilateral       bool     `json:"unilateral"`
	Machine          bool     `json:"machine"`
	Common           bool     `json:"common"`
	MovementFamily   string   `json:"movement_family"`
}

// ExerciseDetail is an exercise with its instructional steps. Steps are fetched
// lazily by ID and never embedded in plan output.
type ExerciseDetail struct {
	Exercise
	Steps []string `json:"steps"`
}

// Catalog is an immutable snapshot of the exercise catalog together with the
// muscle-to-area mapping. The engine only reads from it.
type Catalog struct {
	exercises []Exercise
	areas     map[string]Area
}

// NewCatalog builds a catalog snapshot. Exercises are kept in ascending ID
// order so that every selection run iterates candidates deterministically.
func NewCatalog(exercises []Exercise, areas map[string]Area) Catalog {
	sorted := make([]Exercise, len(exercises))
	copy(sorted, exercises)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return Catalog{exercises: sorted, areas: areas}
}

// Exercises returns the catalog exercises in ascending ID order.
func (c Catalog) Exercises() []Exercise {
	return c.exercises
}

// AreaOf resolves a muscle tag to its targeting area.
func (c Catalog) AreaOf(muscle string) (Area, bool) {
	area, ok := c.areas[muscle]
	return area, ok
}

// Len returns the number of exercises in the catalog.
func (c Catalog) Len() int {
	return len(c.exercises)
}

// Tier configuration constants.
const (
	MinTier             = 1
	MaxTier             = 5
	DefaultTier         = 3
	tierCoefficientStep = 0.3
)

// TierConfig maps each preference group to an integer tier in [1,5]. It is
// supplied per request; the engine holds no ambient tier state.
type TierConfig map[MuscleGroup]int

// DefaultTiers returns a config with every group at the default tier.
func DefaultTiers() TierConfig {
	tiers := make(TierConfig, len(MuscleGroups()))
	for _, g := range MuscleGroups() {
		tiers[g] = DefaultTier
	}
	return tiers
}

// Coefficient converts a group's tier to its preference coefficient
// (0.3 x tier, so 0.3 through 1.5 with 0.9 as the default).
func (tc TierConfig) Coefficient(g MuscleGroup) float64 {
	tier, ok := tc[g]
	if !ok {
		tier = DefaultTier
	}
	return tierCoefficientStep * float64(tier)
}

// Archetype is a day's training focus: a label and the areas it targets.
// A Rest archetype targets no areas.
type Archetype struct {
	Label   string
	Targets []Area
}

// IsRest reports whether the archetype is a rest day.
func (a Archetype) IsRest() bool {
	return len(a.Targets) == 0
}

// ScoredExercise is one chosen slot of a day plan with its score breakdown.
type ScoredExercise struct {
	ExerciseID       int      `json:"id"`
	Name             string   `json:"name"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Position         int      `json:"position"`
	StaticScore      float64  `json:"static_score"`
	DynamicScore     float64  `json:"dynamic_score"`
	Score            float64  `json:"score"`
}

// DayPlan is one day of the weekly plan. Immutable once produced.
type DayPlan struct {
	Label         string           `json:"label"`
	Archetype     string           `json:"type"`
	TargetMuscles []string         `json:"muscle_groups,omitempty"`
	Exercises     []ScoredExercise `json:"exercises"`
	TotalScore    float64          `json:"total_score"`
}

// WeeklyPlan is the complete output of one run, days in order.
type WeeklyPlan struct {
	TrainingDays int       `json:"training_days"`
	Days         []DayPlan `json:"days"`
}

// Selection defaults.
const (
	DefaultExercisesPerDay     = 5
	DefaultExhaustiveThreshold = 10
	DefaultMax2OptIterations   = 100
	DefaultMaxConcurrentPlans  = 2
)

// Options tunes the selection engine. The zero value means defaults.
type Options struct {
	// ExercisesPerDay is the number of slots per training day.
	ExercisesPerDay int
	// ExhaustiveThreshold is the largest candidate pool searched exhaustively.
	ExhaustiveThreshold int
	// Max2OptIterations bounds the 2-opt refinement loop.
	Max2OptIterations int
	// MaxConcurrentPlans bounds how many CPU-heavy plan runs execute at once.
	MaxConcurrentPlans int
}

func (o Options) withDefaults() Options {
	if o.ExercisesPerDay <= 0 {
		o.ExercisesPerDay = DefaultExercisesPerDay
	}
	if o.ExhaustiveThreshold <= 0 {
		o.ExhaustiveThreshold = DefaultExhaustiveThreshold
	}
	if o.Max2OptIterations <= 0 {
		o.Max2OptIterations = DefaultMax2OptIterations
	}
	if o.MaxConcurrentPlans <= 0 {
		o.MaxConcurrentPlans = DefaultMaxConcurrentPlans
	}
	return o
}

// Request carries all user inputs for one plan run.
type Request struct {
	TrainingDays        int
	MuscleTiers         TierConfig
	ExcludedExerciseIDs []int
}
