package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/ellis-guo/fitweek/internal/sqlite"
)

// Service is the plan generation facade. It validates requests, loads a
// catalog snapshot, and runs the planner. A weighted semaphore bounds the
// number of concurrent selection runs since exhaustive search is CPU heavy.
type Service struct {
	repo   *repository
	logger *slog.Logger
	opts   Options
	sem    *semaphore.Weighted
}

func NewService(db *sqlite.Database, logger *slog.Logger, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		repo:   newRepository(db, logger),
		logger: logger,
		opts:   opts,
		sem:    semaphore.NewWeighted(int64(opts.MaxConcurrentPlans)),
	}
}

// GeneratePlan produces a complete weekly plan for the request or fails with
// an error describing why no plan could be built. Identical requests against
// the same catalog always return identical plans.
func (s *Service) GeneratePlan(ctx context.Context, req Request) (WeeklyPlan, error) {
	if err := validateRequest(req); err != nil {
		return WeeklyPlan{}, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return WeeklyPlan{}, fmt.Errorf("acquire plan slot: %w", err)
	}
	defer s.sem.Release(1)

	catalog, err := s.repo.loadCatalog(ctx)
	if err != nil {
		return WeeklyPlan{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	start := time.Now()
	weekly, err := newPlanner(catalog, req, s.opts).BuildWeeklyPlan(ctx)
	if err != nil {
		return WeeklyPlan{}, fmt.Errorf("build weekly plan: %w", err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "generated weekly plan",
		slog.Int("training_days", req.TrainingDays),
		slog.Int("catalog_size", catalog.Len()),
		slog.Duration("duration", time.Since(start)))

	return weekly, nil
}

// ListExercises returns the full catalog in ascending ID order.
func (s *Service) ListExercises(ctx context.Context) ([]Exercise, error) {
	catalog, err := s.repo.loadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return catalog.Exercises(), nil
}

// GetExerciseDetail returns one exercise with its instructional steps.
// Returns ErrNotFound when the ID does not exist.
func (s *Service) GetExerciseDetail(ctx context.Context, id int) (ExerciseDetail, error) {
	detail, err := s.repo.getExercise(ctx, id)
	if err != nil {
		return ExerciseDetail{}, err
	}
	return detail, nil
}

// validateRequest rejects malformed input before any selection work begins.
func validateRequest(req Request) error {
	if req.TrainingDays < 1 || req.TrainingDays > 7 {
		return &InvalidConfigurationError{
			Field:  "training_days",
			Reason: fmt.Sprintf("must be between 1 and 7, got %d", req.TrainingDays),
		}
	}

	known := make(map[MuscleGroup]bool, len(MuscleGroups()))
	for _, g := range MuscleGroups() {
		known[g] = true
	}
	for group, tier := range req.MuscleTiers {
		if !known[group] {
			return &InvalidConfigurationError{
				Field:  "muscle_tiers",
				Reason: fmt.Sprintf("unknown muscle group %q", group),
			}
		}
		if tier < MinTier || tier > MaxTier {
			return &InvalidConfigurationError{
				Field:  "muscle_tiers",
				Reason: fmt.Sprintf("tier for %s must be between %d and %d, got %d", group, MinTier, MaxTier, tier),
			}
		}
	}

	for _, id := range req.ExcludedExerciseIDs {
		if id <= 0 {
			return &InvalidConfigurationError{
				Field:  "excluded_exercise_ids",
				Reason: fmt.Sprintf("exercise IDs must be positive, got %d", id),
			}
		}
	}

	return nil
}
