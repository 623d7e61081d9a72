package plan

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ellis-guo/fitweek/internal/errors"
	"github.com/ellis-guo/fitweek/internal/sqlite"
)

// repository reads the exercise catalog from SQLite. The engine treats the
// catalog as an immutable snapshot; the repository never writes.
type repository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newRepository(db *sqlite.Database, logger *slog.Logger) *repository {
	return &repository{db: db, logger: logger}
}

// loadCatalog reads the full catalog snapshot: every exercise with its muscle
// lists plus the muscle-to-area mapping.
func (r *repository) loadCatalog(ctx context.Context) (Catalog, error) {
	areas, err := r.loadAreas(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("load muscle areas: %w", err)
	}

	exercises, err := r.loadExercises(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("load exercises: %w", err)
	}
	if len(exercises) == 0 {
		return Catalog{}, errors.New("catalog is empty")
	}

	return NewCatalog(exercises, areas), nil
}

func (r *repository) loadAreas(ctx context.Context) (_ map[string]Area, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, "SELECT name, area FROM muscles")
	if err != nil {
		return nil, fmt.Errorf("query muscles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	areas := make(map[string]Area)
	for rows.Next() {
		var name, area string
		if err = rows.Scan(&name, &area); err != nil {
			return nil, fmt.Errorf("scan muscle: %w", err)
		}
		areas[name] = Area(area)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return areas, nil
}

func (r *repository) loadExercises(ctx context.Context) (_ []Exercise, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, is_major, is_compound, is_unilateral, is_machine, is_common, movement_family
		FROM exercises
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	index := make(map[int]int)
	for rows.Next() {
		var ex Exercise
		if err = rows.Scan(&ex.ID, &ex.Name, &ex.Major, &ex.Compound,
			&ex.Unilateral, &ex.Machine, &ex.Common, &ex.MovementFamily); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		index[ex.ID] = len(exercises)
		exercises = append(exercises, ex)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err = r.attachMuscles(ctx, exercises, index); err != nil {
		return nil, fmt.Errorf("attach muscles: %w", err)
	}

	return exercises, nil
}

// attachMuscles fills in the primary and secondary muscle lists for all
// exercises in one query, preserving the catalog's declared muscle order.
func (r *repository) attachMuscles(ctx context.Context, exercises []Exercise, index map[int]int) (err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT exercise_id, muscle, is_primary
		FROM exercise_muscles
		ORDER BY exercise_id, is_primary DESC, position`)
	if err != nil {
		return fmt.Errorf("query exercise muscles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	for rows.Next() {
		var (
			exerciseID int
			muscle     string
			isPrimary  bool
		)
		if err = rows.Scan(&exerciseID, &muscle, &isPrimary); err != nil {
			return fmt.Errorf("scan exercise muscle: %w", err)
		}
		i, ok := index[exerciseID]
		if !ok {
			continue
		}
		if isPrimary {
			exercises[i].PrimaryMuscles = append(exercises[i].PrimaryMuscles, muscle)
		} else {
			exercises[i].SecondaryMuscles = append(exercises[i].SecondaryMuscles, muscle)
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}
	return nil
}

// getExercise retrieves a single exercise with its instructional steps.
func (r *repository) getExercise(ctx context.Context, id int) (ExerciseDetail, error) {
	var detail ExerciseDetail
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, name, is_major, is_compound, is_unilateral, is_machine, is_common, movement_family
		FROM exercises
		WHERE id = ?`, id).Scan(
		&detail.ID, &detail.Name, &detail.Major, &detail.Compound,
		&detail.Unilateral, &detail.Machine, &detail.Common, &detail.MovementFamily)
	if errors.Is(err, sql.ErrNoRows) {
		return ExerciseDetail{}, fmt.Errorf("exercise %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ExerciseDetail{}, fmt.Errorf("query exercise %d: %w", id, err)
	}

	exercises := []Exercise{detail.Exercise}
	if err = r.attachMuscles(ctx, exercises, map[int]int{id: 0}); err != nil {
		return ExerciseDetail{}, fmt.Errorf("attach muscles: %w", err)
	}
	detail.Exercise = exercises[0]

	if detail.Steps, err = r.loadSteps(ctx, id); err != nil {
		return ExerciseDetail{}, fmt.Errorf("load steps: %w", err)
	}

	return detail, nil
}

func (r *repository) loadSteps(ctx context.Context, exerciseID int) (_ []string, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT instruction
		FROM exercise_steps
		WHERE exercise_id = ?
		ORDER BY step_number`, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var steps []string
	for rows.Next() {
		var step string
		if err = rows.Scan(&step); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, step)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return steps, nil
}
