package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	_ "embed"
)

//go:embed catalog.yaml
var catalogSeed []byte

// catalogDocument mirrors the structure of catalog.yaml.
type catalogDocument struct {
	Muscles []struct {
		Name string `yaml:"name"`
		Area string `yaml:"area"`
	} `yaml:"muscles"`
	Exercises []struct {
		ID         int      `yaml:"id"`
		Name       string   `yaml:"name"`
		Primary    []string `yaml:"primary"`
		Secondary  []string `yaml:"secondary"`
		Major      bool     `yaml:"major"`
		Compound   bool     `yaml:"compound"`
		Unilateral bool     `yaml:"unilateral"`
		Machine    bool     `yaml:"machine"`
		Common     bool     `yaml:"common"`
		Family     string   `yaml:"family"`
		Steps      []string `yaml:"steps"`
	} `yaml:"exercises"`
}

// seedCatalog inserts the embedded catalog when the exercises table is empty.
func (db *Database) seedCatalog(ctx context.Context) (err error) {
	var count int
	if err = db.ReadWrite.QueryRowContext(ctx, "SELECT COUNT(*) FROM exercises").Scan(&count); err != nil {
		return fmt.Errorf("count exercises: %w", err)
	}
	if count > 0 {
		return nil
	}

	var doc catalogDocument
	if err = yaml.Unmarshal(catalogSeed, &doc); err != nil {
		return fmt.Errorf("unmarshal catalog seed: %w", err)
	}

	var tx *sql.Tx
	if tx, err = db.ReadWrite.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				db.logger.LogAttrs(ctx, slog.LevelError, "rollback seed transaction",
					slog.Any("error", rollbackErr))
			}
		}
	}()

	for _, m := range doc.Muscles {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO muscles (name, area) VALUES (?, ?)", m.Name, m.Area); err != nil {
			return fmt.Errorf("insert muscle %s: %w", m.Name, err)
		}
	}

	for _, ex := range doc.Exercises {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO exercises (id, name, is_major, is_compound, is_unilateral, is_machine, is_common, movement_family)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ex.ID, ex.Name, ex.Major, ex.Compound, ex.Unilateral, ex.Machine, ex.Common, ex.Family); err != nil {
			return fmt.Errorf("insert exercise %s: %w", ex.Name, err)
		}

		for i, muscle := range ex.Primary {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO exercise_muscles (exercise_id, muscle, is_primary, position)
				VALUES (?, ?, 1, ?)`, ex.ID, muscle, i); err != nil {
				return fmt.Errorf("insert primary muscle %s for %s: %w", muscle, ex.Name, err)
			}
		}
		for i, muscle := range ex.Secondary {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO exercise_muscles (exercise_id, muscle, is_primary, position)
				VALUES (?, ?, 0, ?)`, ex.ID, muscle, i); err != nil {
				return fmt.Errorf("insert secondary muscle %s for %s: %w", muscle, ex.Name, err)
			}
		}
		for i, step := range ex.Steps {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO exercise_steps (exercise_id, step_number, instruction)
				VALUES (?, ?, ?)`, ex.ID, i+1, step); err != nil {
				return fmt.Errorf("insert step %d for %s: %w", i+1, ex.Name, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	db.logger.LogAttrs(ctx, slog.LevelInfo, "seeded exercise catalog",
		slog.Int("exercises", len(doc.Exercises)),
		slog.Int("muscles", len(doc.Muscles)))

	return nil
}
