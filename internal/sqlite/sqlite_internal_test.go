package sqlite

import (
	"context"
	"testing"

	"github.com/ellis-guo/fitweek/internal/testhelpers"
)

func TestNewDatabaseSeedsCatalog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close database: %v", closeErr)
		}
	})

	var exerciseCount int
	if err = db.ReadOnly.QueryRowContext(ctx, "SELECT COUNT(*) FROM exercises").Scan(&exerciseCount); err != nil {
		t.Fatalf("count exercises: %v", err)
	}
	if exerciseCount == 0 {
		t.Error("expected seeded exercises, got none")
	}

	// Every referenced muscle must exist in the muscles table.
	var orphans int
	if err = db.ReadOnly.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM exercise_muscles em
		LEFT JOIN muscles m ON m.name = em.muscle
		WHERE m.name IS NULL`).Scan(&orphans); err != nil {
		t.Fatalf("count orphan muscles: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected 0 orphan muscle references, got %d", orphans)
	}

	// Seeding must be idempotent: a second open on the same file must not duplicate.
	var secondCount int
	if err = db.seedCatalog(ctx); err != nil {
		t.Fatalf("re-seed catalog: %v", err)
	}
	if err = db.ReadOnly.QueryRowContext(ctx, "SELECT COUNT(*) FROM exercises").Scan(&secondCount); err != nil {
		t.Fatalf("count exercises after re-seed: %v", err)
	}
	if secondCount != exerciseCount {
		t.Errorf("re-seed changed exercise count: got %d, want %d", secondCount, exerciseCount)
	}
}
