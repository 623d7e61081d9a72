// Package sqlite opens the catalog database and seeds it with the exercise catalog.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	_ "embed"
)

//go:embed schema.sql
var schemaDefinition string

// Database holds the two SQLite connections.
//
// Separate read-write and read-only connections is a best practice mentioned in
// https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995
type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase connects to a database, ensures the schema, and seeds the
// exercise catalog when it is empty.
//
// The url parameter is the path to the SQLite database file or ":memory:" for
// an in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	start := time.Now()
	if _, err = db.ReadWrite.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	if err = db.seedCatalog(ctx); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "database ready", slog.Duration("duration", time.Since(start)))

	return db, nil
}

//nolint:gochecknoglobals // once is used to ensure that the SQLite driver is registered only once.
var once sync.Once

const optimizedDriver = "sqlite3optimized"

// registerOptimizedDriver registers a driver that executes performance-enhancing
// pragmas on connection.
func registerOptimizedDriver() {
	sql.Register(optimizedDriver,
		&sqlite3.SQLiteDriver{
			Extensions: nil,
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if _, err := conn.Exec(
					// Store temporary tables and indices in memory instead of files.
					"PRAGMA temp_store = memory;"+
						// Reduce syscalls by keeping pages in memory-mapped I/O.
						"PRAGMA mmap_size = 268435456;", nil); err != nil {
					return fmt.Errorf("exec optimization pragmas: %w", err)
				}
				return nil
			},
		})
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	once.Do(registerOptimizedDriver)

	// For in-memory databases, we need shared cache mode so that both
	// connections access the same data. Parallel tests each get a unique name
	// to avoid sharing data. See https://www.sqlite.org/inmemorydb.html.
	inMemoryConfig := ""
	if strings.Contains(url, ":memory:") {
		url = fmt.Sprintf("file:%s", rand.Text())
		inMemoryConfig = "mode=memory&cache=shared"
	}
	commonConfig := strings.Join([]string{
		// Write-ahead logging enables higher performance and concurrent readers.
		"_journal_mode=wal",
		// Avoids SQLITE_BUSY errors when the database is under load.
		"_busy_timeout=5000",
		// Increases performance at the cost of durability.
		"_synchronous=normal",
		// Enables foreign key constraints.
		"_foreign_keys=1",
	}, "&")

	readWriteDB, err := sql.Open(optimizedDriver,
		fmt.Sprintf("%s?%s&%s&_txlock=immediate", url, commonConfig, inMemoryConfig))
	if err != nil {
		return nil, fmt.Errorf("open read-write database: %w", err)
	}
	// SQLite allows a single writer at a time.
	readWriteDB.SetMaxOpenConns(1)

	readDB, err := sql.Open(optimizedDriver,
		fmt.Sprintf("%s?%s&%s", url, commonConfig, inMemoryConfig))
	if err != nil {
		return nil, fmt.Errorf("open read-only database: %w", err)
	}

	if err = readWriteDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// Close closes both database connections.
func (db *Database) Close() error {
	if err := db.ReadWrite.Close(); err != nil {
		return fmt.Errorf("close read-write database: %w", err)
	}
	if err := db.ReadOnly.Close(); err != nil {
		return fmt.Errorf("close read-only database: %w", err)
	}
	return nil
}
