package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver" // database/sql driver
	_ "github.com/ncruces/go-sqlite3/embed"  // bundled SQLite build

	"github.com/bnema/linkmark/internal/logging"
)

const dbDirPerm = 0o750

// ErrEmptyPath is returned when no database path is configured.
var ErrEmptyPath = errors.New("sqlite: database path cannot be empty")

// visitLogPragmas tune SQLite for the visit log: a single writer (record)
// and short point reads from highlighting sessions, which may run from a
// second process while a record is in progress.
var visitLogPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA cache_size = -16000", // 16MB
	"PRAGMA temp_store = MEMORY",
	"PRAGMA mmap_size = 67108864", // 64MB, the visit log stays small
	"PRAGMA busy_timeout = 5000",  // a concurrent record holds the lock briefly
	"PRAGMA foreign_keys = ON",    // history_visits cascade with their URL
}

// NewConnection opens the visit log at dbPath, creating its directory,
// tuning the connection and migrating the schema.
func NewConnection(ctx context.Context, dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, ErrEmptyPath
	}
	log := logging.FromContext(ctx)

	if err := os.MkdirAll(filepath.Dir(dbPath), dbDirPerm); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open visit log: %w", err)
	}

	// one connection: pragmas are per connection and SQLite has one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := prepare(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug().Str("path", dbPath).Msg("visit log opened")
	return db, nil
}

func prepare(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect to visit log: %w", err)
	}
	for _, pragma := range visitLogPragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("set %q: %w", pragma, err)
		}
	}
	if err := RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrate visit log: %w", err)
	}
	return nil
}
