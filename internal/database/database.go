package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// LatestVersion is the highest migration version embedded in the binary.
const LatestVersion int64 = 1

// goose keeps its dialect, filesystem and logger in package state
var migrateMu sync.Mutex

// Open opens a connection to the SQLite database.
// Pragmas are passed through the DSN so that every pooled connection enforces
// foreign keys and waits on locks instead of failing immediately.
// An in-memory database is limited to a single connection, since each new
// connection would otherwise see its own empty database.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	// Open database connection
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate applies all pending schema migrations embedded in the binary.
// Migration progress is written to logger at debug level.
func Migrate(db *sql.DB, logger zerolog.Logger) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger: logger.With().Str("component", "migrations").Logger()})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// SchemaVersion returns the currently applied migration version.
func SchemaVersion(db *sql.DB) (int64, error) {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("failed to set migration dialect: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// HealthCheck verifies that a connection can be established within ctx.
func HealthCheck(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Fatal().Msgf(format, v...)
}
