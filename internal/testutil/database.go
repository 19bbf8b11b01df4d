package testutil

import (
	"database/sql"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ndewijer/portfolio-performance/internal/database"
	"github.com/rs/zerolog"
)

// tables lists every application table, children before parents.
var tables = []string{
	"performance_materialized",
	"valuation",
	"cash_flow",
	"portfolio",
}

// SetupTestDB creates an in-memory SQLite database for testing.
// The schema is created by the same embedded migrations used in production.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database on a single connection (destroyed when it closes)
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Faster for tests
	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		t.Fatalf("Failed to set pragma: %v", err)
	}

	return migrate(t, db)
}

// SetupFileDB creates a migrated SQLite database file in a temporary directory.
// Use it when a test needs several pooled connections or reopens the database by path.
func SetupFileDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "portfolio_performance.db")
	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("Failed to open test database %s: %v", path, err)
	}

	return migrate(t, db), path
}

func migrate(t *testing.T, db *sql.DB) *sql.DB {
	t.Helper()

	if err := database.Migrate(db, zerolog.Nop()); err != nil {
		db.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CleanDatabase deletes all rows, children before parents because of foreign keys.
// Useful for reusing the same database across multiple tests.
//
// Example usage:
//
//	func TestMultipleThings(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//
//	    t.Run("First test", func(t *testing.T) {
//	        // Create data
//	        testutil.CleanDatabase(t, db)  // Clean after
//	    })
//	}
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, table := range tables {
		//nolint:gosec // G202: Table names are from hardcoded slice, no SQL injection risk
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in an application table.
//
// Example usage:
//
//	count := testutil.CountRows(t, db, "cash_flow")
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	if !slices.Contains(tables, table) {
		t.Fatalf("Unknown table %q", table)
	}

	var count int
	//nolint:gosec // G202: table is checked against the known tables above
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "performance_materialized", 2)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}

// MaterializedPeriodKeys returns the stored period keys of a portfolio, newest first.
func MaterializedPeriodKeys(t *testing.T, db *sql.DB, portfolioID string) []string {
	t.Helper()

	rows, err := db.Query(
		"SELECT period_key FROM performance_materialized WHERE portfolio_id = ? ORDER BY period_key DESC",
		portfolioID,
	)
	if err != nil {
		t.Fatalf("Failed to query materialized periods: %v", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			t.Fatalf("Failed to scan period key: %v", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Failed to read materialized periods: %v", err)
	}
	return keys
}
