package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/portfolio-performance/internal/repository"
	"github.com/ndewijer/portfolio-performance/internal/service"
	"github.com/rs/zerolog"
)

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewPortfolioRepository(db),
		zerolog.Nop(),
	)
}

func NewTestDataLoaderService(t *testing.T, db *sql.DB) *service.DataLoaderService {
	t.Helper()

	return service.NewDataLoaderService(
		repository.NewPortfolioRepository(db),
		repository.NewCashFlowRepository(db),
		repository.NewValuationRepository(db),
	)
}

func NewTestMaterializedService(t *testing.T, db *sql.DB) *service.MaterializedService {
	t.Helper()

	return service.NewMaterializedService(
		repository.NewMaterializedRepository(db),
		repository.NewPortfolioRepository(db),
		NewTestDataLoaderService(t, db),
		2,
		zerolog.Nop(),
	)
}

func NewTestPerformanceService(t *testing.T, db *sql.DB) *service.PerformanceService {
	t.Helper()

	return service.NewPerformanceService(
		NewTestDataLoaderService(t, db),
		repository.NewMaterializedRepository(db),
		zerolog.Nop(),
	)
}

// NewTestCashFlowService wires a CashFlowService whose writes refresh snapshots.
func NewTestCashFlowService(t *testing.T, db *sql.DB) *service.CashFlowService {
	t.Helper()

	return service.NewCashFlowService(
		repository.NewCashFlowRepository(db),
		repository.NewPortfolioRepository(db),
		NewTestMaterializedService(t, db),
		zerolog.Nop(),
	)
}

// NewTestValuationService wires a ValuationService whose writes refresh snapshots.
func NewTestValuationService(t *testing.T, db *sql.DB) *service.ValuationService {
	t.Helper()

	return service.NewValuationService(
		repository.NewValuationRepository(db),
		repository.NewPortfolioRepository(db),
		NewTestMaterializedService(t, db),
		zerolog.Nop(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, map[string]bool{"materialized_performance": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// Date parses a YYYY-MM-DD date in UTC and panics on malformed input.
//
// Example usage:
//
//	testutil.Date("2025-01-31")
func Date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// FixedClock returns a time source that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// CommonCurrencies contains frequently used currency codes
var CommonCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "CHF", "AUD"}
