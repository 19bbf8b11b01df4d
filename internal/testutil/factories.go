package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/shopspring/decimal"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    WithDescription("My description").
//	    Archived().
//	    Build(t, db)
type PortfolioBuilder struct {
	ID                  string
	Name                string
	Description         string
	IsArchived          bool
	ExcludeFromOverview bool
	CreatedAt           time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:                  MakeID(),
		Name:                MakePortfolioName("Test Portfolio"),
		Description:         "Test description",
		IsArchived:          false,
		ExcludeFromOverview: false,
		CreatedAt:           time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithDescription sets a custom description.
func (b *PortfolioBuilder) WithDescription(desc string) *PortfolioBuilder {
	b.Description = desc
	return b
}

// Archived marks the portfolio as archived.
func (b *PortfolioBuilder) Archived() *PortfolioBuilder {
	b.IsArchived = true
	return b
}

// ExcludedFromOverview marks the portfolio as excluded from overview.
func (b *PortfolioBuilder) ExcludedFromOverview() *PortfolioBuilder {
	b.ExcludeFromOverview = true
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, name, description, is_archived, exclude_from_overview, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Description, b.IsArchived, b.ExcludeFromOverview,
		b.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:                  b.ID,
		Name:                b.Name,
		Description:         b.Description,
		IsArchived:          b.IsArchived,
		ExcludeFromOverview: b.ExcludeFromOverview,
		CreatedAt:           b.CreatedAt,
	}
}

// Convenience functions

// CreatePortfolio creates a portfolio with the given name and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// CreatePortfolios creates multiple portfolios with unique names.
func CreatePortfolios(t *testing.T, db *sql.DB, count int) []model.Portfolio {
	t.Helper()

	portfolios := make([]model.Portfolio, count)
	for i := range count {
		portfolios[i] = NewPortfolio().Build(t, db)
	}
	return portfolios
}

// CreateArchivedPortfolio creates an archived portfolio with the given name.
func CreateArchivedPortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Archived().Build(t, db)
}

// CreateExcludedPortfolio creates a portfolio excluded from the overview.
func CreateExcludedPortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).ExcludedFromOverview().Build(t, db)
}

// CashFlowBuilder provides a fluent interface for creating test cash flows.
//
// Example usage:
//
//	testutil.NewCashFlow(portfolio.ID).
//	    WithDate(testutil.Date("2025-01-05")).
//	    WithAmount(10000).
//	    Build(t, db)
type CashFlowBuilder struct {
	ID          string
	PortfolioID string
	Date        time.Time
	Amount      decimal.Decimal
	Type        model.FlowType
	Notes       string
	CreatedAt   time.Time
}

// NewCashFlow creates a CashFlowBuilder for a 1000 deposit dated today.
func NewCashFlow(portfolioID string) *CashFlowBuilder {
	now := time.Now().UTC()
	return &CashFlowBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(1000),
		Type:        model.FlowDeposit,
		CreatedAt:   now,
	}
}

// WithDate sets the flow date.
func (b *CashFlowBuilder) WithDate(date time.Time) *CashFlowBuilder {
	b.Date = date
	return b
}

// WithAmount sets the flow amount.
func (b *CashFlowBuilder) WithAmount(amount float64) *CashFlowBuilder {
	b.Amount = decimal.NewFromFloat(amount)
	return b
}

// WithType sets the stored flow type.
func (b *CashFlowBuilder) WithType(flowType model.FlowType) *CashFlowBuilder {
	b.Type = flowType
	return b
}

// WithNotes sets the notes.
func (b *CashFlowBuilder) WithNotes(notes string) *CashFlowBuilder {
	b.Notes = notes
	return b
}

// WithCreatedAt sets the insertion timestamp used for same-day ordering.
func (b *CashFlowBuilder) WithCreatedAt(createdAt time.Time) *CashFlowBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build creates the cash flow in the database and returns it.
func (b *CashFlowBuilder) Build(t *testing.T, db *sql.DB) model.CashFlow {
	t.Helper()

	query := `
		INSERT INTO cash_flow (id, portfolio_id, date, amount, type, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.Date.Format("2006-01-02"), b.Amount.String(),
		string(b.Type), b.Notes, b.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("Failed to create test cash flow: %v", err)
	}

	return model.CashFlow{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		Date:        b.Date,
		Amount:      b.Amount,
		Type:        b.Type,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
	}
}

// ValuationBuilder provides a fluent interface for creating test valuations.
type ValuationBuilder struct {
	ID          string
	PortfolioID string
	Date        time.Time
	Value       decimal.Decimal
	CreatedAt   time.Time
}

// NewValuation creates a ValuationBuilder for a 1000 valuation dated today.
func NewValuation(portfolioID string) *ValuationBuilder {
	now := time.Now().UTC()
	return &ValuationBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Value:       decimal.NewFromInt(1000),
		CreatedAt:   now,
	}
}

// WithDate sets the valuation date.
func (b *ValuationBuilder) WithDate(date time.Time) *ValuationBuilder {
	b.Date = date
	return b
}

// WithValue sets the valuation amount.
func (b *ValuationBuilder) WithValue(value float64) *ValuationBuilder {
	b.Value = decimal.NewFromFloat(value)
	return b
}

// WithCreatedAt sets the insertion timestamp used to resolve same-date duplicates.
func (b *ValuationBuilder) WithCreatedAt(createdAt time.Time) *ValuationBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build creates the valuation in the database and returns it.
func (b *ValuationBuilder) Build(t *testing.T, db *sql.DB) model.Valuation {
	t.Helper()

	query := `
		INSERT INTO valuation (id, portfolio_id, date, value, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.Date.Format("2006-01-02"), b.Value.String(),
		b.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("Failed to create test valuation: %v", err)
	}

	return model.Valuation{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		Date:        b.Date,
		Value:       b.Value,
		CreatedAt:   b.CreatedAt,
	}
}

// SeedJanFeb2025 stores the reference two-month history on a portfolio:
// a 10,000 deposit on 2025-01-05, a 105,000 valuation on 2025-01-31 and a
// 95,000 valuation on 2025-02-28. Each record is created at noon on its own date,
// so a later correction of the same date wins deduplication.
func SeedJanFeb2025(t *testing.T, db *sql.DB, portfolioID string) {
	t.Helper()

	NewCashFlow(portfolioID).WithDate(Date("2025-01-05")).WithAmount(10000).
		WithCreatedAt(noonOn("2025-01-05")).Build(t, db)
	NewValuation(portfolioID).WithDate(Date("2025-01-31")).WithValue(105000).
		WithCreatedAt(noonOn("2025-01-31")).Build(t, db)
	NewValuation(portfolioID).WithDate(Date("2025-02-28")).WithValue(95000).
		WithCreatedAt(noonOn("2025-02-28")).Build(t, db)
}

func noonOn(date string) time.Time {
	return Date(date).Add(12 * time.Hour)
}
