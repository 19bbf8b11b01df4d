package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/portfolio-performance/internal/api/request"
	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/testutil"
)

// TestPortfolioService_GetAllPortfolios tests the GetAllPortfolios method.
//
// WHY: Portfolio retrieval is a fundamental operation. Every performance read and
// the nightly snapshot refresh start from this list, so archived and excluded
// portfolios must be included.
func TestPortfolioService_GetAllPortfolios(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice when no portfolios exist", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		// Execute
		portfolios, err := svc.GetAllPortfolios(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if portfolios == nil {
			t.Error("Expected empty slice, got nil")
		}
		if len(portfolios) != 0 {
			t.Errorf("Expected 0 portfolios, got %d", len(portfolios))
		}
	})

	t.Run("returns all portfolios including archived and excluded", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		testutil.CreatePortfolio(t, db, "Active")
		testutil.CreateArchivedPortfolio(t, db, "Archived")
		testutil.CreateExcludedPortfolio(t, db, "Excluded")

		// Execute
		portfolios, err := svc.GetAllPortfolios(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(portfolios) != 3 {
			t.Fatalf("Expected 3 portfolios, got %d", len(portfolios))
		}

		// Ordered by name
		want := []string{"Active", "Archived", "Excluded"}
		for i, name := range want {
			if portfolios[i].Name != name {
				t.Errorf("Expected portfolio %d to be %q, got %q", i, name, portfolios[i].Name)
			}
		}
	})

	t.Run("preserves stored fields", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		created := testutil.NewPortfolio().
			WithName("Pension").
			WithDescription("Long term").
			Archived().
			Build(t, db)

		// Execute
		portfolios, err := svc.GetAllPortfolios(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(portfolios) != 1 {
			t.Fatalf("Expected 1 portfolio, got %d", len(portfolios))
		}
		p := portfolios[0]
		if p.ID != created.ID || p.Description != "Long term" || !p.IsArchived {
			t.Errorf("Unexpected portfolio: %+v", p)
		}
	})

	t.Run("returns error when database is closed", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		db.Close()

		// Execute
		_, err := svc.GetAllPortfolios(ctx)

		// Assert
		if err == nil {
			t.Error("Expected error when database is closed, got nil")
		}
	})
}

// TestPortfolioService_GetActivePortfolios tests the overview filter.
//
// WHY: The overview must hide archived portfolios and those explicitly excluded.
func TestPortfolioService_GetActivePortfolios(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	active := testutil.CreatePortfolio(t, db, "Active")
	testutil.CreateArchivedPortfolio(t, db, "Archived")
	testutil.CreateExcludedPortfolio(t, db, "Excluded")

	portfolios, err := svc.GetActivePortfolios(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(portfolios) != 1 || portfolios[0].ID != active.ID {
		t.Errorf("Expected only the active portfolio, got %+v", portfolios)
	}
}

// TestPortfolioService_GetPortfolio tests single portfolio lookup.
func TestPortfolioService_GetPortfolio(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	t.Run("returns the portfolio", func(t *testing.T) {
		created := testutil.CreatePortfolio(t, db, "Lookup")

		p, err := svc.GetPortfolio(ctx, created.ID)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if p.Name != "Lookup" {
			t.Errorf("Expected name 'Lookup', got %q", p.Name)
		}
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		_, err := svc.GetPortfolio(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got: %v", err)
		}
	})
}

// TestPortfolioService_CreatePortfolio tests portfolio creation.
func TestPortfolioService_CreatePortfolio(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)

	p, err := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{
		Name:                "  Brokerage  ",
		Description:         "Taxable account",
		ExcludeFromOverview: true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if p.Name != "Brokerage" {
		t.Errorf("Expected trimmed name 'Brokerage', got %q", p.Name)
	}
	if p.IsArchived {
		t.Error("Expected new portfolio to be active")
	}

	stored, err := svc.GetPortfolio(ctx, p.ID)
	if err != nil {
		t.Fatalf("Expected stored portfolio, got: %v", err)
	}
	if !stored.ExcludeFromOverview || stored.Description != "Taxable account" {
		t.Errorf("Unexpected stored portfolio: %+v", stored)
	}

	archived, err := svc.CreatePortfolio(ctx, request.CreatePortfolioRequest{Name: "Closed ISA", IsArchived: true})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	active, err := svc.GetActivePortfolios(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	for _, a := range active {
		if a.ID == archived.ID {
			t.Error("Expected portfolio created as archived to be left out of active portfolios")
		}
	}
}

// TestPortfolioService_DeletePortfolio tests portfolio deletion.
//
// WHY: Deleting a portfolio must remove every dependent record, including the
// materialized performance periods, so no orphaned snapshot survives.
func TestPortfolioService_DeletePortfolio(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to dependent records", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Doomed")
		testutil.SeedJanFeb2025(t, db, portfolio.ID)

		if _, err := testutil.NewTestMaterializedService(t, db).RefreshPortfolio(ctx, portfolio.ID); err != nil {
			t.Fatalf("Failed to refresh snapshots: %v", err)
		}

		// Execute
		err := svc.DeletePortfolio(ctx, portfolio.ID)

		// Assert
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		testutil.AssertRowCount(t, db, "portfolio", 0)
		testutil.AssertRowCount(t, db, "cash_flow", 0)
		testutil.AssertRowCount(t, db, "valuation", 0)
		testutil.AssertRowCount(t, db, "performance_materialized", 0)
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)

		err := svc.DeletePortfolio(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got: %v", err)
		}
	})
}
