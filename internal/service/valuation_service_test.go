package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/api/request"
	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/testutil"
	"github.com/shopspring/decimal"
)

// TestValuationService_CreateValuation tests recording valuations.
//
// WHY: Same-date valuations are corrections. They must all be stored so the
// calculation can pick the latest entry instead of the first one.
func TestValuationService_CreateValuation(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps same-date duplicates", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Corrections")

		// Execute
		for _, value := range []string{"1000", "1010"} {
			_, err := svc.CreateValuation(ctx, portfolio.ID, request.CreateValuationRequest{
				Date:  "2025-01-31",
				Value: decimal.NewNullDecimal(decimal.RequireFromString(value)),
			})
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
		}

		// Assert
		valuations, err := svc.GetValuations(ctx, portfolio.ID)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(valuations) != 2 {
			t.Fatalf("Expected 2 stored valuations, got %d", len(valuations))
		}
	})

	t.Run("refreshes snapshots with the latest same-date entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)
		portfolio := testutil.CreatePortfolio(t, db, "Refresh")
		testutil.NewCashFlow(portfolio.ID).WithDate(testutil.Date("2025-01-05")).WithAmount(1000).Build(t, db)
		testutil.NewValuation(portfolio.ID).
			WithDate(testutil.Date("2025-01-31")).
			WithValue(1000).
			WithCreatedAt(time.Now().UTC().Add(-time.Hour)).
			Build(t, db)

		_, err := svc.CreateValuation(ctx, portfolio.ID, request.CreateValuationRequest{
			Date:  "2025-01-31",
			Value: decimal.NewNullDecimal(decimal.NewFromInt(1100)),
		})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		var endValue string
		err = db.QueryRow(
			`SELECT end_value FROM performance_materialized WHERE portfolio_id = ? AND period_key = '2025-01'`,
			portfolio.ID,
		).Scan(&endValue)
		if err != nil {
			t.Fatalf("Expected a snapshot for 2025-01: %v", err)
		}
		if !decimal.RequireFromString(endValue).Equal(decimal.NewFromInt(1100)) {
			t.Errorf("Expected snapshot end value 1100, got %s", endValue)
		}
	})

	t.Run("returns not found for unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)

		_, err := svc.CreateValuation(ctx, testutil.MakeID(), request.CreateValuationRequest{
			Date:  "2025-01-31",
			Value: decimal.NewNullDecimal(decimal.NewFromInt(1)),
		})
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got: %v", err)
		}
	})
}

// TestValuationService_DeleteValuation tests valuation deletion.
func TestValuationService_DeleteValuation(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestValuationService(t, db)

	t.Run("removes the valuation", func(t *testing.T) {
		portfolio := testutil.CreatePortfolio(t, db, "Delete")
		v := testutil.NewValuation(portfolio.ID).Build(t, db)

		if err := svc.DeleteValuation(ctx, v.ID); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		testutil.AssertRowCount(t, db, "valuation", 0)
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		err := svc.DeleteValuation(ctx, testutil.MakeID())
		if !errors.Is(err, apperrors.ErrValuationNotFound) {
			t.Errorf("Expected ErrValuationNotFound, got: %v", err)
		}
	})
}
