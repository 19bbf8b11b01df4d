package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/portfolio-performance/internal/model"
)

// MaterializedRepository provides data access methods for the performance_materialized table.
type MaterializedRepository struct {
	db *sql.DB
}

// NewMaterializedRepository creates a new repository instance.
func NewMaterializedRepository(db *sql.DB) *MaterializedRepository {
	return &MaterializedRepository{db: db}
}

// GetMaterializedPeriods streams the pre-calculated monthly periods of a portfolio,
// newest first, using a callback to avoid loading the full result set at once.
//
// Parameters:
//   - portfolioID: The portfolio to read periods for
//   - callback: Called for each record; returning an error stops the iteration
//
// Returns an error if the query fails or if the callback returns an error during processing.
func (r *MaterializedRepository) GetMaterializedPeriods(
	ctx context.Context,
	portfolioID string,
	callback func(record model.PerformanceMaterialized) error,
) error {
	query := `
		SELECT id, portfolio_id, period_key, start_date, end_date, start_value, end_value,
		       net_flow, pnl, return_pct, cumulative_return, principal, end_principal,
		       is_ongoing, calculated_at
		FROM performance_materialized
		WHERE portfolio_id = ?
		ORDER BY period_key DESC
	`

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to query performance_materialized: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var record model.PerformanceMaterialized
		var startStr, endStr, calculatedAtStr string
		p := &record.Period

		err := rows.Scan(
			&record.ID,
			&record.PortfolioID,
			&p.PeriodKey,
			&startStr,
			&endStr,
			&p.StartValue,
			&p.EndValue,
			&p.NetFlow,
			&p.PnL,
			&p.ReturnPct,
			&p.CumulativeReturn,
			&p.Principal,
			&p.EndPrincipal,
			&p.IsOngoing,
			&calculatedAtStr,
		)
		if err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}

		p.StartDate, err = ParseTime(startStr)
		if err != nil {
			return fmt.Errorf("failed to parse start_date: %w", err)
		}
		p.EndDate, err = ParseTime(endStr)
		if err != nil {
			return fmt.Errorf("failed to parse end_date: %w", err)
		}
		p.PeriodLabel = p.StartDate.Format("Jan 2006")

		record.CalculatedAt, err = ParseTime(calculatedAtStr)
		if err != nil {
			return fmt.Errorf("failed to parse calculated_at: %w", err)
		}

		if err := callback(record); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}

// ReplacePeriods atomically swaps all stored periods of a portfolio for the given set.
// An empty set clears the portfolio's periods.
func (r *MaterializedRepository) ReplacePeriods(
	ctx context.Context,
	portfolioID string,
	periods []model.MonthlyPeriod,
	calculatedAt time.Time,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM performance_materialized WHERE portfolio_id = ?`, portfolioID); err != nil {
		return fmt.Errorf("failed to clear performance_materialized: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO performance_materialized (
			id, portfolio_id, period_key, start_date, end_date, start_value, end_value,
			net_flow, pnl, return_pct, cumulative_return, principal, end_principal,
			is_ongoing, calculated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	stamp := calculatedAt.UTC().Format(time.RFC3339Nano)
	for _, p := range periods {
		_, err := stmt.ExecContext(ctx,
			uuid.New().String(),
			portfolioID,
			p.PeriodKey,
			p.StartDate.Format(dateLayout),
			p.EndDate.Format(dateLayout),
			p.StartValue.String(),
			p.EndValue.String(),
			p.NetFlow.String(),
			p.PnL.String(),
			p.ReturnPct.String(),
			p.CumulativeReturn.String(),
			p.Principal.String(),
			p.EndPrincipal.String(),
			p.IsOngoing,
			stamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert period %s: %w", p.PeriodKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeletePeriods removes all stored periods of a portfolio.
func (r *MaterializedRepository) DeletePeriods(ctx context.Context, portfolioID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM performance_materialized WHERE portfolio_id = ?`, portfolioID); err != nil {
		return fmt.Errorf("failed to delete performance_materialized: %w", err)
	}
	return nil
}
