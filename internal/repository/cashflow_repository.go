package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
)

// CashFlowRepository provides data access methods for the cash_flow table.
type CashFlowRepository struct {
	db *sql.DB
}

// NewCashFlowRepository creates a new CashFlowRepository with the provided database connection.
func NewCashFlowRepository(db *sql.DB) *CashFlowRepository {
	return &CashFlowRepository{db: db}
}

// GetCashFlows retrieves all cash flows of a portfolio ordered by date and insertion time.
// Returns an empty slice if the portfolio has no cash flows.
func (r *CashFlowRepository) GetCashFlows(ctx context.Context, portfolioID string) ([]model.CashFlow, error) {
	query := `
        SELECT id, portfolio_id, date, amount, type, notes, created_at
        FROM cash_flow
        WHERE portfolio_id = ?
        ORDER BY date ASC, created_at ASC
    `

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash_flow table: %w", err)
	}
	defer rows.Close()

	flows := []model.CashFlow{}

	for rows.Next() {
		cf, err := scanCashFlow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash_flow table results: %w", err)
		}
		flows = append(flows, cf)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_flow table: %w", err)
	}

	return flows, nil
}

// GetCashFlow retrieves a single cash flow.
// Returns ErrCashFlowNotFound if no cash flow with the given ID exists.
func (r *CashFlowRepository) GetCashFlow(ctx context.Context, cashFlowID string) (model.CashFlow, error) {
	query := `
        SELECT id, portfolio_id, date, amount, type, notes, created_at
        FROM cash_flow
        WHERE id = ?
    `

	cf, err := scanCashFlow(r.db.QueryRowContext(ctx, query, cashFlowID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.CashFlow{}, apperrors.ErrCashFlowNotFound
	}
	if err != nil {
		return model.CashFlow{}, fmt.Errorf("failed to query cash flow: %w", err)
	}

	return cf, nil
}

// InsertCashFlow stores a new cash flow. The ID and CreatedAt must already be set.
func (r *CashFlowRepository) InsertCashFlow(ctx context.Context, cf *model.CashFlow) error {
	query := `
        INSERT INTO cash_flow (id, portfolio_id, date, amount, type, notes, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	_, err := r.db.ExecContext(ctx, query,
		cf.ID,
		cf.PortfolioID,
		cf.Date.Format(dateLayout),
		cf.Amount.String(),
		string(cf.Type),
		cf.Notes,
		formatTimestamp(cf.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cash flow: %w", err)
	}

	return nil
}

// DeleteCashFlow removes a cash flow by its ID.
// Returns ErrCashFlowNotFound if no record with the given ID exists.
func (r *CashFlowRepository) DeleteCashFlow(ctx context.Context, cashFlowID string) error {
	query := `DELETE FROM cash_flow WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, cashFlowID)
	if err != nil {
		return fmt.Errorf("failed to delete cash flow: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrCashFlowNotFound
	}

	return nil
}

func scanCashFlow(row rowScanner) (model.CashFlow, error) {
	var cf model.CashFlow
	var dateStr, flowType string
	var notes, createdAt sql.NullString

	err := row.Scan(
		&cf.ID,
		&cf.PortfolioID,
		&dateStr,
		&cf.Amount,
		&flowType,
		&notes,
		&createdAt,
	)
	if err != nil {
		return model.CashFlow{}, err
	}

	cf.Type = model.FlowType(flowType)
	cf.Notes = notes.String

	cf.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.CashFlow{}, fmt.Errorf("failed to parse date: %w", err)
	}

	cf.CreatedAt, err = parseNullTime(createdAt)
	if err != nil {
		return model.CashFlow{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return cf, nil
}
