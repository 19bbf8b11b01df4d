package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
)

// ValuationRepository provides data access methods for the valuation table.
// Rows are returned as stored; same-date duplicates are resolved by the performance engine.
type ValuationRepository struct {
	db *sql.DB
}

// NewValuationRepository creates a new ValuationRepository with the provided database connection.
func NewValuationRepository(db *sql.DB) *ValuationRepository {
	return &ValuationRepository{db: db}
}

// GetValuations retrieves all valuations of a portfolio, oldest first.
func (r *ValuationRepository) GetValuations(ctx context.Context, portfolioID string) ([]model.Valuation, error) {
	query := `
        SELECT id, portfolio_id, date, value, created_at
        FROM valuation
        WHERE portfolio_id = ?
        ORDER BY date ASC, created_at ASC
    `

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuation table: %w", err)
	}
	defer rows.Close()

	valuations := []model.Valuation{}

	for rows.Next() {
		v, err := scanValuation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan valuation table results: %w", err)
		}
		valuations = append(valuations, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating valuation table: %w", err)
	}

	return valuations, nil
}

// GetValuation retrieves a single valuation.
// Returns ErrValuationNotFound if no valuation with the given ID exists.
func (r *ValuationRepository) GetValuation(ctx context.Context, valuationID string) (model.Valuation, error) {
	query := `
        SELECT id, portfolio_id, date, value, created_at
        FROM valuation
        WHERE id = ?
    `

	v, err := scanValuation(r.db.QueryRowContext(ctx, query, valuationID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Valuation{}, apperrors.ErrValuationNotFound
	}
	if err != nil {
		return model.Valuation{}, fmt.Errorf("failed to query valuation: %w", err)
	}

	return v, nil
}

// InsertValuation stores a new valuation. The ID and CreatedAt must already be set.
func (r *ValuationRepository) InsertValuation(ctx context.Context, v *model.Valuation) error {
	query := `
        INSERT INTO valuation (id, portfolio_id, date, value, created_at)
        VALUES (?, ?, ?, ?, ?)
    `

	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.PortfolioID,
		v.Date.Format(dateLayout),
		v.Value.String(),
		formatTimestamp(v.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert valuation: %w", err)
	}

	return nil
}

// DeleteValuation removes a valuation by its ID.
// Returns ErrValuationNotFound if no record with the given ID exists.
func (r *ValuationRepository) DeleteValuation(ctx context.Context, valuationID string) error {
	query := `DELETE FROM valuation WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, valuationID)
	if err != nil {
		return fmt.Errorf("failed to delete valuation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrValuationNotFound
	}

	return nil
}

func scanValuation(row rowScanner) (model.Valuation, error) {
	var v model.Valuation
	var dateStr string
	var createdAt sql.NullString

	err := row.Scan(
		&v.ID,
		&v.PortfolioID,
		&dateStr,
		&v.Value,
		&createdAt,
	)
	if err != nil {
		return model.Valuation{}, err
	}

	v.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.Valuation{}, fmt.Errorf("failed to parse date: %w", err)
	}

	v.CreatedAt, err = parseNullTime(createdAt)
	if err != nil {
		return model.Valuation{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return v, nil
}
