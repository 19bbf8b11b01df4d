package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetPortfolios retrieves portfolios from the database based on filter criteria.
// The filter allows control over whether archived and overview-excluded portfolios are included.
// Returns an empty slice if no portfolios match the filter criteria.
func (r *PortfolioRepository) GetPortfolios(ctx context.Context, filter model.PortfolioFilter) ([]model.Portfolio, error) {
	query := `
          SELECT id, name, description, is_archived, exclude_from_overview, created_at
          FROM portfolio
          WHERE 1=1
      `
	var args []any

	if !filter.IncludeArchived {
		query += " AND is_archived = ?"
		args = append(args, 0)
	}

	if !filter.IncludeExcluded {
		query += " AND exclude_from_overview = ?"
		args = append(args, 0)
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolioOnID retrieves a single portfolio.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) GetPortfolioOnID(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	query := `
          SELECT id, name, description, is_archived, exclude_from_overview, created_at
          FROM portfolio
          WHERE id = ?
      `

	p, err := scanPortfolio(r.db.QueryRowContext(ctx, query, portfolioID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	return p, nil
}

// InsertPortfolio stores a new portfolio. The ID and CreatedAt must already be set.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p *model.Portfolio) error {
	query := `
        INSERT INTO portfolio (id, name, description, is_archived, exclude_from_overview, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.IsArchived,
		p.ExcludeFromOverview,
		formatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

// DeletePortfolio removes a portfolio. Cash flows, valuations and materialized
// periods are removed through ON DELETE CASCADE.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) DeletePortfolio(ctx context.Context, portfolioID string) error {
	query := `DELETE FROM portfolio WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, portfolioID)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrPortfolioNotFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (model.Portfolio, error) {
	var p model.Portfolio
	var description, createdAt sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.IsArchived,
		&p.ExcludeFromOverview,
		&createdAt,
	)
	if err != nil {
		return model.Portfolio{}, err
	}

	p.Description = description.String
	p.CreatedAt, err = parseNullTime(createdAt)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return p, nil
}
