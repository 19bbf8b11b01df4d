package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/portfolio-performance/internal/api/request"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/repository"
	"github.com/rs/zerolog"
)

// PortfolioService handles portfolio-related business logic operations.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
	logger        zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	logger zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		logger:        logger.With().Str("component", "PortfolioService").Logger(),
	}
}

// GetAllPortfolios retrieves all portfolios from the database with no filters applied.
// This includes both archived and excluded portfolios.
func (s *PortfolioService) GetAllPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios(ctx, model.PortfolioFilter{
		IncludeArchived: true,
		IncludeExcluded: true,
	})
}

// GetActivePortfolios retrieves portfolios that are neither archived nor excluded from the overview.
func (s *PortfolioService) GetActivePortfolios(ctx context.Context) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios(ctx, model.PortfolioFilter{})
}

// GetPortfolio retrieves a single portfolio by ID.
// Returns ErrPortfolioNotFound if it does not exist.
func (s *PortfolioService) GetPortfolio(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
}

// CreatePortfolio stores a new portfolio from a validated request.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, req request.CreatePortfolioRequest) (*model.Portfolio, error) {
	portfolio := &model.Portfolio{
		ID:                  uuid.New().String(),
		Name:                strings.TrimSpace(req.Name),
		Description:         strings.TrimSpace(req.Description),
		IsArchived:          req.IsArchived,
		ExcludeFromOverview: req.ExcludeFromOverview,
		CreatedAt:           time.Now().UTC(),
	}

	if err := s.portfolioRepo.InsertPortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	s.logger.Info().Str("portfolio_id", portfolio.ID).Msg("portfolio created")
	return portfolio, nil
}

// DeletePortfolio removes a portfolio together with its cash flows, valuations and snapshots.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, portfolioID string) error {
	if err := s.portfolioRepo.DeletePortfolio(ctx, portfolioID); err != nil {
		return err
	}

	s.logger.Info().Str("portfolio_id", portfolioID).Msg("portfolio deleted")
	return nil
}
