package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/portfolio-performance/internal/api/request"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/repository"
	"github.com/rs/zerolog"
)

// ValuationService handles valuation business logic operations.
// Multiple valuations on the same date are kept; the latest entry wins during calculation.
type ValuationService struct {
	valuationRepo *repository.ValuationRepository
	portfolioRepo *repository.PortfolioRepository
	refresher     SnapshotRefresher
	logger        zerolog.Logger
}

// NewValuationService creates a new ValuationService.
// refresher may be nil, in which case writes do not refresh snapshots.
func NewValuationService(
	valuationRepo *repository.ValuationRepository,
	portfolioRepo *repository.PortfolioRepository,
	refresher SnapshotRefresher,
	logger zerolog.Logger,
) *ValuationService {
	return &ValuationService{
		valuationRepo: valuationRepo,
		portfolioRepo: portfolioRepo,
		refresher:     refresher,
		logger:        logger.With().Str("component", "ValuationService").Logger(),
	}
}

// GetValuations retrieves all stored valuations of a portfolio, including same-date duplicates.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *ValuationService) GetValuations(ctx context.Context, portfolioID string) ([]model.Valuation, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.valuationRepo.GetValuations(ctx, portfolioID)
}

// CreateValuation records a valuation from a validated request.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *ValuationService) CreateValuation(ctx context.Context, portfolioID string, req request.CreateValuationRequest) (*model.Valuation, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}

	date, err := repository.ParseTime(req.Date)
	if err != nil {
		return nil, err
	}

	valuation := &model.Valuation{
		ID:          uuid.New().String(),
		PortfolioID: portfolioID,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Value:       req.Value.Decimal,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.valuationRepo.InsertValuation(ctx, valuation); err != nil {
		return nil, fmt.Errorf("failed to create valuation: %w", err)
	}

	s.logger.Info().
		Str("portfolio_id", portfolioID).
		Str("valuation_id", valuation.ID).
		Msg("valuation created")

	refreshAfterWrite(ctx, s.refresher, s.logger, portfolioID)
	return valuation, nil
}

// DeleteValuation removes a valuation.
// Returns ErrValuationNotFound if it does not exist.
func (s *ValuationService) DeleteValuation(ctx context.Context, valuationID string) error {
	valuation, err := s.valuationRepo.GetValuation(ctx, valuationID)
	if err != nil {
		return err
	}

	if err := s.valuationRepo.DeleteValuation(ctx, valuationID); err != nil {
		return err
	}

	s.logger.Info().
		Str("portfolio_id", valuation.PortfolioID).
		Str("valuation_id", valuationID).
		Msg("valuation deleted")

	refreshAfterWrite(ctx, s.refresher, s.logger, valuation.PortfolioID)
	return nil
}
