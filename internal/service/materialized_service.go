package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/performance"
	"github.com/ndewijer/portfolio-performance/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MaterializedService maintains the performance_materialized table.
// Snapshots are always regenerated in full from raw data, never patched incrementally.
type MaterializedService struct {
	materializedRepo *repository.MaterializedRepository
	portfolioRepo    *repository.PortfolioRepository
	dataLoader       *DataLoaderService
	workers          int
	logger           zerolog.Logger
	now              func() time.Time
}

// NewMaterializedService creates a new MaterializedService.
// workers bounds the number of portfolios refreshed concurrently by RefreshAll.
func NewMaterializedService(
	materializedRepo *repository.MaterializedRepository,
	portfolioRepo *repository.PortfolioRepository,
	dataLoader *DataLoaderService,
	workers int,
	logger zerolog.Logger,
) *MaterializedService {
	if workers < 1 {
		workers = 1
	}
	return &MaterializedService{
		materializedRepo: materializedRepo,
		portfolioRepo:    portfolioRepo,
		dataLoader:       dataLoader,
		workers:          workers,
		logger:           logger.With().Str("component", "MaterializedService").Logger(),
		now:              time.Now,
	}
}

// SetClock replaces the time source used as the evaluation date of refreshed snapshots.
func (s *MaterializedService) SetClock(now func() time.Time) {
	s.now = now
}

// RefreshPortfolio recalculates and stores the all-time monthly periods of one portfolio.
//
// When the refresh fails after the portfolio was found, existing snapshots are removed so
// reads fall back to on-demand calculation instead of serving outdated periods.
//
// Returns the number of stored periods, or ErrPortfolioNotFound if the portfolio does not exist.
func (s *MaterializedService) RefreshPortfolio(ctx context.Context, portfolioID string) (int, error) {
	asOf := s.now().UTC()

	data, err := s.dataLoader.LoadPortfolioData(ctx, portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			return 0, err
		}
		s.invalidate(ctx, portfolioID)
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshSnapshots, err)
	}

	periods := performance.CalculateMonthlyPerformance(data.Valuations, data.CashFlows, asOf)

	if err := s.materializedRepo.ReplacePeriods(ctx, portfolioID, periods, asOf); err != nil {
		s.invalidate(ctx, portfolioID)
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshSnapshots, err)
	}

	s.logger.Debug().
		Str("portfolio_id", portfolioID).
		Int("periods", len(periods)).
		Msg("snapshot refreshed")

	return len(periods), nil
}

// RefreshAll refreshes every portfolio, archived ones included, with at most `workers`
// portfolios in flight. The first failure cancels the remaining refreshes.
//
// Returns the number of portfolios refreshed successfully.
func (s *MaterializedService) RefreshAll(ctx context.Context) (int, error) {
	portfolios, err := s.portfolioRepo.GetPortfolios(ctx, model.PortfolioFilter{
		IncludeArchived: true,
		IncludeExcluded: true,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrievePortfolios, err)
	}

	var refreshed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, p := range portfolios {
		portfolioID := p.ID
		g.Go(func() error {
			if _, err := s.RefreshPortfolio(gctx, portfolioID); err != nil {
				return fmt.Errorf("portfolio %s: %w", portfolioID, err)
			}
			refreshed.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(refreshed.Load()), err
	}

	s.logger.Info().
		Int("portfolios", len(portfolios)).
		Msg("snapshots refreshed")

	return int(refreshed.Load()), nil
}

// invalidate drops the snapshots of a portfolio after a failed refresh.
func (s *MaterializedService) invalidate(ctx context.Context, portfolioID string) {
	if err := s.materializedRepo.DeletePeriods(ctx, portfolioID); err != nil {
		s.logger.Error().Err(err).Str("portfolio_id", portfolioID).Msg("failed to drop stale snapshot")
	}
}
