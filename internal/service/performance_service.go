package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/performance"
	"github.com/ndewijer/portfolio-performance/internal/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PerformanceService exposes the performance engine on stored portfolio data.
// Every call recalculates from raw records, except all-time monthly reads that can be
// served from the materialized periods written on the same day.
type PerformanceService struct {
	dataLoader       *DataLoaderService
	materializedRepo *repository.MaterializedRepository
	logger           zerolog.Logger
	now              func() time.Time
}

// NewPerformanceService creates a new PerformanceService.
func NewPerformanceService(
	dataLoader *DataLoaderService,
	materializedRepo *repository.MaterializedRepository,
	logger zerolog.Logger,
) *PerformanceService {
	return &PerformanceService{
		dataLoader:       dataLoader,
		materializedRepo: materializedRepo,
		logger:           logger.With().Str("component", "PerformanceService").Logger(),
		now:              time.Now,
	}
}

// SetClock replaces the time source used to decide whether snapshots are current.
func (s *PerformanceService) SetClock(now func() time.Time) {
	s.now = now
}

// GetMonthlyPerformance returns the monthly periods of a portfolio for a reporting window,
// newest first.
//
// For the all-time window evaluated as of today, materialized periods are returned when
// they were calculated today. Any other request, or a missing or stale snapshot, falls
// back to on-demand calculation.
//
// Parameters:
//   - portfolioID: The portfolio to report on
//   - key: Reporting window
//   - asOf: Evaluation date; records after it are ignored when it lies before today
//
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *PerformanceService) GetMonthlyPerformance(ctx context.Context, portfolioID string, key model.RangeKey, asOf time.Time) ([]model.MonthlyPeriod, error) {
	if key == model.RangeAll && sameDay(asOf, s.now()) {
		periods, ok, err := s.materializedPeriods(ctx, portfolioID, asOf)
		if err != nil {
			s.logger.Warn().Err(err).Str("portfolio_id", portfolioID).Msg("materialized read failed, calculating on demand")
		} else if ok {
			return periods, nil
		}
	}

	data, err := s.dataLoader.LoadPortfolioData(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	return s.monthlyForRange(visibleAt(data, asOf, s.now()), key, asOf)
}

// GetMetrics returns the lifetime metrics of a portfolio as of the given date.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *PerformanceService) GetMetrics(ctx context.Context, portfolioID string, asOf time.Time) (model.PortfolioMetrics, error) {
	data, err := s.dataLoader.LoadPortfolioData(ctx, portfolioID)
	if err != nil {
		return model.PortfolioMetrics{}, err
	}

	return CalculateMetrics(visibleAt(data, asOf, s.now()), asOf), nil
}

// GetChartData returns the value and invested series of a portfolio for a reporting window,
// oldest first.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *PerformanceService) GetChartData(ctx context.Context, portfolioID string, key model.RangeKey, asOf time.Time) ([]model.ChartPoint, error) {
	data, err := s.dataLoader.LoadPortfolioData(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	trimmed := visibleAt(data, asOf, s.now())
	filtered, err := performance.FilterByRange(trimmed.Valuations, trimmed.CashFlows, key, asOf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToPrepareChart, err)
	}

	return performance.PrepareChartData(filtered.Valuations, filtered.CashFlows), nil
}

// GetTWR returns the time-weighted return for a reporting window.
// The boolean is false when the window holds no valuation with a positive value.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *PerformanceService) GetTWR(ctx context.Context, portfolioID string, key model.RangeKey, asOf time.Time) (decimal.Decimal, bool, error) {
	data, err := s.dataLoader.LoadPortfolioData(ctx, portfolioID)
	if err != nil {
		return decimal.Zero, false, err
	}

	trimmed := visibleAt(data, asOf, s.now())
	filtered, err := performance.FilterByRange(trimmed.Valuations, trimmed.CashFlows, key, asOf)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %w", apperrors.ErrFailedToCalculatePerformance, err)
	}

	twr, ok := performance.CalculateTWR(filtered.Valuations, filtered.CashFlows, asOf)
	return twr, ok, nil
}

// CalculateMetrics derives lifetime metrics from already loaded data.
func CalculateMetrics(data *PortfolioData, asOf time.Time) model.PortfolioMetrics {
	currentValue := performance.CurrentValue(data.Valuations, data.CashFlows)
	return performance.ComputeMetrics(currentValue, data.CashFlows, data.Valuations, asOf)
}

// monthlyForRange runs the monthly engine on data sliced to a reporting window.
func (s *PerformanceService) monthlyForRange(data *PortfolioData, key model.RangeKey, asOf time.Time) ([]model.MonthlyPeriod, error) {
	filtered, err := performance.FilterByRange(data.Valuations, data.CashFlows, key, asOf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToCalculatePerformance, err)
	}

	return performance.CalculateMonthlyPerformance(filtered.Valuations, filtered.CashFlows, asOf), nil
}

// materializedPeriods reads stored periods and reports whether they are usable as of asOf.
// Snapshots are only trusted when every row was calculated on the asOf date.
func (s *PerformanceService) materializedPeriods(ctx context.Context, portfolioID string, asOf time.Time) ([]model.MonthlyPeriod, bool, error) {
	periods := []model.MonthlyPeriod{}
	fresh := true

	err := s.materializedRepo.GetMaterializedPeriods(ctx, portfolioID, func(record model.PerformanceMaterialized) error {
		if !sameDay(record.CalculatedAt, asOf) {
			fresh = false
		}
		periods = append(periods, record.Period)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if len(periods) == 0 || !fresh {
		return nil, false, nil
	}
	return periods, true, nil
}

// visibleAt returns the records a calculation as of asOf may use. A past evaluation
// date hides everything recorded after it; evaluating as of today keeps future-dated
// records, so the month of the latest valuation still gets a period.
func visibleAt(data *PortfolioData, asOf, now time.Time) *PortfolioData {
	y, m, d := now.UTC().Date()
	if asOf.UTC().Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return data.Until(asOf)
	}
	return data
}

// sameDay reports whether a and b fall on the same UTC calendar date.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
