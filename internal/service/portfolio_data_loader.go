package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/repository"
	"golang.org/x/sync/errgroup"
)

// DataLoaderService centralizes the loading of all data required for performance calculations.
// Cash flows and valuations are read concurrently; the portfolio lookup runs alongside them
// so a missing portfolio is reported without waiting for the other reads.
type DataLoaderService struct {
	portfolioRepo *repository.PortfolioRepository
	cashFlowRepo  *repository.CashFlowRepository
	valuationRepo *repository.ValuationRepository
}

// NewDataLoaderService creates a new DataLoaderService with the provided dependencies.
func NewDataLoaderService(
	portfolioRepo *repository.PortfolioRepository,
	cashFlowRepo *repository.CashFlowRepository,
	valuationRepo *repository.ValuationRepository,
) *DataLoaderService {
	return &DataLoaderService{
		portfolioRepo: portfolioRepo,
		cashFlowRepo:  cashFlowRepo,
		valuationRepo: valuationRepo,
	}
}

// PortfolioData contains all data needed for the performance calculation of one portfolio.
// Records are returned as stored: unsorted from the engine's point of view and possibly
// containing same-date valuation duplicates.
type PortfolioData struct {
	Portfolio  model.Portfolio
	CashFlows  []model.CashFlow
	Valuations []model.Valuation
}

// LoadPortfolioData reads a portfolio together with its cash flows and valuations.
//
// Returns ErrPortfolioNotFound (wrapped) if the portfolio does not exist, or the first
// repository error encountered.
func (s *DataLoaderService) LoadPortfolioData(ctx context.Context, portfolioID string) (*PortfolioData, error) {
	data := &PortfolioData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		portfolio, err := s.portfolioRepo.GetPortfolioOnID(gctx, portfolioID)
		if err != nil {
			return err
		}
		data.Portfolio = portfolio
		return nil
	})

	g.Go(func() error {
		flows, err := s.cashFlowRepo.GetCashFlows(gctx, portfolioID)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveCashFlows, err)
		}
		data.CashFlows = flows
		return nil
	})

	g.Go(func() error {
		valuations, err := s.valuationRepo.GetValuations(gctx, portfolioID)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveValuations, err)
		}
		data.Valuations = valuations
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return data, nil
}

// Until returns a copy of the data without records dated after asOf.
// Records after asOf have not happened yet from the point of view of the calculation.
func (data *PortfolioData) Until(asOf time.Time) *PortfolioData {
	y, m, d := asOf.UTC().Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	trimmed := &PortfolioData{
		Portfolio:  data.Portfolio,
		CashFlows:  make([]model.CashFlow, 0, len(data.CashFlows)),
		Valuations: make([]model.Valuation, 0, len(data.Valuations)),
	}

	for _, cf := range data.CashFlows {
		if !cf.Date.After(cutoff) {
			trimmed.CashFlows = append(trimmed.CashFlows, cf)
		}
	}
	for _, v := range data.Valuations {
		if !v.Date.After(cutoff) {
			trimmed.Valuations = append(trimmed.Valuations, v)
		}
	}

	return trimmed
}
