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

// SnapshotRefresher recalculates the materialized performance periods of a portfolio.
type SnapshotRefresher interface {
	RefreshPortfolio(ctx context.Context, portfolioID string) (int, error)
}

// CashFlowService handles cash flow business logic operations.
// Every successful write refreshes the portfolio's materialized performance periods.
type CashFlowService struct {
	cashFlowRepo  *repository.CashFlowRepository
	portfolioRepo *repository.PortfolioRepository
	refresher     SnapshotRefresher
	logger        zerolog.Logger
}

// NewCashFlowService creates a new CashFlowService.
// refresher may be nil, in which case writes do not refresh snapshots.
func NewCashFlowService(
	cashFlowRepo *repository.CashFlowRepository,
	portfolioRepo *repository.PortfolioRepository,
	refresher SnapshotRefresher,
	logger zerolog.Logger,
) *CashFlowService {
	return &CashFlowService{
		cashFlowRepo:  cashFlowRepo,
		portfolioRepo: portfolioRepo,
		refresher:     refresher,
		logger:        logger.With().Str("component", "CashFlowService").Logger(),
	}
}

// GetCashFlows retrieves all cash flows of a portfolio.
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *CashFlowService) GetCashFlows(ctx context.Context, portfolioID string) ([]model.CashFlow, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return s.cashFlowRepo.GetCashFlows(ctx, portfolioID)
}

// CreateCashFlow records a cash flow from a validated request.
//
// Notes fall back to the request description when empty. The amount is stored as
// entered; sign conventions are resolved during calculation.
//
// Returns ErrPortfolioNotFound if the portfolio does not exist.
func (s *CashFlowService) CreateCashFlow(ctx context.Context, portfolioID string, req request.CreateCashFlowRequest) (*model.CashFlow, error) {
	if _, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID); err != nil {
		return nil, err
	}

	date, err := repository.ParseTime(req.Date)
	if err != nil {
		return nil, err
	}

	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		notes = strings.TrimSpace(req.Description)
	}

	cashFlow := &model.CashFlow{
		ID:          uuid.New().String(),
		PortfolioID: portfolioID,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Amount:      req.Amount.Decimal,
		Type:        model.FlowType(req.Type),
		Notes:       notes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.cashFlowRepo.InsertCashFlow(ctx, cashFlow); err != nil {
		return nil, fmt.Errorf("failed to create cash flow: %w", err)
	}

	s.logger.Info().
		Str("portfolio_id", portfolioID).
		Str("cash_flow_id", cashFlow.ID).
		Str("type", string(cashFlow.Type)).
		Msg("cash flow created")

	refreshAfterWrite(ctx, s.refresher, s.logger, portfolioID)
	return cashFlow, nil
}

// DeleteCashFlow removes a cash flow.
// Returns ErrCashFlowNotFound if it does not exist.
func (s *CashFlowService) DeleteCashFlow(ctx context.Context, cashFlowID string) error {
	cashFlow, err := s.cashFlowRepo.GetCashFlow(ctx, cashFlowID)
	if err != nil {
		return err
	}

	if err := s.cashFlowRepo.DeleteCashFlow(ctx, cashFlowID); err != nil {
		return err
	}

	s.logger.Info().
		Str("portfolio_id", cashFlow.PortfolioID).
		Str("cash_flow_id", cashFlowID).
		Msg("cash flow deleted")

	refreshAfterWrite(ctx, s.refresher, s.logger, cashFlow.PortfolioID)
	return nil
}

// refreshAfterWrite refreshes snapshots after a successful write. A failed refresh
// does not fail the write; the stale snapshot is dropped by the refresher and
// reads fall back to on-demand calculation.
func refreshAfterWrite(ctx context.Context, refresher SnapshotRefresher, logger zerolog.Logger, portfolioID string) {
	if refresher == nil {
		return
	}
	if _, err := refresher.RefreshPortfolio(ctx, portfolioID); err != nil {
		logger.Warn().Err(err).Str("portfolio_id", portfolioID).Msg("snapshot refresh after write failed")
	}
}
