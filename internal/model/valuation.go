package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valuation is a point-in-time market value snapshot of a portfolio.
type Valuation struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	Date        time.Time       `json:"date"`
	Value       decimal.Decimal `json:"value"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}
