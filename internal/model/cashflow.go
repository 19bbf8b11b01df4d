package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlowType is the category of a cash flow as stored upstream.
// Some producers can only store a subset of these values and encode the real
// category in the notes; see performance.Classify for the canonical form.
type FlowType string

const (
	FlowDeposit      FlowType = "deposit"
	FlowWithdrawal   FlowType = "withdrawal"
	FlowFee          FlowType = "fee"
	FlowTax          FlowType = "tax"
	FlowCapitalGain  FlowType = "capital_gain"
	FlowReinvestment FlowType = "reinvestment"
	FlowAdjustment   FlowType = "adjustment"
	FlowOther        FlowType = "other"
)

// ValidFlowTypes contains the flow types accepted at the ingestion boundary.
var ValidFlowTypes = map[FlowType]bool{
	FlowDeposit:      true,
	FlowWithdrawal:   true,
	FlowFee:          true,
	FlowTax:          true,
	FlowCapitalGain:  true,
	FlowReinvestment: true,
	FlowAdjustment:   true,
	FlowOther:        true,
}

// CashFlow is a single dated money movement for a portfolio.
// Amount is signed: deposits positive, withdrawals, fees and taxes negative.
// CreatedAt is only used to order records that share the same date; the zero
// value means the insertion time is unknown.
type CashFlow struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        FlowType        `json:"type"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}
