package request

import "github.com/shopspring/decimal"

// CreateCashFlowRequest represents the request body for recording a cash flow.
// Description is accepted as a fallback for Notes.
type CreateCashFlowRequest struct {
	Date        string              `json:"date"`
	Amount      decimal.NullDecimal `json:"amount"`
	Type        string              `json:"type"`
	Notes       string              `json:"notes"`
	Description string              `json:"description"`
}
