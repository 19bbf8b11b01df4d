package request

import "github.com/shopspring/decimal"

// CreateValuationRequest represents the request body for recording a valuation.
type CreateValuationRequest struct {
	Date  string              `json:"date"`
	Value decimal.NullDecimal `json:"value"`
}
