// Package performance computes portfolio performance from cash flows and valuations.
//
// Every function in this package is pure: inputs may be passed in any order,
// nothing is cached between calls and identical inputs always produce identical
// outputs. Callers load the records (see service.PerformanceService) and hand
// the complete history to these functions.
package performance

import (
	"strings"

	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/shopspring/decimal"
)

// Classify resolves the canonical type of a cash flow.
//
// Upstream storage cannot represent every category directly, so a capital gain or
// a reinvestment may be stored as "other" (or "adjustment") with a marker in the
// notes. Rules are applied in order:
//   - deposit and withdrawal are returned unchanged
//   - other, capital_gain or adjustment with "capital gain" in the notes → capital_gain
//   - other, adjustment or reinvestment with "(reinvestment)" in the notes → reinvestment
//   - anything else is returned unchanged, including unknown types
func Classify(flow model.CashFlow) model.FlowType {
	switch flow.Type {
	case model.FlowDeposit, model.FlowWithdrawal:
		return flow.Type
	}

	notes := strings.ToLower(flow.Notes)

	switch flow.Type {
	case model.FlowOther, model.FlowCapitalGain, model.FlowAdjustment:
		if strings.Contains(notes, "capital gain") {
			return model.FlowCapitalGain
		}
	}

	switch flow.Type {
	case model.FlowOther, model.FlowAdjustment, model.FlowReinvestment:
		if strings.Contains(notes, "(reinvestment)") {
			return model.FlowReinvestment
		}
	}

	return flow.Type
}

// IsExternal reports whether a canonical type moves capital in or out of the portfolio.
// Only deposits and withdrawals are external; unknown types count as internal so
// capital movements are never overstated.
func IsExternal(t model.FlowType) bool {
	return t == model.FlowDeposit || t == model.FlowWithdrawal
}

// SignedAmount returns the flow amount with its sign inferred from the canonical type.
// Some producers store unsigned magnitudes, so deposits are forced positive and
// withdrawals, fees and taxes negative. Other types keep their stored sign.
func SignedAmount(flow model.CashFlow) decimal.Decimal {
	switch Classify(flow) {
	case model.FlowDeposit:
		return flow.Amount.Abs()
	case model.FlowWithdrawal, model.FlowFee, model.FlowTax:
		return flow.Amount.Abs().Neg()
	default:
		return flow.Amount
	}
}

// chartCountsTowardInvested is the looser "invested" filter used by PrepareChartData.
// It differs from IsExternal on purpose: reinvestments and untagged "other" flows
// are part of the invested line but not of the net external flow.
func chartCountsTowardInvested(t model.FlowType) bool {
	switch t {
	case model.FlowFee, model.FlowTax, model.FlowAdjustment, model.FlowCapitalGain:
		return false
	default:
		return true
	}
}

// flowClass orders same-day flows: income first, outflows last.
func flowClass(t model.FlowType) int {
	switch t {
	case model.FlowDeposit, model.FlowCapitalGain, model.FlowOther:
		return 0
	case model.FlowWithdrawal, model.FlowFee, model.FlowTax:
		return 2
	default:
		return 1
	}
}
