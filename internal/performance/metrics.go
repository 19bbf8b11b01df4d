package performance

import (
	"time"

	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/shopspring/decimal"
)

// ComputeMetrics derives lifetime totals for a portfolio.
//
// TotalInvested is the sum of positive deposit amounts and TotalWithdrawn the absolute
// sum of withdrawals, both on the canonical type so that notes-tagged capital gains and
// reinvestments never count as capital movements.
//
// With valuations the monthly ledger provides the figures:
//   - NetContributions is the most recent period's EndPrincipal (profit-first basis)
//   - TotalPnL is (currentValue + TotalWithdrawn) - TotalInvested
//   - SimpleReturnPct is the most recent period's CumulativeReturn
//
// Without valuations, or when no valuation has a positive value, the totals are
// netted directly:
//   - NetContributions is TotalInvested - TotalWithdrawn
//   - TotalPnL is currentValue - NetContributions
//   - SimpleReturnPct is TotalPnL over NetContributions in percent, or 0 when
//     NetContributions is not positive
func ComputeMetrics(currentValue decimal.Decimal, flows []model.CashFlow, valuations []model.Valuation, asOf time.Time) model.PortfolioMetrics {
	totalInvested, totalWithdrawn := externalTotals(flows)

	metrics := model.PortfolioMetrics{
		CurrentValue:     currentValue,
		NetContributions: decimal.Zero,
		TotalInvested:    totalInvested,
		TotalWithdrawn:   totalWithdrawn,
		TotalPnL:         decimal.Zero,
		SimpleReturnPct:  decimal.Zero,
	}

	if len(valuations) > 0 {
		// Only zero-valued valuations produce no periods; net directly in that case
		if periods := CalculateMonthlyPerformance(valuations, flows, asOf); len(periods) > 0 {
			metrics.NetContributions = periods[0].EndPrincipal
			metrics.TotalPnL = currentValue.Add(totalWithdrawn).Sub(totalInvested)
			metrics.SimpleReturnPct = periods[0].CumulativeReturn
			return metrics
		}
	}

	metrics.NetContributions = totalInvested.Sub(totalWithdrawn)
	metrics.TotalPnL = currentValue.Sub(metrics.NetContributions)
	if metrics.NetContributions.IsPositive() {
		metrics.SimpleReturnPct = metrics.TotalPnL.Div(metrics.NetContributions).Mul(hundred)
	}

	return metrics
}

// CurrentValue rolls the latest valuation forward to today.
//
// Flows dated strictly after the latest effective valuation are not yet part of any
// snapshot, so their signed amounts are added on top of it. Reinvestments are skipped
// because they move money between earnings and principal without changing value.
// Without valuations the current value is the net external flow.
func CurrentValue(valuations []model.Valuation, flows []model.CashFlow) decimal.Decimal {
	deduped := DedupeValuations(valuations)

	if len(deduped) == 0 {
		value := decimal.Zero
		for _, flow := range flows {
			if IsExternal(Classify(flow)) {
				value = value.Add(SignedAmount(flow))
			}
		}
		return value
	}

	latest := deduped[len(deduped)-1]
	latestDate := dateOnly(latest.Date)

	value := latest.Value
	for _, flow := range flows {
		if !dateOnly(flow.Date).After(latestDate) {
			continue
		}
		if Classify(flow) == model.FlowReinvestment {
			continue
		}
		value = value.Add(SignedAmount(flow))
	}
	return value
}

// externalTotals sums deposits and withdrawals by canonical type.
func externalTotals(flows []model.CashFlow) (invested, withdrawn decimal.Decimal) {
	invested, withdrawn = decimal.Zero, decimal.Zero
	for _, flow := range flows {
		switch Classify(flow) {
		case model.FlowDeposit:
			if flow.Amount.IsPositive() {
				invested = invested.Add(flow.Amount)
			}
		case model.FlowWithdrawal:
			withdrawn = withdrawn.Add(flow.Amount.Abs())
		}
	}
	return invested, withdrawn
}
