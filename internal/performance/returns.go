package performance

import (
	"time"

	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/shopspring/decimal"
)

// CalculateTWR returns the time-weighted return of a portfolio, defined as the
// cumulative return of the most recent monthly period.
// The boolean is false when there is no period to report on.
func CalculateTWR(valuations []model.Valuation, flows []model.CashFlow, asOf time.Time) (decimal.Decimal, bool) {
	periods := CalculateMonthlyPerformance(valuations, flows, asOf)
	if len(periods) == 0 {
		return decimal.Zero, false
	}
	return periods[0].CumulativeReturn, true
}

// ChainReturns compounds period returns given in percent into one return in percent:
// (Π(1 + r/100) - 1) × 100.
//
// CalculateMonthlyPerformance sums period returns arithmetically; this helper is the
// geometric alternative for callers that want a compounded figure.
func ChainReturns(pcts []decimal.Decimal) decimal.Decimal {
	product := decimal.NewFromInt(1)
	for _, pct := range pcts {
		product = product.Mul(decimal.NewFromInt(1).Add(pct.Div(hundred)))
	}
	return product.Sub(decimal.NewFromInt(1)).Mul(hundred)
}
