package service

import (
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/shopspring/decimal"
)

// RoundingPrecision is the number of decimal places used for money and percentages
// in API responses. Calculations keep full precision.
const RoundingPrecision = 2

// round rounds a decimal value to RoundingPrecision places and converts it for JSON output.
// Rounding is half away from zero.
//
// Example:
//
//	round(decimal.RequireFromString("123.456789"))  // returns 123.46
//	round(decimal.RequireFromString("0.005"))       // returns 0.01
//	round(decimal.RequireFromString("-1.994"))      // returns -1.99
func round(value decimal.Decimal) float64 {
	return value.Round(RoundingPrecision).InexactFloat64()
}

// ToMonthlyPeriodResponses converts engine periods to their JSON form, preserving order.
func ToMonthlyPeriodResponses(periods []model.MonthlyPeriod) []model.MonthlyPeriodResponse {
	result := make([]model.MonthlyPeriodResponse, 0, len(periods))
	for _, p := range periods {
		result = append(result, model.MonthlyPeriodResponse{
			PeriodKey:        p.PeriodKey,
			PeriodLabel:      p.PeriodLabel,
			StartDate:        p.StartDate.Format("2006-01-02"),
			EndDate:          p.EndDate.Format("2006-01-02"),
			StartValue:       round(p.StartValue),
			EndValue:         round(p.EndValue),
			NetFlow:          round(p.NetFlow),
			PnL:              round(p.PnL),
			ReturnPct:        round(p.ReturnPct),
			CumulativeReturn: round(p.CumulativeReturn),
			Principal:        round(p.Principal),
			IsOngoing:        p.IsOngoing,
		})
	}
	return result
}

// ToMetricsResponse converts engine metrics to their JSON form.
func ToMetricsResponse(m model.PortfolioMetrics) model.PortfolioMetricsResponse {
	return model.PortfolioMetricsResponse{
		CurrentValue:     round(m.CurrentValue),
		NetContributions: round(m.NetContributions),
		TotalInvested:    round(m.TotalInvested),
		TotalWithdrawn:   round(m.TotalWithdrawn),
		TotalPnL:         round(m.TotalPnL),
		SimpleReturnPct:  round(m.SimpleReturnPct),
	}
}

// ToChartPointResponses converts chart points to their JSON form, preserving order.
func ToChartPointResponses(points []model.ChartPoint) []model.ChartPointResponse {
	result := make([]model.ChartPointResponse, 0, len(points))
	for _, p := range points {
		result = append(result, model.ChartPointResponse{
			Date:     p.Date.Format("2006-01-02"),
			Value:    round(p.Value),
			Invested: round(p.Invested),
		})
	}
	return result
}
