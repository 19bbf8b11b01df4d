package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyPeriod is one calendar month of reconstructed portfolio performance.
// It is derived on every request and never persisted by the engine itself.
type MonthlyPeriod struct {
	PeriodKey        string          // Month key in YYYY-MM format
	PeriodLabel      string          // Display label, e.g. "Jan 2025"
	StartDate        time.Time       // First calendar day of the month
	EndDate          time.Time       // Last calendar day of the month
	StartValue       decimal.Decimal // Previous month's end value (0 for the first month)
	EndValue         decimal.Decimal // Latest valuation in the month, or carried forward
	NetFlow          decimal.Decimal // Sum of external (deposit/withdrawal) flows
	PnL              decimal.Decimal // EndValue - StartValue - NetFlow
	ReturnPct        decimal.Decimal // PnL relative to Principal, in percent
	CumulativeReturn decimal.Decimal // Running arithmetic sum of ReturnPct
	Principal        decimal.Decimal // Return basis used for this month
	EndPrincipal     decimal.Decimal // Basis carried into the next month
	IsOngoing        bool            // Current month without an end-of-month valuation
}

// PortfolioMetrics holds lifetime totals for a portfolio.
type PortfolioMetrics struct {
	CurrentValue     decimal.Decimal
	NetContributions decimal.Decimal
	TotalInvested    decimal.Decimal
	TotalWithdrawn   decimal.Decimal
	TotalPnL         decimal.Decimal
	SimpleReturnPct  decimal.Decimal
}

// ChartPoint is one point of the value-versus-invested time series.
type ChartPoint struct {
	Date     time.Time
	Value    decimal.Decimal
	Invested decimal.Decimal
}

// RangeKey selects a reporting window.
type RangeKey string

const (
	Range30D     RangeKey = "30D"
	Range60D     RangeKey = "60D"
	Range90D     RangeKey = "90D"
	Range1Y      RangeKey = "1Y"
	RangeYTD     RangeKey = "YTD"
	RangeMonthly RangeKey = "monthly"
	RangeYearly  RangeKey = "yearly"
	RangeAll     RangeKey = "ALL"
)

// ValidRangeKeys contains the supported reporting windows.
var ValidRangeKeys = map[RangeKey]bool{
	Range30D:     true,
	Range60D:     true,
	Range90D:     true,
	Range1Y:      true,
	RangeYTD:     true,
	RangeMonthly: true,
	RangeYearly:  true,
	RangeAll:     true,
}

// FilteredRange is the result of slicing portfolio history to a reporting window.
// StartDate is nil for the all-time range.
type FilteredRange struct {
	Valuations []Valuation
	CashFlows  []CashFlow
	StartDate  *time.Time
}

// PerformanceMaterialized is a pre-calculated monthly period stored in the
// performance_materialized table for fast all-time reads.
type PerformanceMaterialized struct {
	ID           string
	PortfolioID  string
	Period       MonthlyPeriod
	CalculatedAt time.Time
}

// MonthlyPeriodResponse is the JSON form of a MonthlyPeriod.
// Money is rounded to cents and percentages to two decimals.
type MonthlyPeriodResponse struct {
	PeriodKey        string  `json:"periodKey"`
	PeriodLabel      string  `json:"periodLabel"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	StartValue       float64 `json:"startValue"`
	EndValue         float64 `json:"endValue"`
	NetFlow          float64 `json:"netFlow"`
	PnL              float64 `json:"pnl"`
	ReturnPct        float64 `json:"returnPct"`
	CumulativeReturn float64 `json:"cumulativeReturn"`
	Principal        float64 `json:"principal"`
	IsOngoing        bool    `json:"isOngoing"`
}

// PortfolioMetricsResponse is the JSON form of PortfolioMetrics.
type PortfolioMetricsResponse struct {
	CurrentValue     float64 `json:"currentValue"`
	NetContributions float64 `json:"netContributions"`
	TotalInvested    float64 `json:"totalInvested"`
	TotalWithdrawn   float64 `json:"totalWithdrawn"`
	TotalPnL         float64 `json:"totalPnl"`
	SimpleReturnPct  float64 `json:"simpleReturnPct"`
}

// ChartPointResponse is the JSON form of a ChartPoint.
type ChartPointResponse struct {
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
	Invested float64 `json:"invested"`
}

// TWRResponse reports the time-weighted return for a reporting window.
// Available is false when the window holds no valuation with a positive value.
type TWRResponse struct {
	Range     RangeKey `json:"range"`
	TWR       float64  `json:"twr"`
	Available bool     `json:"available"`
}

// RefreshResponse reports the outcome of a snapshot refresh.
type RefreshResponse struct {
	PortfolioID string `json:"portfolioId"`
	Periods     int    `json:"periods"`
}
