package performance_test

import (
	"testing"

	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/performance"
	"github.com/shopspring/decimal"
)

// TestComputeMetrics tests lifetime totals with and without valuation history.
//
// WHY: Overview cards read these figures directly. With valuations they must agree with
// the monthly ledger; without them a plain netting of deposits and withdrawals applies.
func TestComputeMetrics(t *testing.T) {
	t.Run("with valuations follows the ledger", func(t *testing.T) {
		valuations := []model.Valuation{
			val("2025-01-31", "105000"),
			val("2025-02-28", "95000"),
		}
		flows := []model.CashFlow{flow("2025-01-05", "10000", model.FlowDeposit, "")}

		metrics := performance.ComputeMetrics(dec("95000"), flows, valuations, day("2025-02-28"))

		assertDecimal(t, "CurrentValue", metrics.CurrentValue, "95000")
		assertDecimal(t, "TotalInvested", metrics.TotalInvested, "10000")
		assertDecimal(t, "TotalWithdrawn", metrics.TotalWithdrawn, "0")
		assertDecimal(t, "NetContributions", metrics.NetContributions, "10000")
		assertDecimal(t, "TotalPnL", metrics.TotalPnL, "85000")
		assertDecimal(t, "SimpleReturnPct", metrics.SimpleReturnPct, "850")
	})

	t.Run("net contributions use the profit-first principal", func(t *testing.T) {
		valuations := []model.Valuation{val("2025-01-31", "95000")}
		flows := []model.CashFlow{
			flow("2025-01-10", "100000", model.FlowDeposit, ""),
			flow("2025-01-20", "5000", model.FlowOther, "capital gain"),
			flow("2025-01-20", "-10000", model.FlowWithdrawal, ""),
		}

		metrics := performance.ComputeMetrics(dec("95000"), flows, valuations, day("2025-01-31"))

		assertDecimal(t, "TotalInvested", metrics.TotalInvested, "100000")
		assertDecimal(t, "TotalWithdrawn", metrics.TotalWithdrawn, "10000")
		assertDecimal(t, "NetContributions", metrics.NetContributions, "95000")
		assertDecimal(t, "TotalPnL", metrics.TotalPnL, "5000")
	})

	t.Run("without valuations nets flows", func(t *testing.T) {
		flows := []model.CashFlow{
			flow("2025-01-01", "1000", model.FlowDeposit, ""),
			flow("2025-02-01", "500", model.FlowDeposit, ""),
			flow("2025-03-01", "-300", model.FlowWithdrawal, ""),
			flow("2025-03-02", "-10", model.FlowFee, ""),
		}

		metrics := performance.ComputeMetrics(dec("1500"), flows, nil, day("2025-03-31"))

		assertDecimal(t, "TotalInvested", metrics.TotalInvested, "1500")
		assertDecimal(t, "TotalWithdrawn", metrics.TotalWithdrawn, "300")
		assertDecimal(t, "NetContributions", metrics.NetContributions, "1200")
		assertDecimal(t, "TotalPnL", metrics.TotalPnL, "300")
		assertDecimal(t, "SimpleReturnPct", metrics.SimpleReturnPct, "25")
	})

	t.Run("non-positive net contributions yield zero return", func(t *testing.T) {
		flows := []model.CashFlow{flow("2025-01-01", "-300", model.FlowWithdrawal, "")}

		metrics := performance.ComputeMetrics(dec("-300"), flows, nil, day("2025-03-31"))

		assertDecimal(t, "NetContributions", metrics.NetContributions, "-300")
		if !metrics.SimpleReturnPct.IsZero() {
			t.Errorf("Expected zero return, got %s", metrics.SimpleReturnPct)
		}
	})

	t.Run("zero-valued valuations fall back to netting", func(t *testing.T) {
		flows := []model.CashFlow{flow("2025-01-01", "1000", model.FlowDeposit, "")}
		valuations := []model.Valuation{val("2025-01-31", "0")}

		metrics := performance.ComputeMetrics(decimal.Zero, flows, valuations, day("2025-01-31"))

		assertDecimal(t, "NetContributions", metrics.NetContributions, "1000")
		assertDecimal(t, "TotalPnL", metrics.TotalPnL, "-1000")
		assertDecimal(t, "SimpleReturnPct", metrics.SimpleReturnPct, "-100")
	})

	t.Run("tagged flows are not capital movements", func(t *testing.T) {
		flows := []model.CashFlow{
			flow("2025-01-01", "1000", model.FlowDeposit, ""),
			flow("2025-01-02", "250", model.FlowOther, "capital gain"),
			flow("2025-01-03", "-40", model.FlowAdjustment, "(reinvestment)"),
		}

		metrics := performance.ComputeMetrics(dec("1210"), flows, nil, day("2025-01-31"))

		assertDecimal(t, "TotalInvested", metrics.TotalInvested, "1000")
		assertDecimal(t, "TotalWithdrawn", metrics.TotalWithdrawn, "0")
	})

	t.Run("empty portfolio", func(t *testing.T) {
		metrics := performance.ComputeMetrics(decimal.Zero, nil, nil, day("2025-01-31"))

		assertDecimal(t, "NetContributions", metrics.NetContributions, "0")
		assertDecimal(t, "TotalPnL", metrics.TotalPnL, "0")
		assertDecimal(t, "SimpleReturnPct", metrics.SimpleReturnPct, "0")
	})
}

// TestCurrentValue tests the roll-forward of the latest valuation.
func TestCurrentValue(t *testing.T) {
	t.Run("adds flows after the latest valuation", func(t *testing.T) {
		valuations := []model.Valuation{
			val("2024-12-31", "800"),
			val("2025-01-31", "1000"),
		}
		flows := []model.CashFlow{
			flow("2025-01-15", "100", model.FlowDeposit, ""),
			flow("2025-01-31", "100", model.FlowDeposit, ""),
			flow("2025-02-02", "200", model.FlowDeposit, ""),
			flow("2025-02-03", "5", model.FlowFee, ""),
			flow("2025-02-04", "50", model.FlowOther, "(reinvestment)"),
			flow("2025-02-05", "100", model.FlowWithdrawal, ""),
		}

		assertDecimal(t, "CurrentValue", performance.CurrentValue(valuations, flows), "1095")
	})

	t.Run("latest valuation only", func(t *testing.T) {
		valuations := []model.Valuation{val("2025-01-31", "1000")}

		assertDecimal(t, "CurrentValue", performance.CurrentValue(valuations, nil), "1000")
	})

	t.Run("without valuations sums external flows", func(t *testing.T) {
		flows := []model.CashFlow{
			flow("2025-01-01", "1000", model.FlowDeposit, ""),
			flow("2025-01-02", "200", model.FlowWithdrawal, ""),
			flow("2025-01-03", "-10", model.FlowFee, ""),
		}

		assertDecimal(t, "CurrentValue", performance.CurrentValue(nil, flows), "800")
	})
}
