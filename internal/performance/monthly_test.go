package performance_test

import (
	"testing"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/performance"
)

// TestCalculateMonthlyPerformance_EndToEnd tests a two-month ledger against hand-computed figures.
//
// WHY: This is the canonical walk-through of the ledger. A deposit is followed by a gain
// and then a loss; every field of both periods is checked.
func TestCalculateMonthlyPerformance_EndToEnd(t *testing.T) {
	valuations := []model.Valuation{
		val("2025-01-31", "105000"),
		val("2025-02-28", "95000"),
	}
	flows := []model.CashFlow{
		flow("2025-01-05", "10000", model.FlowDeposit, ""),
	}

	periods := performance.CalculateMonthlyPerformance(valuations, flows, day("2025-02-28"))

	if len(periods) != 2 {
		t.Fatalf("Expected 2 periods, got %d", len(periods))
	}

	feb, jan := periods[0], periods[1]

	t.Run("newest first", func(t *testing.T) {
		if feb.PeriodKey != "2025-02" || jan.PeriodKey != "2025-01" {
			t.Errorf("Expected keys [2025-02 2025-01], got [%s %s]", feb.PeriodKey, jan.PeriodKey)
		}
		if jan.PeriodLabel != "Jan 2025" {
			t.Errorf("Expected label 'Jan 2025', got %q", jan.PeriodLabel)
		}
	})

	t.Run("january", func(t *testing.T) {
		assertDecimal(t, "StartValue", jan.StartValue, "0")
		assertDecimal(t, "EndValue", jan.EndValue, "105000")
		assertDecimal(t, "NetFlow", jan.NetFlow, "10000")
		assertDecimal(t, "PnL", jan.PnL, "95000")
		assertDecimal(t, "Principal", jan.Principal, "10000")
		assertDecimal(t, "ReturnPct", jan.ReturnPct, "950")
		assertDecimal(t, "CumulativeReturn", jan.CumulativeReturn, "950")
		assertDecimal(t, "EndPrincipal", jan.EndPrincipal, "10000")
		if !jan.StartDate.Equal(day("2025-01-01")) || !jan.EndDate.Equal(day("2025-01-31")) {
			t.Errorf("Unexpected bounds %s..%s", jan.StartDate, jan.EndDate)
		}
	})

	t.Run("february", func(t *testing.T) {
		assertDecimal(t, "StartValue", feb.StartValue, "105000")
		assertDecimal(t, "EndValue", feb.EndValue, "95000")
		assertDecimal(t, "NetFlow", feb.NetFlow, "0")
		assertDecimal(t, "PnL", feb.PnL, "-10000")
		assertDecimal(t, "Principal", feb.Principal, "10000")
		assertDecimal(t, "ReturnPct", feb.ReturnPct, "-100")
		assertDecimal(t, "CumulativeReturn", feb.CumulativeReturn, "850")
		if !feb.EndDate.Equal(day("2025-02-28")) {
			t.Errorf("Expected end date 2025-02-28, got %s", feb.EndDate)
		}
	})

	t.Run("closed months are not ongoing", func(t *testing.T) {
		if feb.IsOngoing || jan.IsOngoing {
			t.Error("Expected no ongoing period when the current month has a month-end valuation")
		}
	})
}

// TestCalculateMonthlyPerformance_ProfitFirst tests that withdrawals consume earnings before principal.
//
// WHY: A 10,000 withdrawal after a 5,000 gain must only reduce principal by 5,000.
// Entry order of same-day flows must not change the outcome.
func TestCalculateMonthlyPerformance_ProfitFirst(t *testing.T) {
	withdrawal := flow("2025-01-20", "-10000", model.FlowWithdrawal, "")
	withdrawal.CreatedAt = time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC)
	gain := flow("2025-01-20", "5000", model.FlowOther, "capital gain")
	gain.CreatedAt = time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)
	deposit := flow("2025-01-10", "100000", model.FlowDeposit, "")

	valuations := []model.Valuation{
		val("2025-01-31", "95000"),
		val("2025-02-28", "94000"),
	}

	orders := map[string][]model.CashFlow{
		"withdrawal entered first": {deposit, withdrawal, gain, flow("2025-02-15", "-1000", model.FlowWithdrawal, "")},
		"gain entered first":       {flow("2025-02-15", "-1000", model.FlowWithdrawal, ""), gain, withdrawal, deposit},
	}

	for name, flows := range orders {
		t.Run(name, func(t *testing.T) {
			periods := performance.CalculateMonthlyPerformance(valuations, flows, day("2025-02-28"))
			if len(periods) != 2 {
				t.Fatalf("Expected 2 periods, got %d", len(periods))
			}
			feb, jan := periods[0], periods[1]

			assertDecimal(t, "Jan NetFlow", jan.NetFlow, "90000")
			assertDecimal(t, "Jan PnL", jan.PnL, "5000")
			assertDecimal(t, "Jan Principal", jan.Principal, "100000")
			assertDecimal(t, "Jan ReturnPct", jan.ReturnPct, "5")
			assertDecimal(t, "Jan EndPrincipal", jan.EndPrincipal, "95000")

			// Earnings were fully consumed in January, so February's withdrawal hits principal
			assertDecimal(t, "Feb PnL", feb.PnL, "0")
			assertDecimal(t, "Feb EndPrincipal", feb.EndPrincipal, "94000")
		})
	}
}

// TestCalculateMonthlyPerformance_ReturnBasis tests the denominator of the monthly return.
//
// WHY: Withdrawals are treated as end-of-month and must not shrink the basis, while
// a month without any capital must not divide by zero.
func TestCalculateMonthlyPerformance_ReturnBasis(t *testing.T) {
	t.Run("withdrawals do not reduce the basis", func(t *testing.T) {
		flows := []model.CashFlow{
			flow("2025-01-05", "50000", model.FlowDeposit, ""),
			flow("2025-01-25", "-20000", model.FlowWithdrawal, ""),
		}
		valuations := []model.Valuation{val("2025-01-31", "31000")}

		periods := performance.CalculateMonthlyPerformance(valuations, flows, day("2025-01-31"))
		if len(periods) != 1 {
			t.Fatalf("Expected 1 period, got %d", len(periods))
		}

		assertDecimal(t, "NetFlow", periods[0].NetFlow, "30000")
		assertDecimal(t, "PnL", periods[0].PnL, "1000")
		assertDecimal(t, "Principal", periods[0].Principal, "50000")
		assertDecimal(t, "ReturnPct", periods[0].ReturnPct, "2")
		assertDecimal(t, "EndPrincipal", periods[0].EndPrincipal, "31000")
	})

	t.Run("zero basis yields zero return", func(t *testing.T) {
		valuations := []model.Valuation{
			val("2025-01-01", "100000"),
			val("2025-01-31", "101000"),
		}

		periods := performance.CalculateMonthlyPerformance(valuations, nil, day("2025-01-31"))
		if len(periods) != 1 {
			t.Fatalf("Expected 1 period, got %d", len(periods))
		}

		assertDecimal(t, "PnL", periods[0].PnL, "101000")
		assertDecimal(t, "Principal", periods[0].Principal, "0")
		if !periods[0].ReturnPct.IsZero() {
			t.Errorf("Expected zero return, got %s", periods[0].ReturnPct)
		}
	})

	t.Run("reinvestment enters the basis without moving value", func(t *testing.T) {
		flows := []model.CashFlow{
			flow("2025-01-01", "1000", model.FlowDeposit, ""),
			flow("2025-02-15", "50", model.FlowOther, "Dividend (reinvestment)"),
		}
		valuations := []model.Valuation{
			val("2025-01-31", "1000"),
			val("2025-02-28", "1100"),
		}

		periods := performance.CalculateMonthlyPerformance(valuations, flows, day("2025-02-28"))
		if len(periods) != 2 {
			t.Fatalf("Expected 2 periods, got %d", len(periods))
		}
		feb := periods[0]

		assertDecimal(t, "NetFlow", feb.NetFlow, "0")
		assertDecimal(t, "PnL", feb.PnL, "100")
		assertDecimal(t, "Principal", feb.Principal, "1050")
		assertDecimal(t, "ReturnPct", feb.ReturnPct.Round(4), "9.5238")
		assertDecimal(t, "EndPrincipal", feb.EndPrincipal, "1050")
	})

	t.Run("fees and taxes stay in pnl", func(t *testing.T) {
		flows := []model.CashFlow{
			flow("2025-01-01", "1000", model.FlowDeposit, ""),
			flow("2025-01-15", "-10", model.FlowFee, ""),
			flow("2025-01-16", "5", model.FlowTax, ""),
		}
		valuations := []model.Valuation{val("2025-01-31", "985")}

		periods := performance.CalculateMonthlyPerformance(valuations, flows, day("2025-01-31"))
		if len(periods) != 1 {
			t.Fatalf("Expected 1 period, got %d", len(periods))
		}

		assertDecimal(t, "NetFlow", periods[0].NetFlow, "1000")
		assertDecimal(t, "PnL", periods[0].PnL, "-15")
		assertDecimal(t, "EndPrincipal", periods[0].EndPrincipal, "1000")
	})
}

// TestCalculateMonthlyPerformance_Months tests month enumeration and carry-forward.
func TestCalculateMonthlyPerformance_Months(t *testing.T) {
	t.Run("no valuations", func(t *testing.T) {
		periods := performance.CalculateMonthlyPerformance(nil, []model.CashFlow{
			flow("2025-01-01", "1000", model.FlowDeposit, ""),
		}, day("2025-03-01"))

		if periods == nil || len(periods) != 0 {
			t.Errorf("Expected empty non-nil result, got %v", periods)
		}
	})

	t.Run("only zero valuations", func(t *testing.T) {
		periods := performance.CalculateMonthlyPerformance([]model.Valuation{
			val("2025-01-31", "0"),
		}, nil, day("2025-03-01"))

		if len(periods) != 0 {
			t.Errorf("Expected no periods, got %d", len(periods))
		}
	})

	t.Run("leading zero valuations are skipped", func(t *testing.T) {
		valuations := []model.Valuation{
			val("2024-12-31", "0"),
			val("2025-01-31", "500"),
		}

		periods := performance.CalculateMonthlyPerformance(valuations, nil, day("2025-01-31"))

		if len(periods) != 1 || periods[0].PeriodKey != "2025-01" {
			t.Fatalf("Expected single period 2025-01, got %v", periods)
		}
	})

	t.Run("gap months carry the previous value to the current month", func(t *testing.T) {
		valuations := []model.Valuation{
			val("2025-01-31", "105000"),
			val("2025-02-28", "95000"),
		}
		flows := []model.CashFlow{flow("2025-01-05", "10000", model.FlowDeposit, "")}

		periods := performance.CalculateMonthlyPerformance(valuations, flows, day("2025-04-10"))

		if len(periods) != 4 {
			t.Fatalf("Expected 4 periods, got %d", len(periods))
		}
		apr, mar := periods[0], periods[1]

		if apr.PeriodKey != "2025-04" || mar.PeriodKey != "2025-03" {
			t.Errorf("Unexpected keys %s, %s", apr.PeriodKey, mar.PeriodKey)
		}
		assertDecimal(t, "Mar StartValue", mar.StartValue, "95000")
		assertDecimal(t, "Mar EndValue", mar.EndValue, "95000")
		assertDecimal(t, "Mar PnL", mar.PnL, "0")
		assertDecimal(t, "Mar CumulativeReturn", mar.CumulativeReturn, "850")
		if mar.IsOngoing {
			t.Error("Expected March not to be ongoing")
		}
		if !apr.IsOngoing {
			t.Error("Expected April to be ongoing")
		}
	})

	t.Run("valuations after asOf extend the months", func(t *testing.T) {
		valuations := []model.Valuation{
			val("2025-01-31", "100"),
			val("2025-03-31", "120"),
		}

		periods := performance.CalculateMonthlyPerformance(valuations, nil, day("2025-01-15"))

		if len(periods) != 3 {
			t.Fatalf("Expected 3 periods, got %d", len(periods))
		}
		for _, p := range periods {
			if p.IsOngoing {
				t.Errorf("Expected %s not to be ongoing", p.PeriodKey)
			}
		}
	})

	t.Run("current month without month-end valuation is ongoing", func(t *testing.T) {
		valuations := []model.Valuation{val("2025-03-10", "100")}

		periods := performance.CalculateMonthlyPerformance(valuations, nil, day("2025-03-15"))

		if len(periods) != 1 || !periods[0].IsOngoing {
			t.Errorf("Expected one ongoing period, got %v", periods)
		}
	})

	t.Run("flows before the first active month are ignored", func(t *testing.T) {
		flows := []model.CashFlow{
			flow("2024-11-01", "5000", model.FlowDeposit, ""),
			flow("2025-01-02", "1000", model.FlowDeposit, ""),
		}
		valuations := []model.Valuation{val("2025-01-31", "1100")}

		periods := performance.CalculateMonthlyPerformance(valuations, flows, day("2025-01-31"))

		if len(periods) != 1 {
			t.Fatalf("Expected 1 period, got %d", len(periods))
		}
		assertDecimal(t, "NetFlow", periods[0].NetFlow, "1000")
		assertDecimal(t, "Principal", periods[0].Principal, "1000")
		assertDecimal(t, "PnL", periods[0].PnL, "100")
	})

	t.Run("duplicate valuations use the latest entry", func(t *testing.T) {
		older := val("2025-01-31", "900")
		older.CreatedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		newer := val("2025-01-31", "1100")
		newer.ID = "correction"
		newer.CreatedAt = time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)

		periods := performance.CalculateMonthlyPerformance([]model.Valuation{newer, older}, nil, day("2025-01-31"))

		if len(periods) != 1 {
			t.Fatalf("Expected 1 period, got %d", len(periods))
		}
		assertDecimal(t, "EndValue", periods[0].EndValue, "1100")
	})
}

// TestCalculateMonthlyPerformance_Deterministic tests that identical input yields identical output.
func TestCalculateMonthlyPerformance_Deterministic(t *testing.T) {
	valuations := []model.Valuation{
		val("2025-03-31", "1300"),
		val("2025-01-31", "1000"),
		val("2025-02-28", "1200"),
	}
	flows := []model.CashFlow{
		flow("2025-02-10", "-100", model.FlowWithdrawal, ""),
		flow("2025-01-03", "1000", model.FlowDeposit, ""),
		flow("2025-03-03", "100", model.FlowDeposit, ""),
	}
	reversedVals := []model.Valuation{valuations[2], valuations[1], valuations[0]}
	reversedFlows := []model.CashFlow{flows[2], flows[1], flows[0]}

	first := performance.CalculateMonthlyPerformance(valuations, flows, day("2025-03-31"))
	second := performance.CalculateMonthlyPerformance(reversedVals, reversedFlows, day("2025-03-31"))

	if len(first) != len(second) {
		t.Fatalf("Expected equal lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.PeriodKey != b.PeriodKey ||
			a.PnL.String() != b.PnL.String() ||
			a.ReturnPct.String() != b.ReturnPct.String() ||
			a.CumulativeReturn.String() != b.CumulativeReturn.String() ||
			a.EndPrincipal.String() != b.EndPrincipal.String() {
			t.Errorf("Period %d differs: %+v vs %+v", i, a, b)
		}
	}
}
