package performance_test

import (
	"testing"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/shopspring/decimal"
)

// day parses a YYYY-MM-DD date in UTC and panics on malformed input.
func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func flow(date, amount string, flowType model.FlowType, notes string) model.CashFlow {
	return model.CashFlow{
		ID:     date + "-" + string(flowType) + "-" + amount,
		Date:   day(date),
		Amount: dec(amount),
		Type:   flowType,
		Notes:  notes,
	}
}

func val(date, value string) model.Valuation {
	return model.Valuation{
		ID:    date + "-" + value,
		Date:  day(date),
		Value: dec(value),
	}
}

func assertDecimal(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: expected %s, got %s", field, want, got.String())
	}
}
