package performance

import (
	"slices"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ledger holds the running accumulators of one monthly pass.
type ledger struct {
	principal        decimal.Decimal
	retainedEarnings decimal.Decimal
	cumulativeReturn decimal.Decimal
	previousEndValue decimal.Decimal
}

// CalculateMonthlyPerformance reconstructs a month-by-month performance ledger.
//
// Months are walked from the month of the first valuation with a positive value up
// to the month of asOf (or the month of the latest valuation when data extends past
// asOf). Every calendar month in between is emitted, including months without a
// valuation, which carry the previous end value forward.
//
// For each month:
//   - PnL = EndValue - StartValue - NetFlow, where NetFlow only counts deposits and withdrawals
//   - the return basis is the principal before this month's flows plus this month's
//     deposits and reinvestments; withdrawals are treated as end-of-month and never
//     reduce the basis
//   - ReturnPct is PnL over the basis in percent, or 0 when the basis is not positive
//   - flows are then applied one by one: deposits and reinvestments raise principal,
//     withdrawals consume retained earnings before principal (profit-first), capital
//     gains, fees, taxes and adjustments are already part of the valuation and skipped
//   - CumulativeReturn is the arithmetic running sum of ReturnPct
//
// Flows dated before the first active month are not part of any period.
//
// Returns the periods newest-first, or an empty slice when there is no valuation
// with a positive value.
func CalculateMonthlyPerformance(valuations []model.Valuation, flows []model.CashFlow, asOf time.Time) []model.MonthlyPeriod {
	deduped := DedupeValuations(valuations)
	months := enumerateMonths(deduped, asOf)
	if len(months) == 0 {
		return []model.MonthlyPeriod{}
	}

	sequenced := SequenceFlows(flows)
	currentMonth := monthStart(asOf)

	state := ledger{
		principal:        decimal.Zero,
		retainedEarnings: decimal.Zero,
		cumulativeReturn: decimal.Zero,
		previousEndValue: decimal.Zero,
	}

	periods := make([]model.MonthlyPeriod, 0, len(months))
	vi, fi := 0, 0

	for i, start := range months {
		end := monthEnd(start)

		startValue := decimal.Zero
		if i > 0 {
			startValue = state.previousEndValue
		}

		// Valuations are deduplicated and ascending, so the last one in the month wins
		endValue := state.previousEndValue
		closed := false
		for vi < len(deduped) && dateOnly(deduped[vi].Date).Before(start) {
			vi++
		}
		for vi < len(deduped) && !dateOnly(deduped[vi].Date).After(end) {
			endValue = deduped[vi].Value
			if dateOnly(deduped[vi].Date).Equal(end) {
				closed = true
			}
			vi++
		}

		var monthFlows []model.CashFlow
		for fi < len(sequenced) && dateOnly(sequenced[fi].Date).Before(start) {
			fi++
		}
		for fi < len(sequenced) && !dateOnly(sequenced[fi].Date).After(end) {
			monthFlows = append(monthFlows, sequenced[fi])
			fi++
		}

		netFlow, inflows := summarizeFlows(monthFlows)

		pnl := endValue.Sub(startValue).Sub(netFlow)
		state.retainedEarnings = state.retainedEarnings.Add(pnl)

		denominator := state.principal.Add(inflows)
		returnPct := decimal.Zero
		if denominator.IsPositive() {
			returnPct = pnl.Div(denominator).Mul(hundred)
		}

		for _, flow := range monthFlows {
			state.apply(flow)
		}

		state.cumulativeReturn = state.cumulativeReturn.Add(returnPct)

		periods = append(periods, model.MonthlyPeriod{
			PeriodKey:        monthKey(start),
			PeriodLabel:      start.Format("Jan 2006"),
			StartDate:        start,
			EndDate:          end,
			StartValue:       startValue,
			EndValue:         endValue,
			NetFlow:          netFlow,
			PnL:              pnl,
			ReturnPct:        returnPct,
			CumulativeReturn: state.cumulativeReturn,
			Principal:        denominator,
			EndPrincipal:     state.principal,
			IsOngoing:        start.Equal(currentMonth) && !closed,
		})

		state.previousEndValue = endValue
	}

	slices.Reverse(periods)
	return periods
}

// enumerateMonths returns the first day of every month from the first active
// valuation through the trailing month, ascending.
func enumerateMonths(deduped []model.Valuation, asOf time.Time) []time.Time {
	firstActive := slices.IndexFunc(deduped, func(v model.Valuation) bool {
		return v.Value.IsPositive()
	})
	if firstActive < 0 {
		return nil
	}

	first := monthStart(deduped[firstActive].Date)
	last := monthStart(asOf)
	if latest := monthStart(deduped[len(deduped)-1].Date); latest.After(last) {
		last = latest
	}

	var months []time.Time
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// summarizeFlows returns the net external flow of a month and the inflows that
// count toward the month's return basis (deposits and reinvestments).
func summarizeFlows(flows []model.CashFlow) (netFlow, inflows decimal.Decimal) {
	netFlow, inflows = decimal.Zero, decimal.Zero
	for _, flow := range flows {
		canonical := Classify(flow)
		if IsExternal(canonical) {
			netFlow = netFlow.Add(SignedAmount(flow))
		}
		if canonical == model.FlowDeposit || canonical == model.FlowReinvestment {
			inflows = inflows.Add(flow.Amount.Abs())
		}
	}
	return netFlow, inflows
}

// apply moves a single flow through the principal and retained-earnings accumulators.
func (l *ledger) apply(flow model.CashFlow) {
	amount := flow.Amount.Abs()

	switch Classify(flow) {
	case model.FlowReinvestment:
		// Earnings become principal; total value is unchanged
		l.principal = l.principal.Add(amount)
		l.retainedEarnings = l.retainedEarnings.Sub(amount)
	case model.FlowDeposit:
		l.principal = l.principal.Add(amount)
	case model.FlowCapitalGain, model.FlowFee, model.FlowTax, model.FlowAdjustment:
		// Already reflected in the month's end value
	case model.FlowWithdrawal:
		l.withdraw(amount)
	default:
		if flow.Amount.IsNegative() {
			l.withdraw(amount)
		}
	}
}

// withdraw applies the profit-first policy: retained earnings are consumed before
// principal. When retained earnings are negative the accumulated loss is moved into
// principal along with the withdrawal.
func (l *ledger) withdraw(amount decimal.Decimal) {
	if l.retainedEarnings.GreaterThanOrEqual(amount) {
		l.retainedEarnings = l.retainedEarnings.Sub(amount)
		return
	}
	shortfall := amount.Sub(l.retainedEarnings)
	l.retainedEarnings = decimal.Zero
	l.principal = l.principal.Sub(shortfall)
}
