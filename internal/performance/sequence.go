package performance

import (
	"slices"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/model"
)

// SequenceFlows orders cash flows chronologically with a deterministic same-day tie-break.
//
// Ordering rules:
//   - ascending calendar date
//   - same date: income (deposit, capital_gain, other) before neutral types
//     (reinvestment, adjustment, unknown) before outflows (withdrawal, fee, tax),
//     decided on the canonical type from Classify
//   - then ascending CreatedAt, a missing timestamp sorting first
//   - then input order
//
// A capital gain booked on the same day as a withdrawal is therefore credited to
// retained earnings before the withdrawal is tested against it.
func SequenceFlows(flows []model.CashFlow) []model.CashFlow {
	sorted := slices.Clone(flows)
	if sorted == nil {
		sorted = []model.CashFlow{}
	}

	slices.SortStableFunc(sorted, func(a, b model.CashFlow) int {
		if c := dateOnly(a.Date).Compare(dateOnly(b.Date)); c != 0 {
			return c
		}
		if ca, cb := flowClass(Classify(a)), flowClass(Classify(b)); ca != cb {
			return ca - cb
		}
		return createdAtOrEpoch(a).Compare(createdAtOrEpoch(b))
	})

	return sorted
}

func createdAtOrEpoch(f model.CashFlow) time.Time {
	if f.CreatedAt.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return f.CreatedAt
}
