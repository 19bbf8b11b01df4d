package performance

import (
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/shopspring/decimal"
)

// PrepareChartData projects the deduplicated valuation series together with a running
// "invested" line, oldest first.
//
// Invested at each point is the signed sum of every flow dated on or before the point
// that is not a fee, tax, adjustment or capital gain. This is deliberately looser than
// IsExternal: reinvestments and untagged "other" flows are included.
func PrepareChartData(valuations []model.Valuation, flows []model.CashFlow) []model.ChartPoint {
	deduped := DedupeValuations(valuations)
	sequenced := SequenceFlows(flows)

	points := make([]model.ChartPoint, 0, len(deduped))
	invested := decimal.Zero
	fi := 0

	for _, v := range deduped {
		date := dateOnly(v.Date)
		for fi < len(sequenced) && !dateOnly(sequenced[fi].Date).After(date) {
			if chartCountsTowardInvested(Classify(sequenced[fi])) {
				invested = invested.Add(SignedAmount(sequenced[fi]))
			}
			fi++
		}

		points = append(points, model.ChartPoint{
			Date:     date,
			Value:    v.Value,
			Invested: invested,
		})
	}

	return points
}
