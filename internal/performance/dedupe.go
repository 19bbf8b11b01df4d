package performance

import (
	"slices"

	"github.com/ndewijer/portfolio-performance/internal/model"
)

// DedupeValuations collapses valuations sharing a calendar date to the most recently
// entered one and returns the result in ascending date order.
//
// Within a date the row with the latest CreatedAt wins; rows with equal CreatedAt keep
// their input order, so the first one wins. The input slice is not modified and the
// function is idempotent.
func DedupeValuations(valuations []model.Valuation) []model.Valuation {
	if len(valuations) == 0 {
		return []model.Valuation{}
	}

	sorted := slices.Clone(valuations)
	slices.SortStableFunc(sorted, func(a, b model.Valuation) int {
		if c := dateOnly(a.Date).Compare(dateOnly(b.Date)); c != 0 {
			return c
		}
		// Newest entry first within a date
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	result := make([]model.Valuation, 0, len(sorted))
	for _, v := range sorted {
		if len(result) > 0 && dateOnly(result[len(result)-1].Date).Equal(dateOnly(v.Date)) {
			continue
		}
		result = append(result, v)
	}

	return result
}
