package performance

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
)

// ParseRangeKey validates a reporting window name. An empty string selects ALL.
// Matching is case-insensitive ("ytd", "Monthly" and "all" are accepted).
func ParseRangeKey(raw string) (model.RangeKey, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.RangeAll, nil
	}
	for key := range model.ValidRangeKeys {
		if strings.EqualFold(string(key), trimmed) {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidRange, raw)
}

// RangeStart resolves the first day of a reporting window relative to asOf.
// The boolean is false for ALL, which has no start.
//
//   - 30D, 60D, 90D: asOf minus the number of days
//   - 1Y: asOf minus one year
//   - YTD: January 1st of the asOf year
//   - monthly: first day of the asOf month
//   - yearly: first day of the month eleven months before asOf (twelve calendar months)
func RangeStart(key model.RangeKey, asOf time.Time) (time.Time, bool, error) {
	today := dateOnly(asOf)

	switch key {
	case model.RangeAll:
		return time.Time{}, false, nil
	case model.Range30D:
		return today.AddDate(0, 0, -30), true, nil
	case model.Range60D:
		return today.AddDate(0, 0, -60), true, nil
	case model.Range90D:
		return today.AddDate(0, 0, -90), true, nil
	case model.Range1Y:
		return today.AddDate(-1, 0, 0), true, nil
	case model.RangeYTD:
		return time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), true, nil
	case model.RangeMonthly:
		return monthStart(today), true, nil
	case model.RangeYearly:
		return monthStart(today).AddDate(0, -11, 0), true, nil
	default:
		return time.Time{}, false, fmt.Errorf("%w: %s", apperrors.ErrInvalidRange, key)
	}
}

// FilterByRange slices valuations and cash flows to a reporting window.
//
// For ALL both inputs pass through unchanged and StartDate is nil. Otherwise the
// valuations are deduplicated and the single latest valuation strictly before the
// window start is kept as a baseline in front of the in-window valuations, so the
// first filtered month starts from the real portfolio value instead of zero.
// Cash flows are kept when dated on or after the window start; there is no baseline
// for flows.
func FilterByRange(valuations []model.Valuation, flows []model.CashFlow, key model.RangeKey, asOf time.Time) (model.FilteredRange, error) {
	start, bounded, err := RangeStart(key, asOf)
	if err != nil {
		return model.FilteredRange{}, err
	}

	if !bounded {
		return model.FilteredRange{
			Valuations: valuations,
			CashFlows:  flows,
			StartDate:  nil,
		}, nil
	}

	deduped := DedupeValuations(valuations)

	filteredValuations := []model.Valuation{}
	var baseline *model.Valuation
	for i := range deduped {
		if dateOnly(deduped[i].Date).Before(start) {
			baseline = &deduped[i]
			continue
		}
		filteredValuations = append(filteredValuations, deduped[i])
	}
	if baseline != nil {
		filteredValuations = append([]model.Valuation{*baseline}, filteredValuations...)
	}

	filteredFlows := []model.CashFlow{}
	for _, flow := range flows {
		if !dateOnly(flow.Date).Before(start) {
			filteredFlows = append(filteredFlows, flow)
		}
	}

	return model.FilteredRange{
		Valuations: filteredValuations,
		CashFlows:  filteredFlows,
		StartDate:  &start,
	}, nil
}
