package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/portfolio-performance/internal/apperrors"
	"github.com/ndewijer/portfolio-performance/internal/model"
	"github.com/ndewijer/portfolio-performance/internal/performance"
)

// PerformanceQuery holds the validated query parameters of the performance endpoints.
type PerformanceQuery struct {
	Range model.RangeKey
	AsOf  time.Time
}

// ParsePerformanceQuery extracts and validates performance query parameters.
//
// Validation rules:
//   - range: One of 30D, 60D, 90D, 1Y, YTD, monthly, yearly, ALL (case-insensitive, defaults to ALL)
//   - asOf: Optional YYYY-MM-DD or RFC3339 date; defaults to now and may not lie in the future
//
// Returns an error if any parameter fails validation.
func ParsePerformanceQuery(rangeParam, asOfParam string, now time.Time) (*PerformanceQuery, error) {
	key, err := performance.ParseRangeKey(rangeParam)
	if err != nil {
		return nil, err
	}

	query := &PerformanceQuery{
		Range: key,
		AsOf:  now.UTC(),
	}

	if strings.TrimSpace(asOfParam) != "" {
		asOf, err := parseQueryTime(asOfParam)
		if err != nil {
			return nil, fmt.Errorf("%w: asOf: %w", apperrors.ErrInvalidDate, err)
		}
		if asOf.After(now) {
			return nil, fmt.Errorf("%w: asOf %s is in the future", apperrors.ErrInvalidDate, asOfParam)
		}
		query.AsOf = asOf
	}

	return query, nil
}

// parseQueryTime accepts YYYY-MM-DD, RFC3339, and RFC3339 with milliseconds formats.
func parseQueryTime(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
