package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// dateLayout is the storage format of calendar dates.
const dateLayout = "2006-01-02"

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// Note: mirrors validation.ParseTime; both are kept local to avoid cross-layer imports.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(dateLayout, str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// parseNullTime parses an optional timestamp column. NULL and empty values map to
// the zero time, which callers treat as "unknown".
func parseNullTime(ns sql.NullString) (time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return time.Time{}, nil
	}
	return ParseTime(ns.String)
}

// formatTimestamp renders a timestamp for storage, or NULL for the zero time.
func formatTimestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
