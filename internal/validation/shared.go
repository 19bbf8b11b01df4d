package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Error aggregates field-level validation messages.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// Note: mirrors repository.ParseTime; both are kept local to avoid cross-layer imports.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// validateDate records a message for a missing or malformed date field.
func validateDate(errors map[string]string, field, value string) {
	if strings.TrimSpace(value) == "" {
		errors[field] = field + " is required"
		return
	}
	if _, err := ParseTime(value); err != nil {
		errors[field] = fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", value)
	}
}
