package performance

import "time"

// dateOnly truncates t to midnight UTC of its calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthStart returns the first day of the month containing t.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthEnd returns the last calendar day of the month containing t.
func monthEnd(t time.Time) time.Time {
	return monthStart(t).AddDate(0, 1, -1)
}

// monthKey formats the YYYY-MM key of the month containing t.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
