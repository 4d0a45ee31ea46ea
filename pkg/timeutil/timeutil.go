// Package timeutil provides calendar-date helpers for the classroom engine.
// Attendance and grade upserts are keyed by calendar date, never by
// timestamp, so every date that enters the ledger goes through DateOf.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// ISODate is the wire and storage format for class dates.
const ISODate = "2006-01-02"

// DateOf truncates a time to its calendar date in UTC. This is the
// canonical form of every ledger date key.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in UTC.
func Today() time.Time {
	return DateOf(time.Now())
}

// Date creates a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO date string (YYYY-MM-DD) into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// FormatDate formats a time as an ISO date string.
func FormatDate(t time.Time) string {
	return DateOf(t).Format(ISODate)
}

// SameDay reports whether two times fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// DaysBetween returns the number of whole days from a to b. Negative when
// b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
