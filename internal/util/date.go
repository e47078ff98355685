package util

import (
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ParseOptionalDate parses s when non-empty; an empty string yields nil
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateToDate drops the time-of-day and location, keeping the calendar date
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateInRange reports whether d falls within [start, end], inclusive on both
// ends. A nil bound is open.
func DateInRange(d time.Time, start, end *time.Time) bool {
	day := TruncateToDate(d)
	if start != nil && day.Before(TruncateToDate(*start)) {
		return false
	}
	if end != nil && day.After(TruncateToDate(*end)) {
		return false
	}
	return true
}
