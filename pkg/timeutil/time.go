package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in rate card files and API requests
const DateLayout = "2006-01-02"

// Clock returns the current instant. Calculators take a Clock so tests can pin time.
type Clock func() time.Time

// Now returns the current time in UTC
// Always use this instead of time.Now() to ensure timezone consistency
func Now() time.Time {
	return time.Now().UTC()
}

// Fixed returns a Clock that always reports t (in UTC)
func Fixed(t time.Time) Clock {
	t = t.UTC()
	return func() time.Time { return t }
}

// ParseDate parses a date string and returns a UTC time
func ParseDate(layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// StartOfDay returns the start of the day (midnight) in UTC
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in UTC
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 23, 59, 59, 999999999, time.UTC)
}

// ParseDateRange parses two calendar dates into an inclusive window:
// midnight of start through the last nanosecond of end.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	from, err := ParseDate(DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start date %q: %w", start, err)
	}
	to, err := ParseDate(DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end date %q: %w", end, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return StartOfDay(from), EndOfDay(to), nil
}
