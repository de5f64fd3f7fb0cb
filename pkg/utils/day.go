package utils

import "time"

// DayKey formats a time as a UTC date string, used to scope cache and
// rate-limit keys to a single day.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// NextMidnight returns the next UTC midnight after t.
func NextMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}

// UntilMidnight returns the duration remaining until the next UTC midnight.
// Day-scoped cache entries expire after this long so they never outlive
// the date embedded in their key.
func UntilMidnight(t time.Time) time.Duration {
	return NextMidnight(t).Sub(t)
}
