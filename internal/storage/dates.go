package storage

import "time"

const (
	dateLayout    = "2006-01-02"
	displayLayout = "Jan 2"
)

// FormatDate returns the canonical YYYY-MM-DD key for t's calendar day in t's
// own location. Time of day never changes the result.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a canonical date key as local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.Local)
}

// DisplayDate is the short label used by the completion history.
func DisplayDate(t time.Time) string {
	return t.Format(displayLayout)
}

// StartOfDay truncates t to midnight of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday that starts t's week.
func StartOfWeek(t time.Time) time.Time {
	dayStart := StartOfDay(t)
	return dayStart.AddDate(0, 0, -int(dayStart.Weekday()))
}
