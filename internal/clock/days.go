package clock

import "time"

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
// b is converted into a's location first so comparisons are stable.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// DaysBetween returns the number of whole calendar days from earlier to later.
// Same-day inputs return 0, yesterday-to-today returns 1, regardless of the
// time-of-day component. Negative if later precedes earlier.
func DaysBetween(earlier, later time.Time) int {
	earlier = StartOfDay(earlier)
	later = StartOfDay(later.In(earlier.Location()))
	return int(later.Sub(earlier).Hours() / 24)
}
