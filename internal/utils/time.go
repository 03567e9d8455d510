package utils

import "time"

// SameISOWeek reports whether two times fall in the same ISO week.
func SameISOWeek(a, b time.Time) bool {
	ay, aw := a.UTC().ISOWeek()
	by, bw := b.UTC().ISOWeek()
	return ay == by && aw == bw
}

// DaysBetween returns the whole calendar days between two times, UTC.
func DaysBetween(earlier, later time.Time) int {
	e := earlier.UTC().Truncate(24 * time.Hour)
	l := later.UTC().Truncate(24 * time.Hour)
	return int(l.Sub(e).Hours() / 24)
}
