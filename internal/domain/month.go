package domain

import "time"

// MonthStart returns the first day of t's calendar month at midnight UTC.
// Snapshot identity uses this normalized form.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of t's calendar month at midnight UTC.
// Price and rate lookups use this form.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// MonthsBetween returns every month start from the month containing from to
// the month containing to, inclusive. Returns nil when from is after to.
func MonthsBetween(from, to time.Time) []time.Time {
	start := MonthStart(from)
	end := MonthStart(to)
	if start.After(end) {
		return nil
	}
	var months []time.Time
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}
