package ledger

import "time"

// Day truncates t to midnight UTC of the calendar date t has in its own
// location. Issue and due dates are stored in this form.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay compares calendar dates, ignoring time of day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// Tomorrow is the calendar day after now, as seen in loc.
func Tomorrow(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	return Day(now).AddDate(0, 0, 1)
}
