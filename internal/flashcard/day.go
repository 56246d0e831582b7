package flashcard

import "time"

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dueInDays is the day-precise due date days after now's day.
func dueInDays(now time.Time, days int) time.Time {
	return StartOfDay(now).AddDate(0, 0, days)
}

// daysLate counts whole calendar days between the day a card fell due and
// now. Cards reviewed early or on time are 0 days late.
func daysLate(due, now time.Time) int {
	d := StartOfDay(now).Sub(StartOfDay(due.In(now.Location())))
	if d <= 0 {
		return 0
	}
	return int(d.Hours()/24 + 0.5)
}

// dayNumber identifies now's calendar day; it seeds the per-day random orders.
func dayNumber(now time.Time) int64 {
	y, m, d := now.Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}
