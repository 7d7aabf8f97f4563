package services

import "time"

// timeNow is swapped out in tests to pin the clock.
var timeNow = time.Now

// dayLoc is the timezone whose midnight defines the calendar-day
// boundary for streaks and daily quests. UTC unless configured.
var dayLoc = time.UTC

// SetDayLocation installs the day-boundary timezone. Called once at
// startup from config; not safe to change while requests are in flight.
func SetDayLocation(loc *time.Location) {
	if loc != nil {
		dayLoc = loc
	}
}

// dateOnly truncates t to midnight in the day-boundary timezone.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.In(dayLoc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, dayLoc)
}

// dayKey formats t as the YYYY-MM-DD key used for daily quest sets.
func dayKey(t time.Time) string {
	return t.In(dayLoc).Format("2006-01-02")
}

// daysBetween returns the whole calendar days from a to b (positive
// when b is after a). Calendar arithmetic, not duration division:
// DST-shortened days still count as a full day.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.In(dayLoc).Date()
	by, bm, bd := b.In(dayLoc).Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
