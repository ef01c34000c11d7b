package tracker

import (
	"time"
	_ "time/tzdata"
)

// AnchorZone is the single locale every "today" is computed in.
const AnchorZone = "Asia/Kolkata"

// DateLayout is the calendar date format used for exam dates.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

var anchor = mustLoadAnchor()

func mustLoadAnchor() *time.Location {
	loc, err := time.LoadLocation(AnchorZone)
	if err != nil {
		// IST has had a fixed +05:30 offset since 1945.
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// Location returns the anchor location.
func Location() *time.Location {
	return anchor
}

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Today normalizes now to midnight of its calendar date in the anchor zone.
func Today(now time.Time) time.Time {
	return DayOf(now)
}

// DayOf truncates t to the start of its anchor-zone day.
func DayOf(t time.Time) time.Time {
	t = t.In(anchor)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, anchor)
}

// Date builds an anchor-zone midnight for the given civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, anchor)
}

// ParseDate parses a "YYYY-MM-DD" calendar date into anchor-zone midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, anchor)
}

// FormatDate renders t as a calendar date in the anchor zone.
func FormatDate(t time.Time) string {
	return t.In(anchor).Format(DateLayout)
}

// DaysBetween counts whole civil days from a to b. It is negative when b is
// before a. Both values are first truncated to their anchor-zone day.
func DaysBetween(a, b time.Time) int {
	a, b = DayOf(a), DayOf(b)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int((ub.Unix() - ua.Unix()) / secondsPerDay)
}

// AddDays shifts a day by n civil days.
func AddDays(day time.Time, n int) time.Time {
	return DayOf(day).AddDate(0, 0, n)
}
