package analytics

import "time"

// Window is an inclusive [Start, End] range. A nil bound is open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// Between builds a closed window.
func Between(start, end time.Time) Window {
	return Window{Start: &start, End: &end}
}

// Contains reports whether t falls inside the window. Both bounds are inclusive.
func (w Window) Contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// Today spans UTC midnight of now's day up to the next UTC midnight.
func Today(now time.Time) Window {
	start := midnightUTC(now)
	return Between(start, start.AddDate(0, 0, 1))
}

// ThisWeek spans the UTC Sunday that starts now's week up to tomorrow's midnight.
func ThisWeek(now time.Time) Window {
	today := midnightUTC(now)
	start := today.AddDate(0, 0, -int(today.Weekday()))
	return Between(start, today.AddDate(0, 0, 1))
}

// ThisMonth spans the first of now's UTC month up to tomorrow's midnight.
func ThisMonth(now time.Time) Window {
	today := midnightUTC(now)
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Between(start, today.AddDate(0, 0, 1))
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
