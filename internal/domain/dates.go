package domain

import "time"

// All schedule arithmetic is calendar-day granularity in UTC. Period bounds
// are inclusive on both ends, so containment checks normalize the start to
// local midnight and the end to the last instant of its day.

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayEnd returns the last representable instant of t's calendar day.
func DayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// DateInRange reports whether date falls within [start, end] at day
// granularity (both bounds inclusive).
func DateInRange(date, start, end time.Time) bool {
	d := DayStart(date)
	return !d.Before(DayStart(start)) && !d.After(DayEnd(end))
}

// RangesOverlap reports whether the inclusive day ranges [aStart, aEnd] and
// [bStart, bEnd] intersect.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !DayStart(aStart).After(DayEnd(bEnd)) && !DayEnd(aEnd).Before(DayStart(bStart))
}
