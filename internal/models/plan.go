package models

import "time"

// NextDueDate returns the date the next payment falls due for plan, counted
// from from. The second result is false for plans without an automatic due
// date (custom, or anything unknown); callers keep the previous value then.
//
// Monthly cadences land on the same day of the following month. When that
// month is shorter the date is clamped to its last day, so Jan 31 is followed
// by Feb 28 (or 29) rather than spilling into March.
func NextDueDate(plan PlanType, from time.Time) (time.Time, bool) {
	switch plan {
	case PlanMonthly, PlanNasta:
		return AddMonthsClamped(from, 1), true
	case PlanFifteenDays:
		return from.AddDate(0, 0, 15), true
	default:
		return time.Time{}, false
	}
}

// AddMonthsClamped adds n calendar months to t keeping the time of day.
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (p PlanType) Valid() bool {
	switch p {
	case PlanMonthly, PlanFifteenDays, PlanNasta, PlanCustom:
		return true
	}
	return false
}
