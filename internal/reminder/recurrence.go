// Package reminder implements the recurrence and notification
// scheduling engine: next-occurrence arithmetic, role-based delivery
// gating, due/completion scheduling and duplicate-delivery guarding.
package reminder

import (
	"math"
	"time"
)

// NextOccurrence computes the next fire time of a weekday-set / N-weekly
// schedule. The result always carries start's hour and minute.
//
// A start strictly in the future whose weekday is selected is itself the
// next occurrence. Otherwise days are scanned forward from today (or from
// start, if start lies beyond today), accepting the first day whose
// weekday is selected and whose whole-weeks-since-start is an exact
// multiple of weekFrequency. The scan is bounded at two full cycles; on
// exhaustion the last scanned day is returned as a degraded fallback.
//
// Callers must guarantee a non-empty weekday set and weekFrequency >= 1.
func NextOccurrence(now, start time.Time, weekdays []time.Weekday, weekFrequency int) time.Time {
	selected := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		selected[d] = true
	}

	start = start.In(now.Location())
	if start.After(now) && selected[start.Weekday()] {
		return start
	}

	startDay := dayOf(start)
	scanDay := dayOf(now)
	if scanDay.Before(startDay) {
		scanDay = startDay
	}

	bound := 7 * weekFrequency * 2
	day := scanDay
	last := scanDay
	for i := 0; i < bound; i++ {
		last = day
		if selected[day.Weekday()] {
			weeksElapsed := daysBetween(startDay, day) / 7
			if weeksElapsed%weekFrequency == 0 {
				return atTimeOf(day, start)
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	// Scan exhausted. Returning the last scanned day keeps the caller
	// moving but may not conform to the cadence; create/edit validation
	// keeps stored configs out of this path.
	return atTimeOf(last, start)
}

// dayOf truncates t to midnight in its own location
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// atTimeOf pins day to clock's hour and minute
func atTimeOf(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
}

// daysBetween counts whole days from a to b; both are midnights, the
// rounding absorbs DST-shortened or -lengthened days
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
