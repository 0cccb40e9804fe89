package reminder

import (
	"testing"
	"time"
)

// 2026-01-05 is a Monday
var recurrenceStart = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

func TestNextOccurrence_FutureStartOnSelectedWeekday(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	got := NextOccurrence(now, recurrenceStart, []time.Weekday{time.Monday}, 1)
	if !got.Equal(recurrenceStart) {
		t.Errorf("expected start itself %s, got %s", recurrenceStart, got)
	}
}

func TestNextOccurrence_SameCycleWeek(t *testing.T) {
	// Tuesday right after the start: the Wednesday of the same cycle
	// week is aligned (0 weeks elapsed) and must be picked
	now := time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)

	got := NextOccurrence(now, recurrenceStart, []time.Weekday{time.Monday, time.Wednesday}, 2)

	want := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNextOccurrence_SkipsUnalignedWeek(t *testing.T) {
	// One week into the cycle: the immediate next Wednesday falls in
	// week 1, which is not a multiple of 2; the next aligned day is the
	// Monday of week 2
	now := time.Date(2026, 1, 13, 10, 0, 0, 0, time.UTC)

	got := NextOccurrence(now, recurrenceStart, []time.Weekday{time.Monday, time.Wednesday}, 2)

	want := time.Date(2026, 1, 19, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
	if got.Weekday() != time.Monday {
		t.Errorf("expected a Monday, got %s", got.Weekday())
	}
}

func TestNextOccurrence_SingleWeekdayBiweekly(t *testing.T) {
	now := time.Date(2026, 1, 13, 10, 0, 0, 0, time.UTC)

	got := NextOccurrence(now, recurrenceStart, []time.Weekday{time.Wednesday}, 2)

	// Jan 14 is week 1 (unaligned); Jan 21 is week 2
	want := time.Date(2026, 1, 21, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestNextOccurrence_CadenceProperty(t *testing.T) {
	weekdaySets := [][]time.Weekday{
		{time.Sunday},
		{time.Monday, time.Friday},
		{time.Tuesday, time.Thursday, time.Saturday},
	}
	frequencies := []int{1, 2, 3, 4, 13, 52}

	for _, weekdays := range weekdaySets {
		for _, freq := range frequencies {
			now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
			got := NextOccurrence(now, recurrenceStart, weekdays, freq)

			if !containsWeekday(weekdays, got.Weekday()) {
				t.Errorf("freq %d: result weekday %s not in selected set %v", freq, got.Weekday(), weekdays)
			}

			days := int(got.Truncate(24*time.Hour).Sub(recurrenceStart.Truncate(24*time.Hour)).Hours() / 24)
			if (days/7)%freq != 0 {
				t.Errorf("freq %d: result %s is %d days (%d weeks) after start, not on cadence", freq, got, days, days/7)
			}

			if got.Hour() != 9 || got.Minute() != 0 {
				t.Errorf("freq %d: time-of-day not pinned to start, got %02d:%02d", freq, got.Hour(), got.Minute())
			}
		}
	}
}

func TestNextOccurrence_ExhaustionFallback(t *testing.T) {
	// An empty weekday set violates the precondition and can never be
	// accepted; the scan returns its last day as the degraded fallback
	now := time.Date(2026, 1, 13, 10, 0, 0, 0, time.UTC)

	got := NextOccurrence(now, recurrenceStart, nil, 1)

	want := time.Date(2026, 1, 26, 9, 0, 0, 0, time.UTC) // 13 days past "today"
	if !got.Equal(want) {
		t.Errorf("expected fallback %s, got %s", want, got)
	}
}

func containsWeekday(set []time.Weekday, d time.Weekday) bool {
	for _, w := range set {
		if w == d {
			return true
		}
	}
	return false
}
