package service

import (
	"strings"
	"time"

	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ComputeNext returns the earliest date on or after from that falls on one of the
// schedule's weekdays and satisfies the frequency cadence relative to the
// previously computed NextCollection. It is a pure function of its inputs: the
// same (schedule, from) pair always yields the same date, and from itself is a
// valid result when it matches (the boundary is inclusive).
func ComputeNext(schedule *model.CollectionSchedule, from time.Time) (time.Time, error) {
	days, err := parseWeekdays(schedule.Days)
	if err != nil {
		return time.Time{}, err
	}

	start := truncateToDay(from)

	switch schedule.Frequency {
	case model.FrequencyDaily, model.FrequencyWeekly:
		return nextMatchingWeekday(start, days), nil

	case model.FrequencyBiweekly:
		// The cadence anchors on the previously computed date: the next pickup is
		// the first matching weekday at least 14 days after it. A previously
		// computed date that has not passed yet stays as-is, so recomputation
		// with unchanged inputs is idempotent. Without an anchor the first
		// computation behaves like weekly.
		if prev := schedule.NextCollection; prev != nil {
			prevDay := truncateToDay(*prev)
			if !prevDay.Before(start) && days[prevDay.Weekday()] {
				return prevDay, nil
			}
			if earliest := prevDay.AddDate(0, 0, 14); earliest.After(start) {
				start = earliest
			}
		}
		return nextMatchingWeekday(start, days), nil

	case model.FrequencyMonthly:
		prev := schedule.NextCollection
		if prev == nil {
			return nextMatchingWeekday(start, days), nil
		}
		prevDay := truncateToDay(*prev)
		if !prevDay.Before(start) && days[prevDay.Weekday()] {
			return prevDay, nil
		}
		return nextMonthlyOccurrence(prevDay, start), nil

	default:
		return time.Time{}, apperror.ErrInvalidSchedule
	}
}

func parseWeekdays(names []string) (map[time.Weekday]bool, error) {
	if len(names) == 0 {
		return nil, apperror.ErrInvalidSchedule
	}

	days := make(map[time.Weekday]bool, len(names))
	for _, name := range names {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, apperror.ErrInvalidSchedule
		}
		days[wd] = true
	}
	return days, nil
}

// nextMatchingWeekday scans at most one week forward, start inclusive.
func nextMatchingWeekday(start time.Time, days map[time.Weekday]bool) time.Time {
	for i := 0; i < 7; i++ {
		candidate := start.AddDate(0, 0, i)
		if days[candidate.Weekday()] {
			return candidate
		}
	}
	// Unreachable: days is validated non-empty, so one of seven weekdays matches.
	return start
}

// nextMonthlyOccurrence keeps the previous date's weekday-of-month pattern (e.g.
// "second Tuesday") and advances month by month until the occurrence lands on or
// after start. A month without a fifth occurrence falls back to the last one.
func nextMonthlyOccurrence(prev, start time.Time) time.Time {
	ordinal := (prev.Day()-1)/7 + 1

	candidate := prev
	for i := 0; i < 24; i++ {
		year, month, _ := candidate.Date()
		next := nthWeekdayOfMonth(year, month+1, prev.Weekday(), ordinal, prev.Location())
		if !next.Before(start) {
			return next
		}
		candidate = next
	}
	return candidate
}

func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	candidate := first.AddDate(0, 0, offset+(n-1)*7)

	// Fifth occurrence may not exist; use the last one in that month.
	if candidate.Month() != first.Month() {
		candidate = candidate.AddDate(0, 0, -7)
	}
	return candidate
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
