package service

import (
	"testing"
	"time"

	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeNext_WeeklyInclusiveBoundary(t *testing.T) {
	// 2025-03-10 is a Monday. Asking from Monday for a Monday schedule must
	// return that same day, not the following week.
	schedule := &model.CollectionSchedule{
		Days:      []string{"Monday"},
		Frequency: model.FrequencyWeekly,
	}

	next, err := ComputeNext(schedule, day(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 10), next)
}

func TestComputeNext_WeeklyScansForward(t *testing.T) {
	schedule := &model.CollectionSchedule{
		Days:      []string{"Friday"},
		Frequency: model.FrequencyWeekly,
	}

	// From Monday 2025-03-10, the next Friday is 2025-03-14.
	next, err := ComputeNext(schedule, day(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 14), next)
	assert.Equal(t, time.Friday, next.Weekday())
}

func TestComputeNext_MultipleDaysPicksEarliest(t *testing.T) {
	schedule := &model.CollectionSchedule{
		Days:      []string{"Wednesday", "Saturday"},
		Frequency: model.FrequencyWeekly,
	}

	// Thursday 2025-03-13: Saturday comes before next Wednesday.
	next, err := ComputeNext(schedule, day(2025, 3, 13))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 15), next)
}

func TestComputeNext_DailyReturnsFromWhenMatching(t *testing.T) {
	schedule := &model.CollectionSchedule{
		Days:      []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"},
		Frequency: model.FrequencyDaily,
	}

	from := day(2025, 7, 2)
	next, err := ComputeNext(schedule, from)
	require.NoError(t, err)
	assert.Equal(t, from, next)
}

func TestComputeNext_EmptyDaysRejected(t *testing.T) {
	schedule := &model.CollectionSchedule{
		Days:      nil,
		Frequency: model.FrequencyWeekly,
	}

	_, err := ComputeNext(schedule, day(2025, 3, 10))
	assert.ErrorIs(t, err, apperror.ErrInvalidSchedule)
}

func TestComputeNext_UnknownDayRejected(t *testing.T) {
	schedule := &model.CollectionSchedule{
		Days:      []string{"Someday"},
		Frequency: model.FrequencyWeekly,
	}

	_, err := ComputeNext(schedule, day(2025, 3, 10))
	assert.ErrorIs(t, err, apperror.ErrInvalidSchedule)
}

func TestComputeNext_UnknownFrequencyRejected(t *testing.T) {
	schedule := &model.CollectionSchedule{
		Days:      []string{"Monday"},
		Frequency: model.Frequency("quarterly"),
	}

	_, err := ComputeNext(schedule, day(2025, 3, 10))
	assert.ErrorIs(t, err, apperror.ErrInvalidSchedule)
}

func TestComputeNext_BiweeklyFirstComputationActsWeekly(t *testing.T) {
	schedule := &model.CollectionSchedule{
		Days:      []string{"Monday"},
		Frequency: model.FrequencyBiweekly,
	}

	next, err := ComputeNext(schedule, day(2025, 3, 11)) // Tuesday
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 17), next)
}

func TestComputeNext_BiweeklyAnchorsOnPreviousDate(t *testing.T) {
	prev := day(2025, 3, 3) // a past Monday
	schedule := &model.CollectionSchedule{
		Days:           []string{"Monday"},
		Frequency:      model.FrequencyBiweekly,
		NextCollection: &prev,
	}

	// 14 days after the anchor is Monday 2025-03-17, which is also on/after from.
	next, err := ComputeNext(schedule, day(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 17), next)
	assert.GreaterOrEqual(t, int(next.Sub(prev).Hours()), 14*24)
}

func TestComputeNext_BiweeklyRecomputeIsIdempotent(t *testing.T) {
	upcoming := day(2025, 3, 17) // a future Monday
	schedule := &model.CollectionSchedule{
		Days:           []string{"Monday"},
		Frequency:      model.FrequencyBiweekly,
		NextCollection: &upcoming,
	}

	// The stored date hasn't passed yet, so recomputing must not advance it.
	next, err := ComputeNext(schedule, day(2025, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, upcoming, next)
}

func TestComputeNext_MonthlyKeepsOrdinalWeekday(t *testing.T) {
	// 2025-03-11 is the second Tuesday of March.
	prev := day(2025, 3, 11)
	schedule := &model.CollectionSchedule{
		Days:           []string{"Tuesday"},
		Frequency:      model.FrequencyMonthly,
		NextCollection: &prev,
	}

	// The second Tuesday of April 2025 is the 8th.
	next, err := ComputeNext(schedule, day(2025, 3, 12))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 4, 8), next)
	assert.Equal(t, time.Tuesday, next.Weekday())
}

func TestComputeNext_MonthlyFifthOccurrenceFallsBackToLast(t *testing.T) {
	// 2025-05-30 is the fifth Friday of May. June 2025 has only four Fridays,
	// so the next occurrence is the last Friday of June.
	prev := day(2025, 5, 30)
	schedule := &model.CollectionSchedule{
		Days:           []string{"Friday"},
		Frequency:      model.FrequencyMonthly,
		NextCollection: &prev,
	}

	next, err := ComputeNext(schedule, day(2025, 5, 31))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 27), next)
}

func TestComputeNext_Deterministic(t *testing.T) {
	schedule := &model.CollectionSchedule{
		Days:      []string{"Wednesday"},
		Frequency: model.FrequencyWeekly,
	}
	from := day(2025, 8, 1)

	first, err := ComputeNext(schedule, from)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := ComputeNext(schedule, from)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeNext_NeverBeforeFrom(t *testing.T) {
	frequencies := []model.Frequency{
		model.FrequencyDaily,
		model.FrequencyWeekly,
		model.FrequencyBiweekly,
		model.FrequencyMonthly,
	}

	from := day(2025, 9, 15)
	for _, freq := range frequencies {
		schedule := &model.CollectionSchedule{
			Days:      []string{"Thursday"},
			Frequency: freq,
		}
		next, err := ComputeNext(schedule, from)
		require.NoError(t, err, freq)
		assert.False(t, next.Before(from), "%s produced a date before from", freq)
	}
}
