package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestBuildSchedule_TwoStagesFromMonday(t *testing.T) {
	// A process with SLAs of 3 and 2 business days started on a Monday:
	// stage 1 spans [Mon, Wed], stage 2 spans [Wed, Thu].
	first := uuid.New()
	second := uuid.New()

	windows, hit := BuildSchedule([]StageSLA{
		{StageID: first, SLADays: 3},
		{StageID: second, SLADays: 2},
	}, mon, NewHolidaySet())

	require.Len(t, windows, 2)
	require.Equal(t, first, windows[0].StageID)
	require.Equal(t, mon, windows[0].PlannedStart)
	require.Equal(t, wed, windows[0].PlannedEnd)
	require.Equal(t, second, windows[1].StageID)
	require.Equal(t, wed, windows[1].PlannedStart)
	require.Equal(t, thu, windows[1].PlannedEnd)
	require.Empty(t, hit)
}

func TestBuildSchedule_ChainingInvariant(t *testing.T) {
	stages := []StageSLA{
		{StageID: uuid.New(), SLADays: 2},
		{StageID: uuid.New(), SLADays: 5},
		{StageID: uuid.New(), SLADays: 1},
		{StageID: uuid.New(), SLADays: 0},
	}
	holidays := NewHolidaySet(wed, thu)

	windows, _ := BuildSchedule(stages, mon, holidays)
	require.Len(t, windows, len(stages))
	for i := 1; i < len(windows); i++ {
		require.Equal(t, windows[i-1].PlannedEnd, windows[i].PlannedStart,
			"stage %d must start the day stage %d ends", i+1, i)
	}
}

func TestBuildSchedule_AccumulatesSkippedHolidays(t *testing.T) {
	holidays := NewHolidaySet(tue, fri)

	_, hit := BuildSchedule([]StageSLA{
		{StageID: uuid.New(), SLADays: 3},
		{StageID: uuid.New(), SLADays: 3},
	}, mon, holidays)

	require.ElementsMatch(t, []time.Time{tue, fri}, hit.Dates())
}

func TestBuildSchedule_ZeroSLACountsAsOneDay(t *testing.T) {
	windows, _ := BuildSchedule([]StageSLA{
		{StageID: uuid.New(), SLADays: 0},
	}, mon, NewHolidaySet())

	require.Equal(t, mon, windows[0].PlannedStart)
	require.Equal(t, mon, windows[0].PlannedEnd)
}

func TestBuildSchedule_Empty(t *testing.T) {
	windows, hit := BuildSchedule(nil, mon, NewHolidaySet())
	require.Empty(t, windows)
	require.Empty(t, hit)
}
