package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 2025-06-02 is a Monday.
var (
	mon = Day(2025, time.June, 2)
	tue = Day(2025, time.June, 3)
	wed = Day(2025, time.June, 4)
	thu = Day(2025, time.June, 5)
	fri = Day(2025, time.June, 6)
	sat = Day(2025, time.June, 7)
	sun = Day(2025, time.June, 8)
)

func TestIsWorkingDay(t *testing.T) {
	holidays := NewHolidaySet(wed)

	require.True(t, IsWorkingDay(mon, holidays))
	require.False(t, IsWorkingDay(wed, holidays), "holiday is not a working day")
	require.False(t, IsWorkingDay(sat, holidays))
	require.False(t, IsWorkingDay(sun, holidays))
}

func TestAddBusinessDaysInclusive(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		n         int
		holidays  HolidaySet
		wantStart time.Time
		wantEnd   time.Time
		skipped   []time.Time
	}{
		{
			name:      "single day on a business day",
			start:     mon,
			n:         1,
			holidays:  NewHolidaySet(),
			wantStart: mon,
			wantEnd:   mon,
		},
		{
			name:      "three days from monday",
			start:     mon,
			n:         3,
			holidays:  NewHolidaySet(),
			wantStart: mon,
			wantEnd:   wed,
		},
		{
			name:      "weekend is skipped",
			start:     fri,
			n:         2,
			holidays:  NewHolidaySet(),
			wantStart: fri,
			wantEnd:   Day(2025, time.June, 9), // next monday
		},
		{
			name:      "start on saturday advances to monday",
			start:     sat,
			n:         1,
			holidays:  NewHolidaySet(),
			wantStart: Day(2025, time.June, 9),
			wantEnd:   Day(2025, time.June, 9),
		},
		{
			name:      "start on a holiday advances and records it",
			start:     mon,
			n:         1,
			holidays:  NewHolidaySet(mon),
			wantStart: tue,
			wantEnd:   tue,
			skipped:   []time.Time{mon},
		},
		{
			name:      "holiday mid-window pushes the end",
			start:     mon,
			n:         3,
			holidays:  NewHolidaySet(tue),
			wantStart: mon,
			wantEnd:   thu,
			skipped:   []time.Time{tue},
		},
		{
			name:      "n below one counts as one",
			start:     mon,
			n:         0,
			holidays:  NewHolidaySet(),
			wantStart: mon,
			wantEnd:   mon,
		},
		{
			name:      "negative n counts as one",
			start:     mon,
			n:         -5,
			holidays:  NewHolidaySet(),
			wantStart: mon,
			wantEnd:   mon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := AddBusinessDaysInclusive(tt.start, tt.n, tt.holidays)
			require.Equal(t, tt.wantStart, w.Start)
			require.Equal(t, tt.wantEnd, w.End)
			require.ElementsMatch(t, tt.skipped, w.SkippedHolidays.Dates())
		})
	}
}

func TestAddBusinessDaysInclusive_CountProperty(t *testing.T) {
	// For every n, the end must be a business day and the inclusive
	// business-day count between start and end must equal n.
	holidays := NewHolidaySet(wed, Day(2025, time.June, 10))

	for n := 1; n <= 15; n++ {
		w := AddBusinessDaysInclusive(mon, n, holidays)
		require.True(t, IsWorkingDay(w.End, holidays), "n=%d", n)
		require.True(t, IsWorkingDay(w.Start, holidays), "n=%d", n)
		require.Equal(t, n, BusinessDaysBetweenInclusive(w.Start, w.End, holidays), "n=%d", n)
	}
}

func TestAddBusinessDaysInclusive_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2025, time.June, 2, 23, 45, 0, 0, time.FixedZone("X", -5*3600))
	w := AddBusinessDaysInclusive(late, 1, NewHolidaySet())
	require.Equal(t, Day(2025, time.June, 3), w.Start, "date-only normalization is in UTC")
}

func TestBusinessDaysInRange(t *testing.T) {
	holidays := NewHolidaySet(tue)

	days := BusinessDaysInRange(mon, sun, holidays)
	require.Equal(t, []time.Time{mon, wed, thu, fri}, days)

	require.Empty(t, BusinessDaysInRange(sun, mon, holidays), "inverted range is empty")
}

func TestBusinessDaysAfter(t *testing.T) {
	days := BusinessDaysAfter(mon, fri, NewHolidaySet())
	require.Equal(t, []time.Time{tue, wed, thu, fri}, days)
}

func TestEachDay(t *testing.T) {
	days := EachDay(fri, Day(2025, time.June, 9))
	require.Len(t, days, 4, "calendar days include weekends")
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-06-02")
	require.NoError(t, err)
	require.Equal(t, mon, d)
	require.Equal(t, "2025-06-02", FormatDay(d))

	_, err = ParseDay("02.06.2025")
	require.Error(t, err)
}
