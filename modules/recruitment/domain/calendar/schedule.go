package calendar

import (
	"time"

	"github.com/google/uuid"
)

// StageSLA is one stage of a process template: an identity plus its SLA in
// business days.
type StageSLA struct {
	StageID uuid.UUID
	SLADays int
}

// StageWindow is the planned calendar span computed for one stage.
type StageWindow struct {
	StageID      uuid.UUID
	PlannedStart time.Time
	PlannedEnd   time.Time
}

// BuildSchedule walks the ordered stages from start, assigning each stage a
// window of its SLA in business days. Consecutive stages share the boundary
// day: stage k+1 starts on the same calendar day stage k ends, because stage
// handoff happens same-day. Also returns the union of holidays skipped
// across all stages.
func BuildSchedule(stages []StageSLA, start time.Time, holidays HolidaySet) ([]StageWindow, HolidaySet) {
	windows := make([]StageWindow, 0, len(stages))
	holidaysHit := NewHolidaySet()

	cursor := NormalizeDay(start)
	for _, stage := range stages {
		w := AddBusinessDaysInclusive(cursor, stage.SLADays, holidays)
		windows = append(windows, StageWindow{
			StageID:      stage.StageID,
			PlannedStart: w.Start,
			PlannedEnd:   w.End,
		})
		for d := range w.SkippedHolidays {
			holidaysHit.Add(d)
		}
		cursor = w.End
	}

	return windows, holidaysHit
}
