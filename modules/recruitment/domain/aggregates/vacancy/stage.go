package vacancy

import (
	"time"

	"github.com/google/uuid"
)

type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusOpen      StageStatus = "open"
	StageStatusCompleted StageStatus = "completed"
)

// Stage is one instance of a process stage within a vacancy. The planned
// window is computed from the SLA; the actual completion date stays nil
// until the stage closes. A full tail recalculation is the only path that
// moves a completed stage back to open or pending.
type Stage struct {
	id             uuid.UUID
	vacancyID      uuid.UUID
	processStageID uuid.UUID
	stageTypeID    uuid.UUID
	order          int
	slaDays        int
	name           string
	status         StageStatus

	plannedStart     time.Time
	plannedEnd       time.Time
	actualCompletion *time.Time

	// elapsedBusinessDays is a derived metric backfilled out of band for
	// completed stages; nil until computed.
	elapsedBusinessDays *int
}

func NewStage(
	processStageID uuid.UUID,
	stageTypeID uuid.UUID,
	order int,
	slaDays int,
	name string,
) Stage {
	return Stage{
		processStageID: processStageID,
		stageTypeID:    stageTypeID,
		order:          order,
		slaDays:        slaDays,
		name:           name,
		status:         StageStatusPending,
	}
}

func HydrateStage(
	id uuid.UUID,
	vacancyID uuid.UUID,
	processStageID uuid.UUID,
	stageTypeID uuid.UUID,
	order int,
	slaDays int,
	name string,
	status StageStatus,
	plannedStart time.Time,
	plannedEnd time.Time,
	actualCompletion *time.Time,
	elapsedBusinessDays *int,
) Stage {
	return Stage{
		id:                  id,
		vacancyID:           vacancyID,
		processStageID:      processStageID,
		stageTypeID:         stageTypeID,
		order:               order,
		slaDays:             slaDays,
		name:                name,
		status:              status,
		plannedStart:        plannedStart,
		plannedEnd:          plannedEnd,
		actualCompletion:    actualCompletion,
		elapsedBusinessDays: elapsedBusinessDays,
	}
}

func (s Stage) ID() uuid.UUID             { return s.id }
func (s Stage) VacancyID() uuid.UUID      { return s.vacancyID }
func (s Stage) ProcessStageID() uuid.UUID { return s.processStageID }
func (s Stage) StageTypeID() uuid.UUID    { return s.stageTypeID }
func (s Stage) Order() int                { return s.order }
func (s Stage) SLADays() int              { return s.slaDays }
func (s Stage) Name() string              { return s.name }
func (s Stage) Status() StageStatus       { return s.status }
func (s Stage) PlannedStart() time.Time   { return s.plannedStart }
func (s Stage) PlannedEnd() time.Time     { return s.plannedEnd }

func (s Stage) ActualCompletion() *time.Time {
	if s.actualCompletion == nil {
		return nil
	}
	d := *s.actualCompletion
	return &d
}

func (s Stage) ElapsedBusinessDays() *int {
	if s.elapsedBusinessDays == nil {
		return nil
	}
	n := *s.elapsedBusinessDays
	return &n
}

// WithWindow overwrites the planned window.
func (s Stage) WithWindow(start, end time.Time) Stage {
	s.plannedStart = start
	s.plannedEnd = end
	return s
}

// Completed marks the stage closed on the given date.
func (s Stage) Completed(date time.Time) Stage {
	s.status = StageStatusCompleted
	s.actualCompletion = &date
	return s
}

// Reopened resets the stage to open and clears any prior completion.
func (s Stage) Reopened() Stage {
	s.status = StageStatusOpen
	s.actualCompletion = nil
	s.elapsedBusinessDays = nil
	return s
}

// Pending resets the stage to pending and clears any prior completion.
func (s Stage) Pending() Stage {
	s.status = StageStatusPending
	s.actualCompletion = nil
	s.elapsedBusinessDays = nil
	return s
}

func (s Stage) WithElapsedBusinessDays(n int) Stage {
	s.elapsedBusinessDays = &n
	return s
}

// IsCompletedOn reports an exact idempotent re-completion: already completed
// with the very same date.
func (s Stage) IsCompletedOn(date time.Time) bool {
	return s.status == StageStatusCompleted &&
		s.actualCompletion != nil &&
		s.actualCompletion.Equal(date)
}
