package vacancy

import (
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound          = gerrors.New("vacancy not found")
	ErrStageNotFound     = gerrors.New("vacancy stage not found")
	ErrInvalidTransition = gerrors.New("invalid vacancy state transition")
	ErrInvalidDate       = gerrors.New("completion date precedes planned stage start")
	ErrBrokenInvariant   = gerrors.New("stage chain invariant violated")
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Vacancy is one instantiation of a process for a department/site, with a
// chosen start date and one stage per process stage.
type Vacancy struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	processID    uuid.UUID
	departmentID uuid.UUID
	siteID       uuid.UUID
	startDate    time.Time
	status       Status
	active       bool

	createdBy uuid.UUID
	updatedBy uuid.UUID
	createdAt time.Time
	updatedAt time.Time

	stages []Stage
}

func New(
	tenantID uuid.UUID,
	processID uuid.UUID,
	departmentID uuid.UUID,
	siteID uuid.UUID,
	startDate time.Time,
	actorID uuid.UUID,
) Vacancy {
	return Vacancy{
		tenantID:     tenantID,
		processID:    processID,
		departmentID: departmentID,
		siteID:       siteID,
		startDate:    startDate,
		status:       StatusOpen,
		active:       true,
		createdBy:    actorID,
		updatedBy:    actorID,
	}
}

func Hydrate(
	id uuid.UUID,
	tenantID uuid.UUID,
	processID uuid.UUID,
	departmentID uuid.UUID,
	siteID uuid.UUID,
	startDate time.Time,
	status Status,
	active bool,
	createdBy uuid.UUID,
	updatedBy uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
	stages []Stage,
) Vacancy {
	return Vacancy{
		id:           id,
		tenantID:     tenantID,
		processID:    processID,
		departmentID: departmentID,
		siteID:       siteID,
		startDate:    startDate,
		status:       status,
		active:       active,
		createdBy:    createdBy,
		updatedBy:    updatedBy,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		stages:       stages,
	}
}

func (v Vacancy) ID() uuid.UUID           { return v.id }
func (v Vacancy) TenantID() uuid.UUID     { return v.tenantID }
func (v Vacancy) ProcessID() uuid.UUID    { return v.processID }
func (v Vacancy) DepartmentID() uuid.UUID { return v.departmentID }
func (v Vacancy) SiteID() uuid.UUID       { return v.siteID }
func (v Vacancy) StartDate() time.Time    { return v.startDate }
func (v Vacancy) Status() Status          { return v.status }
func (v Vacancy) Active() bool            { return v.active }
func (v Vacancy) CreatedBy() uuid.UUID    { return v.createdBy }
func (v Vacancy) UpdatedBy() uuid.UUID    { return v.updatedBy }
func (v Vacancy) CreatedAt() time.Time    { return v.createdAt }
func (v Vacancy) UpdatedAt() time.Time    { return v.updatedAt }
func (v Vacancy) Stages() []Stage         { return v.stages }

// CurrentStage returns the single open stage, when one exists.
func (v Vacancy) CurrentStage() (Stage, bool) {
	for _, s := range v.stages {
		if s.Status() == StageStatusOpen {
			return s, true
		}
	}
	return Stage{}, false
}

func (v Vacancy) WithStages(stages []Stage) Vacancy {
	v.stages = stages
	return v
}

func (v Vacancy) WithStatus(status Status) Vacancy {
	v.status = status
	return v
}

func (v Vacancy) WithUpdatedBy(actorID uuid.UUID) Vacancy {
	v.updatedBy = actorID
	return v
}

// Pause transitions open → paused.
func (v Vacancy) Pause() (Vacancy, error) {
	if v.status != StatusOpen {
		return v, gerrors.Wrapf(ErrInvalidTransition, "cannot pause a %s vacancy", v.status)
	}
	v.status = StatusPaused
	return v, nil
}

// Resume transitions paused → open.
func (v Vacancy) Resume() (Vacancy, error) {
	if v.status != StatusPaused {
		return v, gerrors.Wrapf(ErrInvalidTransition, "cannot resume a %s vacancy", v.status)
	}
	v.status = StatusOpen
	return v, nil
}

// Cancel is allowed from any state except cancelled itself.
func (v Vacancy) Cancel() (Vacancy, error) {
	if v.status == StatusCancelled {
		return v, gerrors.Wrapf(ErrInvalidTransition, "vacancy already cancelled")
	}
	v.status = StatusCancelled
	return v, nil
}
