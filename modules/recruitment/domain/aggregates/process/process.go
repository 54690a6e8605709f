package process

import (
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound             = gerrors.New("process not found")
	ErrStageTypeNotFound    = gerrors.New("stage type not found")
	ErrMissingConfiguration = gerrors.New("process has no stages")
	ErrInvalidStageOrder    = gerrors.New("process stages must be contiguous, 1-based and unique")
)

// StageType is a named stage template with an SLA in business days. Once a
// process references it, edits do not retroactively change scheduled
// vacancies: vacancies copy the SLA at creation time.
type StageType struct {
	id       uuid.UUID
	tenantID uuid.UUID
	name     string
	slaDays  int

	createdAt time.Time
	updatedAt time.Time
}

func NewStageType(tenantID uuid.UUID, name string, slaDays int) StageType {
	if slaDays < 0 {
		slaDays = 0
	}
	return StageType{
		tenantID: tenantID,
		name:     strings.TrimSpace(name),
		slaDays:  slaDays,
	}
}

func HydrateStageType(
	id uuid.UUID,
	tenantID uuid.UUID,
	name string,
	slaDays int,
	createdAt time.Time,
	updatedAt time.Time,
) StageType {
	return StageType{
		id:        id,
		tenantID:  tenantID,
		name:      name,
		slaDays:   slaDays,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (s StageType) ID() uuid.UUID        { return s.id }
func (s StageType) TenantID() uuid.UUID  { return s.tenantID }
func (s StageType) Name() string         { return s.name }
func (s StageType) SLADays() int         { return s.slaDays }
func (s StageType) CreatedAt() time.Time { return s.createdAt }
func (s StageType) UpdatedAt() time.Time { return s.updatedAt }

// Stage is one ordered slot of a process: a reference to a stage type plus
// its 1-based position.
type Stage struct {
	id          uuid.UUID
	stageTypeID uuid.UUID
	order       int
	slaDays     int
	name        string
}

func NewStage(stageTypeID uuid.UUID, order, slaDays int, name string) Stage {
	return Stage{
		stageTypeID: stageTypeID,
		order:       order,
		slaDays:     slaDays,
		name:        name,
	}
}

func HydrateStage(id, stageTypeID uuid.UUID, order, slaDays int, name string) Stage {
	return Stage{
		id:          id,
		stageTypeID: stageTypeID,
		order:       order,
		slaDays:     slaDays,
		name:        name,
	}
}

func (s Stage) ID() uuid.UUID          { return s.id }
func (s Stage) StageTypeID() uuid.UUID { return s.stageTypeID }
func (s Stage) Order() int             { return s.order }
func (s Stage) SLADays() int           { return s.slaDays }
func (s Stage) Name() string           { return s.name }

// Process is an ordered sequence of stage type references defining the shape
// of a recruitment workflow. It is created whole; stages are not mutated
// incrementally.
type Process struct {
	id       uuid.UUID
	tenantID uuid.UUID
	name     string
	stages   []Stage

	createdAt time.Time
	updatedAt time.Time
}

func New(tenantID uuid.UUID, name string, stages []Stage) (Process, error) {
	if err := validateStages(stages); err != nil {
		return Process{}, err
	}
	return Process{
		tenantID: tenantID,
		name:     strings.TrimSpace(name),
		stages:   stages,
	}, nil
}

func Hydrate(
	id uuid.UUID,
	tenantID uuid.UUID,
	name string,
	stages []Stage,
	createdAt time.Time,
	updatedAt time.Time,
) Process {
	return Process{
		id:        id,
		tenantID:  tenantID,
		name:      name,
		stages:    stages,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (p Process) ID() uuid.UUID        { return p.id }
func (p Process) TenantID() uuid.UUID  { return p.tenantID }
func (p Process) Name() string         { return p.name }
func (p Process) Stages() []Stage      { return p.stages }
func (p Process) CreatedAt() time.Time { return p.createdAt }
func (p Process) UpdatedAt() time.Time { return p.updatedAt }

func validateStages(stages []Stage) error {
	if len(stages) == 0 {
		return ErrMissingConfiguration
	}
	seenOrders := make(map[int]struct{}, len(stages))
	seenTypes := make(map[uuid.UUID]struct{}, len(stages))
	for _, s := range stages {
		if s.order < 1 || s.order > len(stages) {
			return ErrInvalidStageOrder
		}
		if _, dup := seenOrders[s.order]; dup {
			return ErrInvalidStageOrder
		}
		if _, dup := seenTypes[s.stageTypeID]; dup {
			return ErrInvalidStageOrder
		}
		seenOrders[s.order] = struct{}{}
		seenTypes[s.stageTypeID] = struct{}{}
	}
	return nil
}
