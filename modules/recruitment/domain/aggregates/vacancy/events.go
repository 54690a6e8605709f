package vacancy

import (
	"time"

	"github.com/google/uuid"
)

type CreatedEvent struct {
	Vacancy Vacancy
	ActorID uuid.UUID
}

type StageCompletedEvent struct {
	VacancyID      uuid.UUID
	StageID        uuid.UUID
	CompletionDate time.Time
	ActorID        uuid.UUID
}

// RescheduledEvent is published once per vacancy reset by a holiday cascade.
type RescheduledEvent struct {
	VacancyID   uuid.UUID
	HolidayDate time.Time
}
