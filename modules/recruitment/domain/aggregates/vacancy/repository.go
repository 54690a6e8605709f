package vacancy

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, v Vacancy) (Vacancy, error)
	GetByID(ctx context.Context, id uuid.UUID) (Vacancy, error)
	// GetByStageID resolves the vacancy owning the given stage, with all
	// sibling stages ordered by template order.
	GetByStageID(ctx context.Context, stageID uuid.UUID) (Vacancy, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, actorID uuid.UUID) error
	UpdateStage(ctx context.Context, s Stage) error

	// ListOpenOrPausedWithStages returns every active vacancy in state open
	// or paused, stages included, for cascade scans.
	ListOpenOrPausedWithStages(ctx context.Context) ([]Vacancy, error)

	// Holiday impact links are always rebuilt whole, never diffed.
	DeleteHolidayLinks(ctx context.Context, vacancyID uuid.UUID) error
	InsertHolidayLinks(ctx context.Context, vacancyID uuid.UUID, holidayIDs []uuid.UUID) error

	// ListCompletedMissingElapsed feeds the elapsed-business-days backfill.
	ListCompletedMissingElapsed(ctx context.Context, limit int) ([]Vacancy, error)
	SetStageElapsed(ctx context.Context, stageID uuid.UUID, days int) error
}

// FindParams narrows cascade scans; zero values mean no filter.
type FindParams struct {
	Statuses []Status
	From     time.Time
	To       time.Time
}
