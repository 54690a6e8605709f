package process

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p Process) (Process, error)
	GetByID(ctx context.Context, id uuid.UUID) (Process, error)
	GetAll(ctx context.Context) ([]Process, error)

	CreateStageType(ctx context.Context, st StageType) (StageType, error)
	GetStageTypeByID(ctx context.Context, id uuid.UUID) (StageType, error)
}
