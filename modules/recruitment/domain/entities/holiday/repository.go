package holiday

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Update(ctx context.Context, h Holiday) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (Holiday, error)
	GetAll(ctx context.Context) ([]Holiday, error)

	// DatesByTenant returns the tenant's effective holiday calendar
	// (tenant-scoped plus national) as a date → holiday id map. Loaded
	// fresh per operation, never cached.
	DatesByTenant(ctx context.Context) (map[time.Time]uuid.UUID, error)
}
