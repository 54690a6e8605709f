package holiday

import (
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = gerrors.New("holiday not found")
	ErrDuplicate = gerrors.New("holiday already exists for this tenant, name and date")
)

// Holiday is a non-working date. A nil tenant ID marks a national holiday
// visible to every tenant.
type Holiday struct {
	id       uuid.UUID
	tenantID uuid.UUID
	name     string
	date     time.Time

	createdAt time.Time
	updatedAt time.Time
}

func New(tenantID uuid.UUID, name string, date time.Time) Holiday {
	return Holiday{
		tenantID: tenantID,
		name:     strings.TrimSpace(name),
		date:     date,
	}
}

func Hydrate(
	id uuid.UUID,
	tenantID uuid.UUID,
	name string,
	date time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) Holiday {
	return Holiday{
		id:        id,
		tenantID:  tenantID,
		name:      name,
		date:      date,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (h Holiday) ID() uuid.UUID        { return h.id }
func (h Holiday) TenantID() uuid.UUID  { return h.tenantID }
func (h Holiday) Name() string         { return h.name }
func (h Holiday) Date() time.Time      { return h.date }
func (h Holiday) CreatedAt() time.Time { return h.createdAt }
func (h Holiday) UpdatedAt() time.Time { return h.updatedAt }

// IsNational reports whether the holiday applies to every tenant.
func (h Holiday) IsNational() bool { return h.tenantID == uuid.Nil }

func (h Holiday) WithNameAndDate(name string, date time.Time) Holiday {
	h.name = strings.TrimSpace(name)
	h.date = date
	return h
}
