package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/staffworx/recruiting/modules/recruitment/domain/calendar"
	"github.com/staffworx/recruiting/modules/recruitment/domain/entities/holiday"
	"github.com/staffworx/recruiting/pkg/composables"
)

type HolidayRepository struct{}

func NewHolidayRepository() holiday.Repository {
	return &HolidayRepository{}
}

func (r *HolidayRepository) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return holiday.Holiday{}, err
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, `
INSERT INTO holidays (tenant_id, name, date)
VALUES ($1, $2, $3)
RETURNING id
`, pgNullableUUID(h.TenantID()), h.Name(), pgDate(h.Date())).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return holiday.Holiday{}, holiday.ErrDuplicate
		}
		return holiday.Holiday{}, gerrors.Wrap(err, "failed to create holiday")
	}

	return r.GetByID(ctx, id)
}

func (r *HolidayRepository) Update(ctx context.Context, h holiday.Holiday) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE holidays
SET name = $2, date = $3, updated_at = now()
WHERE id = $1
`, pgUUID(h.ID()), h.Name(), pgDate(h.Date()))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return holiday.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrNotFound
	}
	return nil
}

func (r *HolidayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, pgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrNotFound
	}
	return nil
}

func (r *HolidayRepository) GetByID(ctx context.Context, id uuid.UUID) (holiday.Holiday, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return holiday.Holiday{}, err
	}

	var (
		tenantID  pgtype.UUID
		name      string
		date      pgtype.Date
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := tx.QueryRow(ctx, `
SELECT tenant_id, name, date, created_at, updated_at
FROM holidays
WHERE id = $1
`, pgUUID(id)).Scan(&tenantID, &name, &date, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return holiday.Holiday{}, holiday.ErrNotFound
		}
		return holiday.Holiday{}, err
	}

	return holiday.Hydrate(id, uuidFromPg(tenantID), name, dateFromPg(date), createdAt.Time, updatedAt.Time), nil
}

func (r *HolidayRepository) GetAll(ctx context.Context) ([]holiday.Holiday, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, tenant_id, name, date, created_at, updated_at
FROM holidays
WHERE tenant_id = $1 OR tenant_id IS NULL
ORDER BY date
`, pgTenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []holiday.Holiday
	for rows.Next() {
		var (
			id        pgtype.UUID
			tenantID  pgtype.UUID
			name      string
			date      pgtype.Date
			createdAt pgtype.Timestamptz
			updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &tenantID, &name, &date, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		out = append(out, holiday.Hydrate(uuidFromPg(id), uuidFromPg(tenantID), name, dateFromPg(date), createdAt.Time, updatedAt.Time))
	}
	return out, rows.Err()
}

// DatesByTenant loads the tenant's effective calendar (tenant plus national
// holidays) fresh on every call. Tenant-scoped rows win over national ones
// sharing the same date.
func (r *HolidayRepository) DatesByTenant(ctx context.Context) (map[time.Time]uuid.UUID, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, date, tenant_id IS NOT NULL AS tenant_scoped
FROM holidays
WHERE tenant_id = $1 OR tenant_id IS NULL
ORDER BY tenant_scoped
`, pgTenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[time.Time]uuid.UUID)
	for rows.Next() {
		var (
			id           pgtype.UUID
			date         pgtype.Date
			tenantScoped bool
		)
		if err := rows.Scan(&id, &date, &tenantScoped); err != nil {
			return nil, err
		}
		out[calendar.NormalizeDay(date.Time)] = uuidFromPg(id)
	}
	return out, rows.Err()
}
