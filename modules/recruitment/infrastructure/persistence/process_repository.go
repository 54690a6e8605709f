package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/process"
	"github.com/staffworx/recruiting/pkg/composables"
)

type ProcessRepository struct{}

func NewProcessRepository() process.Repository {
	return &ProcessRepository{}
}

func (r *ProcessRepository) Create(ctx context.Context, p process.Process) (process.Process, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return process.Process{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return process.Process{}, err
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, `
INSERT INTO processes (tenant_id, name)
VALUES ($1, $2)
RETURNING id
`, pgTenantID, p.Name()).Scan(&id); err != nil {
		return process.Process{}, err
	}

	for _, s := range p.Stages() {
		if _, err := tx.Exec(ctx, `
INSERT INTO process_stages (process_id, stage_type_id, stage_order)
VALUES ($1, $2, $3)
`, pgUUID(id), pgUUID(s.StageTypeID()), s.Order()); err != nil {
			return process.Process{}, err
		}
	}

	return r.GetByID(ctx, id)
}

func (r *ProcessRepository) GetByID(ctx context.Context, id uuid.UUID) (process.Process, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return process.Process{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return process.Process{}, err
	}

	var (
		rowID     pgtype.UUID
		rowTenant pgtype.UUID
		name      string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := tx.QueryRow(ctx, `
SELECT id, tenant_id, name, created_at, updated_at
FROM processes
WHERE id = $1 AND tenant_id = $2
`, pgUUID(id), pgTenantID).Scan(&rowID, &rowTenant, &name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return process.Process{}, process.ErrNotFound
		}
		return process.Process{}, err
	}

	stages, err := r.stagesOf(ctx, id)
	if err != nil {
		return process.Process{}, err
	}

	return process.Hydrate(
		uuidFromPg(rowID),
		tenantUUID,
		name,
		stages,
		createdAt.Time,
		updatedAt.Time,
	), nil
}

func (r *ProcessRepository) GetAll(ctx context.Context) ([]process.Process, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, name, created_at, updated_at
FROM processes
WHERE tenant_id = $1
ORDER BY created_at
`, pgTenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []process.Process
	for rows.Next() {
		var (
			rowID     pgtype.UUID
			name      string
			createdAt pgtype.Timestamptz
			updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&rowID, &name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		out = append(out, process.Hydrate(uuidFromPg(rowID), tenantUUID, name, nil, createdAt.Time, updatedAt.Time))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		stages, err := r.stagesOf(ctx, out[i].ID())
		if err != nil {
			return nil, err
		}
		out[i] = process.Hydrate(out[i].ID(), tenantUUID, out[i].Name(), stages, out[i].CreatedAt(), out[i].UpdatedAt())
	}
	return out, nil
}

func (r *ProcessRepository) stagesOf(ctx context.Context, processID uuid.UUID) ([]process.Stage, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT ps.id, ps.stage_type_id, ps.stage_order, st.sla_days, st.name
FROM process_stages ps
JOIN stage_types st ON st.id = ps.stage_type_id
WHERE ps.process_id = $1
ORDER BY ps.stage_order
`, pgUUID(processID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []process.Stage
	for rows.Next() {
		var (
			id          pgtype.UUID
			stageTypeID pgtype.UUID
			order       int
			slaDays     int
			name        string
		)
		if err := rows.Scan(&id, &stageTypeID, &order, &slaDays, &name); err != nil {
			return nil, err
		}
		stages = append(stages, process.HydrateStage(uuidFromPg(id), uuidFromPg(stageTypeID), order, slaDays, name))
	}
	return stages, rows.Err()
}

func (r *ProcessRepository) CreateStageType(ctx context.Context, st process.StageType) (process.StageType, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return process.StageType{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return process.StageType{}, err
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, `
INSERT INTO stage_types (tenant_id, name, sla_days)
VALUES ($1, $2, $3)
RETURNING id
`, pgTenantID, st.Name(), st.SLADays()).Scan(&id); err != nil {
		return process.StageType{}, err
	}

	return r.GetStageTypeByID(ctx, id)
}

func (r *ProcessRepository) GetStageTypeByID(ctx context.Context, id uuid.UUID) (process.StageType, error) {
	tenantUUID, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return process.StageType{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return process.StageType{}, err
	}

	var (
		name      string
		slaDays   int
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := tx.QueryRow(ctx, `
SELECT name, sla_days, created_at, updated_at
FROM stage_types
WHERE id = $1 AND tenant_id = $2
`, pgUUID(id), pgTenantID).Scan(&name, &slaDays, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return process.StageType{}, process.ErrStageTypeNotFound
		}
		return process.StageType{}, err
	}

	return process.HydrateStageType(id, tenantUUID, name, slaDays, createdAt.Time, updatedAt.Time), nil
}
