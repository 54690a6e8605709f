package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/vacancy"
	"github.com/staffworx/recruiting/pkg/composables"
)

type VacancyRepository struct{}

func NewVacancyRepository() vacancy.Repository {
	return &VacancyRepository{}
}

const vacancyColumns = `id, tenant_id, process_id, department_id, site_id, start_date, status, active, created_by, updated_by, created_at, updated_at`

func (r *VacancyRepository) Create(ctx context.Context, v vacancy.Vacancy) (vacancy.Vacancy, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return vacancy.Vacancy{}, err
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, `
INSERT INTO vacancies (tenant_id, process_id, department_id, site_id, start_date, status, active, created_by, updated_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`,
		pgTenantID,
		pgUUID(v.ProcessID()),
		pgUUID(v.DepartmentID()),
		pgUUID(v.SiteID()),
		pgDate(v.StartDate()),
		string(v.Status()),
		v.Active(),
		pgNullableUUID(v.CreatedBy()),
		pgNullableUUID(v.UpdatedBy()),
	).Scan(&id); err != nil {
		return vacancy.Vacancy{}, gerrors.Wrap(err, "failed to create vacancy")
	}

	for _, s := range v.Stages() {
		if _, err := tx.Exec(ctx, `
INSERT INTO vacancy_stages (vacancy_id, process_stage_id, stage_type_id, stage_order, sla_days, name, status, planned_start, planned_end, actual_completion)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`,
			pgUUID(id),
			pgUUID(s.ProcessStageID()),
			pgUUID(s.StageTypeID()),
			s.Order(),
			s.SLADays(),
			s.Name(),
			string(s.Status()),
			pgDate(s.PlannedStart()),
			pgDate(s.PlannedEnd()),
			pgNullableDate(s.ActualCompletion()),
		); err != nil {
			return vacancy.Vacancy{}, gerrors.Wrap(err, "failed to create vacancy stage")
		}
	}

	return r.GetByID(ctx, id)
}

func (r *VacancyRepository) GetByID(ctx context.Context, id uuid.UUID) (vacancy.Vacancy, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return vacancy.Vacancy{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+vacancyColumns+`
FROM vacancies
WHERE id = $1 AND tenant_id = $2
`, pgUUID(id), pgTenantID)

	v, err := scanVacancy(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vacancy.Vacancy{}, vacancy.ErrNotFound
		}
		return vacancy.Vacancy{}, err
	}

	stages, err := r.stagesOf(ctx, v.ID())
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	return v.WithStages(stages), nil
}

func (r *VacancyRepository) GetByStageID(ctx context.Context, stageID uuid.UUID) (vacancy.Vacancy, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return vacancy.Vacancy{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+prefixedVacancyColumns("v")+`
FROM vacancies v
JOIN vacancy_stages vs ON vs.vacancy_id = v.id
WHERE vs.id = $1 AND v.tenant_id = $2
`, pgUUID(stageID), pgTenantID)

	v, err := scanVacancy(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return vacancy.Vacancy{}, vacancy.ErrStageNotFound
		}
		return vacancy.Vacancy{}, err
	}

	stages, err := r.stagesOf(ctx, v.ID())
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	return v.WithStages(stages), nil
}

func (r *VacancyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status vacancy.Status, actorID uuid.UUID) error {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE vacancies
SET status = $3, updated_by = $4, updated_at = now()
WHERE id = $1 AND tenant_id = $2
`, pgUUID(id), pgTenantID, string(status), pgNullableUUID(actorID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return vacancy.ErrNotFound
	}
	return nil
}

func (r *VacancyRepository) UpdateStage(ctx context.Context, s vacancy.Stage) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE vacancy_stages
SET status = $2,
    planned_start = $3,
    planned_end = $4,
    actual_completion = $5,
    elapsed_business_days = $6
WHERE id = $1
`,
		pgUUID(s.ID()),
		string(s.Status()),
		pgDate(s.PlannedStart()),
		pgDate(s.PlannedEnd()),
		pgNullableDate(s.ActualCompletion()),
		pgNullableInt4(s.ElapsedBusinessDays()),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return vacancy.ErrStageNotFound
	}
	return nil
}

func (r *VacancyRepository) ListOpenOrPausedWithStages(ctx context.Context) ([]vacancy.Vacancy, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT `+vacancyColumns+`
FROM vacancies
WHERE tenant_id = $1 AND active AND status IN ('open', 'paused')
ORDER BY created_at
`, pgTenantID)
	if err != nil {
		return nil, err
	}

	out, err := collectVacancies(rows)
	if err != nil {
		return nil, err
	}
	return r.attachStages(ctx, out)
}

func (r *VacancyRepository) DeleteHolidayLinks(ctx context.Context, vacancyID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM vacancy_holidays WHERE vacancy_id = $1`, pgUUID(vacancyID))
	return err
}

func (r *VacancyRepository) InsertHolidayLinks(ctx context.Context, vacancyID uuid.UUID, holidayIDs []uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	for _, holidayID := range holidayIDs {
		if _, err := tx.Exec(ctx, `
INSERT INTO vacancy_holidays (vacancy_id, holiday_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, pgUUID(vacancyID), pgUUID(holidayID)); err != nil {
			return err
		}
	}
	return nil
}

func (r *VacancyRepository) ListCompletedMissingElapsed(ctx context.Context, limit int) ([]vacancy.Vacancy, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := tx.Query(ctx, `
SELECT DISTINCT `+prefixedVacancyColumns("v")+`
FROM vacancies v
JOIN vacancy_stages vs ON vs.vacancy_id = v.id
WHERE v.tenant_id = $1
  AND v.status = 'completed'
  AND vs.status = 'completed'
  AND vs.elapsed_business_days IS NULL
LIMIT $2
`, pgTenantID, limit)
	if err != nil {
		return nil, err
	}

	out, err := collectVacancies(rows)
	if err != nil {
		return nil, err
	}
	return r.attachStages(ctx, out)
}

func (r *VacancyRepository) SetStageElapsed(ctx context.Context, stageID uuid.UUID, days int) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
UPDATE vacancy_stages
SET elapsed_business_days = $2
WHERE id = $1 AND elapsed_business_days IS NULL
`, pgUUID(stageID), days)
	return err
}

func (r *VacancyRepository) stagesOf(ctx context.Context, vacancyID uuid.UUID) ([]vacancy.Stage, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, vacancy_id, process_stage_id, stage_type_id, stage_order, sla_days, name, status, planned_start, planned_end, actual_completion, elapsed_business_days
FROM vacancy_stages
WHERE vacancy_id = $1
ORDER BY stage_order
`, pgUUID(vacancyID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []vacancy.Stage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

func (r *VacancyRepository) attachStages(ctx context.Context, vacancies []vacancy.Vacancy) ([]vacancy.Vacancy, error) {
	for i := range vacancies {
		stages, err := r.stagesOf(ctx, vacancies[i].ID())
		if err != nil {
			return nil, err
		}
		vacancies[i] = vacancies[i].WithStages(stages)
	}
	return vacancies, nil
}

func collectVacancies(rows pgx.Rows) ([]vacancy.Vacancy, error) {
	defer rows.Close()

	var out []vacancy.Vacancy
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVacancy(row pgx.Row) (vacancy.Vacancy, error) {
	var (
		id           pgtype.UUID
		tenantID     pgtype.UUID
		processID    pgtype.UUID
		departmentID pgtype.UUID
		siteID       pgtype.UUID
		startDate    pgtype.Date
		status       string
		active       bool
		createdBy    pgtype.UUID
		updatedBy    pgtype.UUID
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &tenantID, &processID, &departmentID, &siteID,
		&startDate, &status, &active, &createdBy, &updatedBy,
		&createdAt, &updatedAt,
	); err != nil {
		return vacancy.Vacancy{}, err
	}

	return vacancy.Hydrate(
		uuidFromPg(id),
		uuidFromPg(tenantID),
		uuidFromPg(processID),
		uuidFromPg(departmentID),
		uuidFromPg(siteID),
		dateFromPg(startDate),
		vacancy.Status(status),
		active,
		uuidFromPg(createdBy),
		uuidFromPg(updatedBy),
		createdAt.Time,
		updatedAt.Time,
		nil,
	), nil
}

func scanStage(row pgx.Row) (vacancy.Stage, error) {
	var (
		id             pgtype.UUID
		vacancyID      pgtype.UUID
		processStageID pgtype.UUID
		stageTypeID    pgtype.UUID
		order          int
		slaDays        int
		name           string
		status         string
		plannedStart   pgtype.Date
		plannedEnd     pgtype.Date
		actual         pgtype.Date
		elapsed        pgtype.Int4
	)
	if err := row.Scan(
		&id, &vacancyID, &processStageID, &stageTypeID, &order, &slaDays,
		&name, &status, &plannedStart, &plannedEnd, &actual, &elapsed,
	); err != nil {
		return vacancy.Stage{}, err
	}

	return vacancy.HydrateStage(
		uuidFromPg(id),
		uuidFromPg(vacancyID),
		uuidFromPg(processStageID),
		uuidFromPg(stageTypeID),
		order,
		slaDays,
		name,
		vacancy.StageStatus(status),
		dateFromPg(plannedStart),
		dateFromPg(plannedEnd),
		nullableDateFromPg(actual),
		intFromPg(elapsed),
	), nil
}

func prefixedVacancyColumns(alias string) string {
	return alias + `.id, ` + alias + `.tenant_id, ` + alias + `.process_id, ` + alias + `.department_id, ` + alias + `.site_id, ` +
		alias + `.start_date, ` + alias + `.status, ` + alias + `.active, ` + alias + `.created_by, ` + alias + `.updated_by, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}
