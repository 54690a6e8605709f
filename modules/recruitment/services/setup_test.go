package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/process"
	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/vacancy"
	"github.com/staffworx/recruiting/modules/recruitment/domain/calendar"
	"github.com/staffworx/recruiting/modules/recruitment/domain/entities/holiday"
	"github.com/staffworx/recruiting/modules/recruitment/services"
	"github.com/staffworx/recruiting/pkg/composables"
	"github.com/staffworx/recruiting/pkg/eventbus"
)

// noopTx satisfies pgx.Tx so service methods can join a transaction context
// while the in-memory repositories ignore the database entirely.
type noopTx struct{}

func (noopTx) Begin(_ context.Context) (pgx.Tx, error) { return noopTx{}, nil }
func (noopTx) Commit(_ context.Context) error          { return nil }
func (noopTx) Rollback(_ context.Context) error        { return nil }
func (noopTx) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (noopTx) SendBatch(_ context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (noopTx) LargeObjects() pgx.LargeObjects                             { return pgx.LargeObjects{} }
func (noopTx) Prepare(_ context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (noopTx) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (noopTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }
func (noopTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row        { return nil }
func (noopTx) Conn() *pgx.Conn                                               { return nil }

func testContext(tenantID uuid.UUID) context.Context {
	ctx := composables.WithTx(context.Background(), noopTx{})
	return composables.WithTenantID(ctx, tenantID)
}

func testPublisher() eventbus.EventBus {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(logger)
}

// --- vacancy repository ---

type memVacancyRepo struct {
	mu        sync.Mutex
	vacancies map[uuid.UUID]vacancy.Vacancy
	stageable map[uuid.UUID]uuid.UUID // stage id -> vacancy id
	links     map[uuid.UUID][]uuid.UUID
}

func newMemVacancyRepo() *memVacancyRepo {
	return &memVacancyRepo{
		vacancies: make(map[uuid.UUID]vacancy.Vacancy),
		stageable: make(map[uuid.UUID]uuid.UUID),
		links:     make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *memVacancyRepo) Create(_ context.Context, v vacancy.Vacancy) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	now := time.Now()
	stages := make([]vacancy.Stage, 0, len(v.Stages()))
	for _, s := range v.Stages() {
		stageID := uuid.New()
		stages = append(stages, vacancy.HydrateStage(
			stageID, id, s.ProcessStageID(), s.StageTypeID(),
			s.Order(), s.SLADays(), s.Name(), s.Status(),
			s.PlannedStart(), s.PlannedEnd(), s.ActualCompletion(), s.ElapsedBusinessDays(),
		))
		r.stageable[stageID] = id
	}
	stored := vacancy.Hydrate(
		id, v.TenantID(), v.ProcessID(), v.DepartmentID(), v.SiteID(),
		v.StartDate(), v.Status(), v.Active(), v.CreatedBy(), v.UpdatedBy(),
		now, now, stages,
	)
	r.vacancies[id] = stored
	return stored, nil
}

func (r *memVacancyRepo) GetByID(_ context.Context, id uuid.UUID) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vacancies[id]
	if !ok {
		return vacancy.Vacancy{}, vacancy.ErrNotFound
	}
	return v, nil
}

func (r *memVacancyRepo) GetByStageID(_ context.Context, stageID uuid.UUID) (vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vacancyID, ok := r.stageable[stageID]
	if !ok {
		return vacancy.Vacancy{}, vacancy.ErrStageNotFound
	}
	return r.vacancies[vacancyID], nil
}

func (r *memVacancyRepo) UpdateStatus(_ context.Context, id uuid.UUID, status vacancy.Status, actorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vacancies[id]
	if !ok {
		return vacancy.ErrNotFound
	}
	r.vacancies[id] = v.WithStatus(status).WithUpdatedBy(actorID)
	return nil
}

func (r *memVacancyRepo) UpdateStage(_ context.Context, s vacancy.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vacancyID, ok := r.stageable[s.ID()]
	if !ok {
		return vacancy.ErrStageNotFound
	}
	v := r.vacancies[vacancyID]
	stages := v.Stages()
	for i, existing := range stages {
		if existing.ID() == s.ID() {
			stages[i] = s
			break
		}
	}
	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Order() < stages[j].Order() })
	r.vacancies[vacancyID] = v.WithStages(stages)
	return nil
}

func (r *memVacancyRepo) ListOpenOrPausedWithStages(_ context.Context) ([]vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []vacancy.Vacancy
	for _, v := range r.vacancies {
		if v.Active() && (v.Status() == vacancy.StatusOpen || v.Status() == vacancy.StatusPaused) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memVacancyRepo) DeleteHolidayLinks(_ context.Context, vacancyID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.links, vacancyID)
	return nil
}

func (r *memVacancyRepo) InsertHolidayLinks(_ context.Context, vacancyID uuid.UUID, holidayIDs []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[vacancyID] = append(r.links[vacancyID], holidayIDs...)
	return nil
}

func (r *memVacancyRepo) ListCompletedMissingElapsed(_ context.Context, limit int) ([]vacancy.Vacancy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []vacancy.Vacancy
	for _, v := range r.vacancies {
		for _, s := range v.Stages() {
			if s.Status() == vacancy.StageStatusCompleted && s.ElapsedBusinessDays() == nil {
				out = append(out, v)
				break
			}
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memVacancyRepo) SetStageElapsed(_ context.Context, stageID uuid.UUID, days int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vacancyID, ok := r.stageable[stageID]
	if !ok {
		return vacancy.ErrStageNotFound
	}
	v := r.vacancies[vacancyID]
	stages := v.Stages()
	for i, s := range stages {
		if s.ID() == stageID && s.ElapsedBusinessDays() == nil {
			stages[i] = s.WithElapsedBusinessDays(days)
		}
	}
	r.vacancies[vacancyID] = v.WithStages(stages)
	return nil
}

func (r *memVacancyRepo) linksOf(vacancyID uuid.UUID) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.links[vacancyID]...)
}

// --- holiday repository ---

type memHolidayRepo struct {
	mu       sync.Mutex
	holidays map[uuid.UUID]holiday.Holiday
}

func newMemHolidayRepo() *memHolidayRepo {
	return &memHolidayRepo{holidays: make(map[uuid.UUID]holiday.Holiday)}
}

func (r *memHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.holidays {
		if existing.TenantID() == h.TenantID() && existing.Name() == h.Name() && existing.Date().Equal(h.Date()) {
			return holiday.Holiday{}, holiday.ErrDuplicate
		}
	}
	id := uuid.New()
	now := time.Now()
	stored := holiday.Hydrate(id, h.TenantID(), h.Name(), h.Date(), now, now)
	r.holidays[id] = stored
	return stored, nil
}

func (r *memHolidayRepo) Update(_ context.Context, h holiday.Holiday) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.holidays[h.ID()]; !ok {
		return holiday.ErrNotFound
	}
	r.holidays[h.ID()] = h
	return nil
}

func (r *memHolidayRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.holidays[id]; !ok {
		return holiday.ErrNotFound
	}
	delete(r.holidays, id)
	return nil
}

func (r *memHolidayRepo) GetByID(_ context.Context, id uuid.UUID) (holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holidays[id]
	if !ok {
		return holiday.Holiday{}, holiday.ErrNotFound
	}
	return h, nil
}

func (r *memHolidayRepo) GetAll(ctx context.Context) ([]holiday.Holiday, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []holiday.Holiday
	for _, h := range r.holidays {
		if h.TenantID() == tenantID || h.IsNational() {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date().Before(out[j].Date()) })
	return out, nil
}

func (r *memHolidayRepo) DatesByTenant(ctx context.Context) (map[time.Time]uuid.UUID, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[time.Time]uuid.UUID)
	for _, h := range r.holidays {
		if h.IsNational() {
			out[calendar.NormalizeDay(h.Date())] = h.ID()
		}
	}
	for _, h := range r.holidays {
		if h.TenantID() == tenantID {
			out[calendar.NormalizeDay(h.Date())] = h.ID()
		}
	}
	return out, nil
}

// --- process repository ---

type memProcessRepo struct {
	mu         sync.Mutex
	processes  map[uuid.UUID]process.Process
	stageTypes map[uuid.UUID]process.StageType
}

func newMemProcessRepo() *memProcessRepo {
	return &memProcessRepo{
		processes:  make(map[uuid.UUID]process.Process),
		stageTypes: make(map[uuid.UUID]process.StageType),
	}
}

func (r *memProcessRepo) Create(_ context.Context, p process.Process) (process.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	now := time.Now()
	stages := make([]process.Stage, 0, len(p.Stages()))
	for _, s := range p.Stages() {
		slaDays := s.SLADays()
		name := s.Name()
		if st, ok := r.stageTypes[s.StageTypeID()]; ok {
			slaDays = st.SLADays()
			name = st.Name()
		}
		stages = append(stages, process.HydrateStage(uuid.New(), s.StageTypeID(), s.Order(), slaDays, name))
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].Order() < stages[j].Order() })
	stored := process.Hydrate(id, p.TenantID(), p.Name(), stages, now, now)
	r.processes[id] = stored
	return stored, nil
}

func (r *memProcessRepo) GetByID(_ context.Context, id uuid.UUID) (process.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.processes[id]
	if !ok {
		return process.Process{}, process.ErrNotFound
	}
	return p, nil
}

func (r *memProcessRepo) GetAll(_ context.Context) ([]process.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []process.Process
	for _, p := range r.processes {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProcessRepo) CreateStageType(_ context.Context, st process.StageType) (process.StageType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	now := time.Now()
	stored := process.HydrateStageType(id, st.TenantID(), st.Name(), st.SLADays(), now, now)
	r.stageTypes[id] = stored
	return stored, nil
}

func (r *memProcessRepo) GetStageTypeByID(_ context.Context, id uuid.UUID) (process.StageType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.stageTypes[id]
	if !ok {
		return process.StageType{}, process.ErrStageTypeNotFound
	}
	return st, nil
}

// --- shared fixture ---

type fixture struct {
	ctx       context.Context
	tenantID  uuid.UUID
	actorID   uuid.UUID
	vacancies *memVacancyRepo
	holidays  *memHolidayRepo
	processes *memProcessRepo

	vacancySvc *services.VacancyService
	holidaySvc *services.HolidayService
	processSvc *services.ProcessService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tenantID := uuid.New()
	vacancies := newMemVacancyRepo()
	holidays := newMemHolidayRepo()
	processes := newMemProcessRepo()
	publisher := testPublisher()

	return &fixture{
		ctx:        testContext(tenantID),
		tenantID:   tenantID,
		actorID:    uuid.New(),
		vacancies:  vacancies,
		holidays:   holidays,
		processes:  processes,
		vacancySvc: services.NewVacancyService(vacancies, processes, holidays, publisher),
		holidaySvc: services.NewHolidayService(holidays, vacancies, publisher),
		processSvc: services.NewProcessService(processes, publisher),
	}
}

// newProcess creates one stage type per SLA value and a process chaining them
// in the given order.
func (f *fixture) newProcess(t *testing.T, slas ...int) process.Process {
	t.Helper()

	stages := make([]process.Stage, 0, len(slas))
	for i, sla := range slas {
		st, err := f.processSvc.CreateStageType(f.ctx, fmt.Sprintf("Stage %d", i+1), sla)
		require.NoError(t, err)
		stages = append(stages, process.NewStage(st.ID(), i+1, st.SLADays(), st.Name()))
	}
	p, err := f.processSvc.Create(f.ctx, "Engineering hiring", stages)
	require.NoError(t, err)
	return p
}

func (f *fixture) newVacancy(t *testing.T, p process.Process, start string) vacancy.Vacancy {
	t.Helper()

	v, err := f.vacancySvc.Create(f.ctx, &vacancy.CreateDTO{
		ProcessID:    p.ID().String(),
		DepartmentID: uuid.New().String(),
		SiteID:       uuid.New().String(),
		StartDate:    start,
	}, f.actorID)
	require.NoError(t, err)
	return v
}

func day(s string) time.Time {
	return calendar.MustParseDay(s)
}
