package services

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/process"
	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/vacancy"
	"github.com/staffworx/recruiting/modules/recruitment/domain/calendar"
	"github.com/staffworx/recruiting/modules/recruitment/domain/entities/holiday"
	"github.com/staffworx/recruiting/pkg/composables"
	"github.com/staffworx/recruiting/pkg/eventbus"
)

type VacancyService struct {
	vacancies vacancy.Repository
	processes process.Repository
	holidays  holiday.Repository
	links     *LinkRebuilder
	publisher eventbus.EventBus
}

func NewVacancyService(
	vacancies vacancy.Repository,
	processes process.Repository,
	holidays holiday.Repository,
	publisher eventbus.EventBus,
) *VacancyService {
	return &VacancyService{
		vacancies: vacancies,
		processes: processes,
		holidays:  holidays,
		links:     NewLinkRebuilder(vacancies, holidays),
		publisher: publisher,
	}
}

// Create instantiates a process as a vacancy: it builds the full stage
// schedule from the chosen start date against the tenant's current holiday
// calendar, opens the first stage and rebuilds holiday links, all in one
// transaction.
func (s *VacancyService) Create(ctx context.Context, data *vacancy.CreateDTO, actorID uuid.UUID) (vacancy.Vacancy, error) {
	if _, ok := data.Ok(); !ok {
		return vacancy.Vacancy{}, gerrors.New("invalid vacancy payload")
	}
	processID, err := uuid.Parse(data.ProcessID)
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	departmentID, err := uuid.Parse(data.DepartmentID)
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	siteID, err := uuid.Parse(data.SiteID)
	if err != nil {
		return vacancy.Vacancy{}, err
	}
	startDate, err := calendar.ParseDay(data.StartDate)
	if err != nil {
		return vacancy.Vacancy{}, err
	}

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (vacancy.Vacancy, error) {
		tenantID, err := composables.UseTenantID(txCtx)
		if err != nil {
			return vacancy.Vacancy{}, err
		}

		proc, err := s.processes.GetByID(txCtx, processID)
		if err != nil {
			if errors.Is(err, process.ErrNotFound) {
				return vacancy.Vacancy{}, process.ErrMissingConfiguration
			}
			return vacancy.Vacancy{}, err
		}
		if len(proc.Stages()) == 0 {
			return vacancy.Vacancy{}, process.ErrMissingConfiguration
		}

		dates, err := s.holidays.DatesByTenant(txCtx)
		if err != nil {
			return vacancy.Vacancy{}, err
		}
		holidaySet := holidaySetFromDates(dates)

		slas := make([]calendar.StageSLA, 0, len(proc.Stages()))
		for _, ps := range proc.Stages() {
			slas = append(slas, calendar.StageSLA{StageID: ps.ID(), SLADays: ps.SLADays()})
		}
		windows, _ := calendar.BuildSchedule(slas, startDate, holidaySet)

		stages := make([]vacancy.Stage, 0, len(proc.Stages()))
		for i, ps := range proc.Stages() {
			st := vacancy.NewStage(ps.ID(), ps.StageTypeID(), ps.Order(), ps.SLADays(), ps.Name()).
				WithWindow(windows[i].PlannedStart, windows[i].PlannedEnd)
			if i == 0 {
				st = st.Reopened()
			}
			stages = append(stages, st)
		}

		entity := vacancy.New(tenantID, processID, departmentID, siteID, startDate, actorID).
			WithStages(stages)

		created, err := s.vacancies.Create(txCtx, entity)
		if err != nil {
			return vacancy.Vacancy{}, err
		}

		if err := s.links.Rebuild(txCtx, created); err != nil {
			return vacancy.Vacancy{}, err
		}

		s.publisher.Publish(&vacancy.CreatedEvent{Vacancy: created, ActorID: actorID})
		return created, nil
	})
}

func (s *VacancyService) GetByID(ctx context.Context, id uuid.UUID) (vacancy.Vacancy, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (vacancy.Vacancy, error) {
		return s.vacancies.GetByID(txCtx, id)
	})
}

// CompleteStage closes one stage and recalculates the remaining schedule.
//
// The chain of checks runs before any write: the vacancy must be open, the
// completion date must not precede the stage's planned start, and for any
// stage past the first the previous stage must already be completed on the
// exact day this stage was planned to start. The last check guards against
// concurrent or out-of-order completions corrupting the schedule; a second
// completion racing the first fails it on re-read.
func (s *VacancyService) CompleteStage(ctx context.Context, stageID uuid.UUID, completionDate time.Time, actorID uuid.UUID) (vacancy.Vacancy, error) {
	completionDate = calendar.NormalizeDay(completionDate)

	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (vacancy.Vacancy, error) {
		v, err := s.vacancies.GetByStageID(txCtx, stageID)
		if err != nil {
			return vacancy.Vacancy{}, err
		}
		if v.Status() != vacancy.StatusOpen {
			return vacancy.Vacancy{}, gerrors.Wrapf(vacancy.ErrInvalidTransition, "vacancy is %s", v.Status())
		}

		stages := v.Stages()
		idx := -1
		for i, st := range stages {
			if st.ID() == stageID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return vacancy.Vacancy{}, vacancy.ErrStageNotFound
		}
		target := stages[idx]

		if completionDate.Before(target.PlannedStart()) {
			return vacancy.Vacancy{}, gerrors.Wrapf(vacancy.ErrInvalidDate,
				"completion %s precedes planned start %s",
				calendar.FormatDay(completionDate), calendar.FormatDay(target.PlannedStart()))
		}

		if idx > 0 {
			prev := stages[idx-1]
			if prev.Status() != vacancy.StageStatusCompleted {
				return vacancy.Vacancy{}, gerrors.Wrapf(vacancy.ErrBrokenInvariant,
					"stage %d is not completed", prev.Order())
			}
			actual := prev.ActualCompletion()
			if actual == nil || !actual.Equal(target.PlannedStart()) {
				return vacancy.Vacancy{}, gerrors.Wrapf(vacancy.ErrBrokenInvariant,
					"stage %d completion does not chain into stage %d start", prev.Order(), target.Order())
			}
		}

		// Re-completing with the identical date skips the stage write but
		// still rebuilds the links: the rebuild is always exact.
		if !target.IsCompletedOn(completionDate) {
			target = target.Completed(completionDate)
			if err := s.vacancies.UpdateStage(txCtx, target); err != nil {
				return vacancy.Vacancy{}, err
			}
		}

		if idx < len(stages)-1 {
			if err := s.rescheduleTail(txCtx, v, stages[idx+1:], completionDate); err != nil {
				return vacancy.Vacancy{}, err
			}
			// An earlier, now-invalidated run may have closed the vacancy.
			if err := s.vacancies.UpdateStatus(txCtx, v.ID(), vacancy.StatusOpen, actorID); err != nil {
				return vacancy.Vacancy{}, err
			}
		} else {
			for i, st := range stages {
				if i == idx || st.Status() == vacancy.StageStatusCompleted {
					continue
				}
				if err := s.vacancies.UpdateStage(txCtx, st.Completed(completionDate)); err != nil {
					return vacancy.Vacancy{}, err
				}
			}
			if err := s.vacancies.UpdateStatus(txCtx, v.ID(), vacancy.StatusCompleted, actorID); err != nil {
				return vacancy.Vacancy{}, err
			}
		}

		if err := s.links.RebuildByID(txCtx, v.ID()); err != nil {
			return vacancy.Vacancy{}, err
		}

		updated, err := s.vacancies.GetByStageID(txCtx, stageID)
		if err != nil {
			return vacancy.Vacancy{}, err
		}

		s.publisher.Publish(&vacancy.StageCompletedEvent{
			VacancyID:      v.ID(),
			StageID:        stageID,
			CompletionDate: completionDate,
			ActorID:        actorID,
		})
		return updated, nil
	})
}

// rescheduleTail rebuilds the remaining stages from the actual completion
// date, not the planned one: a late completion pushes the whole tail out.
func (s *VacancyService) rescheduleTail(ctx context.Context, v vacancy.Vacancy, tail []vacancy.Stage, cursor time.Time) error {
	dates, err := s.holidays.DatesByTenant(ctx)
	if err != nil {
		return err
	}
	holidaySet := holidaySetFromDates(dates)

	slas := make([]calendar.StageSLA, 0, len(tail))
	for _, st := range tail {
		slas = append(slas, calendar.StageSLA{StageID: st.ID(), SLADays: st.SLADays()})
	}
	windows, _ := calendar.BuildSchedule(slas, cursor, holidaySet)

	for i, st := range tail {
		st = st.WithWindow(windows[i].PlannedStart, windows[i].PlannedEnd)
		if i == 0 {
			st = st.Reopened()
		} else {
			st = st.Pending()
		}
		if err := s.vacancies.UpdateStage(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// RebuildHolidayLinks recomputes the derived holiday links for one vacancy.
// Idempotent given unchanged underlying data.
func (s *VacancyService) RebuildHolidayLinks(ctx context.Context, vacancyID uuid.UUID) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		return s.links.RebuildByID(txCtx, vacancyID)
	})
}

func (s *VacancyService) Pause(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	return s.transition(ctx, id, actorID, vacancy.Vacancy.Pause)
}

func (s *VacancyService) Resume(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	return s.transition(ctx, id, actorID, vacancy.Vacancy.Resume)
}

func (s *VacancyService) Cancel(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	return s.transition(ctx, id, actorID, vacancy.Vacancy.Cancel)
}

func (s *VacancyService) transition(ctx context.Context, id uuid.UUID, actorID uuid.UUID, fn func(vacancy.Vacancy) (vacancy.Vacancy, error)) error {
	return composables.InTenantTx(ctx, func(txCtx context.Context) error {
		v, err := s.vacancies.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		next, err := fn(v)
		if err != nil {
			return err
		}
		return s.vacancies.UpdateStatus(txCtx, id, next.Status(), actorID)
	})
}

// BackfillElapsedBusinessDays fills the derived per-stage metric for
// completed vacancies that miss it. Runs out of band and only writes a
// single derived column per stage, so racing a concurrent completion is a
// harmless, idempotent correction.
func (s *VacancyService) BackfillElapsedBusinessDays(ctx context.Context, limit int) (int, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (int, error) {
		vacancies, err := s.vacancies.ListCompletedMissingElapsed(txCtx, limit)
		if err != nil {
			return 0, err
		}
		dates, err := s.holidays.DatesByTenant(txCtx)
		if err != nil {
			return 0, err
		}
		holidaySet := holidaySetFromDates(dates)

		updated := 0
		for _, v := range vacancies {
			for _, st := range v.Stages() {
				if st.Status() != vacancy.StageStatusCompleted || st.ElapsedBusinessDays() != nil {
					continue
				}
				actual := st.ActualCompletion()
				if actual == nil || st.PlannedStart().IsZero() {
					continue
				}
				days := calendar.BusinessDaysBetweenInclusive(st.PlannedStart(), *actual, holidaySet)
				if err := s.vacancies.SetStageElapsed(txCtx, st.ID(), days); err != nil {
					return updated, err
				}
				updated++
			}
		}
		return updated, nil
	})
}
