package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/vacancy"
	"github.com/staffworx/recruiting/modules/recruitment/domain/calendar"
	"github.com/staffworx/recruiting/modules/recruitment/domain/entities/holiday"
	"github.com/staffworx/recruiting/pkg/composables"
	"github.com/staffworx/recruiting/pkg/eventbus"
)

type HolidayService struct {
	holidays  holiday.Repository
	vacancies vacancy.Repository
	links     *LinkRebuilder
	publisher eventbus.EventBus
}

func NewHolidayService(
	holidays holiday.Repository,
	vacancies vacancy.Repository,
	publisher eventbus.EventBus,
) *HolidayService {
	return &HolidayService{
		holidays:  holidays,
		vacancies: vacancies,
		links:     NewLinkRebuilder(vacancies, holidays),
		publisher: publisher,
	}
}

func (s *HolidayService) GetAll(ctx context.Context) ([]holiday.Holiday, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]holiday.Holiday, error) {
		return s.holidays.GetAll(txCtx)
	})
}

// Create adds a holiday and cascades the recalculation to every open or
// paused vacancy whose period covers the new date.
func (s *HolidayService) Create(ctx context.Context, name string, date time.Time) (holiday.Holiday, int, error) {
	date = calendar.NormalizeDay(date)

	created, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (holiday.Holiday, error) {
		tenantID, err := composables.UseTenantID(txCtx)
		if err != nil {
			return holiday.Holiday{}, err
		}
		return s.holidays.Create(txCtx, holiday.New(tenantID, name, date))
	})
	if err != nil {
		return holiday.Holiday{}, 0, err
	}

	// The cascade runs after the holiday write commits so each per-vacancy
	// transaction reads the updated calendar.
	affected, err := s.ReopenAndRecalculateAffected(ctx, date)
	return created, affected, err
}

// Update moves or renames a holiday. Both the previous and the new date can
// free or trap vacancy windows, so the cascade runs for each date touched.
func (s *HolidayService) Update(ctx context.Context, id uuid.UUID, name string, date time.Time) (int, error) {
	date = calendar.NormalizeDay(date)

	oldDate, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (time.Time, error) {
		existing, err := s.holidays.GetByID(txCtx, id)
		if err != nil {
			return time.Time{}, err
		}
		if err := s.holidays.Update(txCtx, existing.WithNameAndDate(name, date)); err != nil {
			return time.Time{}, err
		}
		return calendar.NormalizeDay(existing.Date()), nil
	})
	if err != nil {
		return 0, err
	}

	affected, err := s.ReopenAndRecalculateAffected(ctx, oldDate)
	if err != nil {
		return affected, err
	}
	if !date.Equal(oldDate) {
		more, err := s.ReopenAndRecalculateAffected(ctx, date)
		if err != nil {
			return affected, err
		}
		affected += more
	}
	return affected, nil
}

// Delete removes a holiday and reschedules every vacancy whose period
// covered it: the freed date shortens their calendars.
func (s *HolidayService) Delete(ctx context.Context, id uuid.UUID) (int, error) {
	oldDate, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) (time.Time, error) {
		existing, err := s.holidays.GetByID(txCtx, id)
		if err != nil {
			return time.Time{}, err
		}
		if err := s.holidays.Delete(txCtx, id); err != nil {
			return time.Time{}, err
		}
		return calendar.NormalizeDay(existing.Date()), nil
	})
	if err != nil {
		return 0, err
	}
	return s.ReopenAndRecalculateAffected(ctx, oldDate)
}

// ReopenAndRecalculateAffected finds every active open or paused vacancy
// whose real-or-planned period contains the holiday date and fully resets
// it: the schedule is rebuilt from the vacancy's original start date, every
// stage loses its completion, the first stage reopens and the vacancy is
// forced open. Coarse on purpose — re-deriving which stages were already
// past the date when it was not yet a holiday is strictly harder and more
// error prone than rebuilding from day one.
//
// Each vacancy is processed in its own transaction unless the caller already
// carries one, in which case the whole cascade joins it.
func (s *HolidayService) ReopenAndRecalculateAffected(ctx context.Context, holidayDate time.Time) (int, error) {
	holidayDate = calendar.NormalizeDay(holidayDate)

	candidates, err := composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]vacancy.Vacancy, error) {
		return s.vacancies.ListOpenOrPausedWithStages(txCtx)
	})
	if err != nil {
		return 0, err
	}

	affected := 0
	for _, v := range candidates {
		if !vacancyPeriodContains(v, holidayDate) {
			continue
		}
		if err := composables.InTenantTx(ctx, func(txCtx context.Context) error {
			return s.reset(txCtx, v)
		}); err != nil {
			return affected, err
		}
		affected++
		s.publisher.Publish(&vacancy.RescheduledEvent{VacancyID: v.ID(), HolidayDate: holidayDate})
	}
	return affected, nil
}

// reset treats the vacancy as freshly restarted: full schedule rebuild from
// its original start date against the current holiday calendar.
func (s *HolidayService) reset(ctx context.Context, v vacancy.Vacancy) error {
	dates, err := s.holidays.DatesByTenant(ctx)
	if err != nil {
		return err
	}
	holidaySet := holidaySetFromDates(dates)

	stages := v.Stages()
	slas := make([]calendar.StageSLA, 0, len(stages))
	for _, st := range stages {
		slas = append(slas, calendar.StageSLA{StageID: st.ID(), SLADays: st.SLADays()})
	}
	windows, _ := calendar.BuildSchedule(slas, v.StartDate(), holidaySet)

	for i, st := range stages {
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

	if err := s.vacancies.UpdateStatus(ctx, v.ID(), vacancy.StatusOpen, v.UpdatedBy()); err != nil {
		return err
	}

	return s.links.RebuildByID(ctx, v.ID())
}

// vacancyPeriodContains reports whether the vacancy's overall period — the
// earliest planned start through the latest actual-or-planned end across its
// stages — covers the date.
func vacancyPeriodContains(v vacancy.Vacancy, date time.Time) bool {
	var periodStart, periodEnd time.Time
	for _, st := range v.Stages() {
		start := st.PlannedStart()
		if start.IsZero() {
			continue
		}
		if periodStart.IsZero() || start.Before(periodStart) {
			periodStart = start
		}
		end := st.PlannedEnd()
		if actual := st.ActualCompletion(); actual != nil {
			end = *actual
		}
		if end.After(periodEnd) {
			periodEnd = end
		}
	}
	if periodStart.IsZero() {
		return false
	}
	return !date.Before(periodStart) && !date.After(periodEnd)
}
