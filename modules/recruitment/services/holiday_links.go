package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/vacancy"
	"github.com/staffworx/recruiting/modules/recruitment/domain/calendar"
	"github.com/staffworx/recruiting/modules/recruitment/domain/entities/holiday"
)

// LinkRebuilder keeps the derived vacancy↔holiday link table consistent.
// Stage windows can be rewritten retroactively by cascades, so the table is
// always rebuilt whole from the current windows rather than patched.
type LinkRebuilder struct {
	vacancies vacancy.Repository
	holidays  holiday.Repository
}

func NewLinkRebuilder(vacancies vacancy.Repository, holidays holiday.Repository) *LinkRebuilder {
	return &LinkRebuilder{
		vacancies: vacancies,
		holidays:  holidays,
	}
}

// RebuildByID loads the vacancy and rebuilds its links. Must run inside the
// caller's transaction context.
func (r *LinkRebuilder) RebuildByID(ctx context.Context, vacancyID uuid.UUID) error {
	v, err := r.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return err
	}
	return r.Rebuild(ctx, v)
}

// Rebuild deletes every link for the vacancy and recreates one link per
// distinct tenant holiday falling inside a stage window. A completed stage's
// window runs to its actual completion date, an open or pending one to its
// planned end. Stages without a planned start are skipped.
func (r *LinkRebuilder) Rebuild(ctx context.Context, v vacancy.Vacancy) error {
	if err := r.vacancies.DeleteHolidayLinks(ctx, v.ID()); err != nil {
		return err
	}

	dates, err := r.holidays.DatesByTenant(ctx)
	if err != nil {
		return err
	}

	seen := make(map[uuid.UUID]struct{})
	var holidayIDs []uuid.UUID
	for _, stage := range v.Stages() {
		start := stage.PlannedStart()
		if start.IsZero() {
			continue
		}
		end := stage.PlannedEnd()
		if actual := stage.ActualCompletion(); actual != nil && stage.Status() == vacancy.StageStatusCompleted {
			end = *actual
		}
		for _, day := range calendar.EachDay(start, end) {
			id, ok := dates[day]
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			holidayIDs = append(holidayIDs, id)
		}
	}

	if len(holidayIDs) == 0 {
		return nil
	}
	return r.vacancies.InsertHolidayLinks(ctx, v.ID(), holidayIDs)
}

func holidaySetFromDates(dates map[time.Time]uuid.UUID) calendar.HolidaySet {
	set := calendar.NewHolidaySet()
	for d := range dates {
		set.Add(d)
	}
	return set
}
