package viewmodels

import (
	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/process"
	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/vacancy"
	"github.com/staffworx/recruiting/modules/recruitment/domain/calendar"
	"github.com/staffworx/recruiting/modules/recruitment/domain/entities/holiday"
)

// Dates cross the API boundary as YYYY-MM-DD strings; timestamps as RFC 3339.

type Stage struct {
	ID                  string  `json:"id"`
	Order               int     `json:"order"`
	Name                string  `json:"name"`
	SLADays             int     `json:"sla_days"`
	Status              string  `json:"status"`
	PlannedStart        string  `json:"planned_start"`
	PlannedEnd          string  `json:"planned_end"`
	ActualCompletion    *string `json:"actual_completion,omitempty"`
	ElapsedBusinessDays *int    `json:"elapsed_business_days,omitempty"`
}

type Vacancy struct {
	ID           string  `json:"id"`
	ProcessID    string  `json:"process_id"`
	DepartmentID string  `json:"department_id"`
	SiteID       string  `json:"site_id"`
	StartDate    string  `json:"start_date"`
	Status       string  `json:"status"`
	Stages       []Stage `json:"stages"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type Holiday struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	National bool   `json:"national"`
}

type ProcessStage struct {
	ID          string `json:"id"`
	StageTypeID string `json:"stage_type_id"`
	Order       int    `json:"order"`
	SLADays     int    `json:"sla_days"`
	Name        string `json:"name"`
}

type Process struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Stages []ProcessStage `json:"stages"`
}

type StageType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SLADays int    `json:"sla_days"`
}

func StageFromEntity(s vacancy.Stage) Stage {
	out := Stage{
		ID:                  s.ID().String(),
		Order:               s.Order(),
		Name:                s.Name(),
		SLADays:             s.SLADays(),
		Status:              string(s.Status()),
		PlannedStart:        calendar.FormatDay(s.PlannedStart()),
		PlannedEnd:          calendar.FormatDay(s.PlannedEnd()),
		ElapsedBusinessDays: s.ElapsedBusinessDays(),
	}
	if actual := s.ActualCompletion(); actual != nil {
		formatted := calendar.FormatDay(*actual)
		out.ActualCompletion = &formatted
	}
	return out
}

func VacancyFromEntity(v vacancy.Vacancy) Vacancy {
	stages := make([]Stage, 0, len(v.Stages()))
	for _, s := range v.Stages() {
		stages = append(stages, StageFromEntity(s))
	}
	return Vacancy{
		ID:           v.ID().String(),
		ProcessID:    v.ProcessID().String(),
		DepartmentID: v.DepartmentID().String(),
		SiteID:       v.SiteID().String(),
		StartDate:    calendar.FormatDay(v.StartDate()),
		Status:       string(v.Status()),
		Stages:       stages,
		CreatedAt:    v.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    v.UpdatedAt().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func HolidayFromEntity(h holiday.Holiday) Holiday {
	return Holiday{
		ID:       h.ID().String(),
		Name:     h.Name(),
		Date:     calendar.FormatDay(h.Date()),
		National: h.IsNational(),
	}
}

func ProcessFromEntity(p process.Process) Process {
	stages := make([]ProcessStage, 0, len(p.Stages()))
	for _, s := range p.Stages() {
		stages = append(stages, ProcessStage{
			ID:          s.ID().String(),
			StageTypeID: s.StageTypeID().String(),
			Order:       s.Order(),
			SLADays:     s.SLADays(),
			Name:        s.Name(),
		})
	}
	return Process{
		ID:     p.ID().String(),
		Name:   p.Name(),
		Stages: stages,
	}
}

func StageTypeFromEntity(st process.StageType) StageType {
	return StageType{
		ID:      st.ID().String(),
		Name:    st.Name(),
		SLADays: st.SLADays(),
	}
}
