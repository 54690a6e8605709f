package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/process"
	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/vacancy"
	"github.com/staffworx/recruiting/modules/recruitment/domain/calendar"
	"github.com/staffworx/recruiting/modules/recruitment/presentation/viewmodels"
	"github.com/staffworx/recruiting/modules/recruitment/services"
	"github.com/staffworx/recruiting/pkg/application"
	"github.com/staffworx/recruiting/pkg/composables"
	"github.com/staffworx/recruiting/pkg/httpapi"
	"github.com/staffworx/recruiting/pkg/middleware"
)

type RecruitmentAPIController struct {
	app       application.Application
	vacancies *services.VacancyService
	holidays  *services.HolidayService
	processes *services.ProcessService
	apiPrefix string
}

func NewRecruitmentAPIController(app application.Application) application.Controller {
	return &RecruitmentAPIController{
		app:       app,
		vacancies: app.Service(services.VacancyService{}).(*services.VacancyService),
		holidays:  app.Service(services.HolidayService{}).(*services.HolidayService),
		processes: app.Service(services.ProcessService{}).(*services.ProcessService),
		apiPrefix: "/recruitment/api",
	}
}

func (c *RecruitmentAPIController) Key() string {
	return c.apiPrefix
}

func (c *RecruitmentAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()
	api.Use(
		middleware.ProvideTenant(),
	)

	api.HandleFunc("/vacancies", c.CreateVacancy).Methods(http.MethodPost)
	api.HandleFunc("/vacancies/{id}", c.GetVacancy).Methods(http.MethodGet)
	api.HandleFunc("/vacancies/{id}:pause", c.PauseVacancy).Methods(http.MethodPost)
	api.HandleFunc("/vacancies/{id}:resume", c.ResumeVacancy).Methods(http.MethodPost)
	api.HandleFunc("/vacancies/{id}:cancel", c.CancelVacancy).Methods(http.MethodPost)
	api.HandleFunc("/vacancies/{id}:rebuild-links", c.RebuildLinks).Methods(http.MethodPost)

	api.HandleFunc("/stages/{id}:complete", c.CompleteStage).Methods(http.MethodPost)

	api.HandleFunc("/holidays", c.ListHolidays).Methods(http.MethodGet)
	api.HandleFunc("/holidays", c.CreateHoliday).Methods(http.MethodPost)
	api.HandleFunc("/holidays/{id}", c.UpdateHoliday).Methods(http.MethodPatch)
	api.HandleFunc("/holidays/{id}", c.DeleteHoliday).Methods(http.MethodDelete)

	api.HandleFunc("/processes", c.ListProcesses).Methods(http.MethodGet)
	api.HandleFunc("/processes", c.CreateProcess).Methods(http.MethodPost)
	api.HandleFunc("/processes/{id}", c.GetProcess).Methods(http.MethodGet)
	api.HandleFunc("/stage-types", c.CreateStageType).Methods(http.MethodPost)
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	return id, err == nil
}

func actorFrom(r *http.Request) uuid.UUID {
	actorID, err := composables.UseActorID(r.Context())
	if err != nil {
		return uuid.Nil
	}
	return actorID
}

func (c *RecruitmentAPIController) CreateVacancy(w http.ResponseWriter, r *http.Request) {
	dto := &vacancy.CreateDTO{}
	if err := httpapi.DecodeJSON(r.Body, dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_BODY", "malformed JSON body")
		return
	}
	dto.Normalize()
	if fields, ok := dto.Ok(); !ok {
		_ = httpapi.WriteFieldErrors(w, requestID(r), fields)
		return
	}

	created, err := c.vacancies.Create(r.Context(), dto, actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, viewmodels.VacancyFromEntity(created))
}

func (c *RecruitmentAPIController) GetVacancy(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_ID", "id is not a valid UUID")
		return
	}
	v, err := c.vacancies.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.VacancyFromEntity(v))
}

func (c *RecruitmentAPIController) PauseVacancy(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.vacancies.Pause)
}

func (c *RecruitmentAPIController) ResumeVacancy(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.vacancies.Resume)
}

func (c *RecruitmentAPIController) CancelVacancy(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.vacancies.Cancel)
}

func (c *RecruitmentAPIController) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, id, actorID uuid.UUID) error,
) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_ID", "id is not a valid UUID")
		return
	}
	if err := fn(r.Context(), id, actorFrom(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	v, err := c.vacancies.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.VacancyFromEntity(v))
}

func (c *RecruitmentAPIController) RebuildLinks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_ID", "id is not a valid UUID")
		return
	}
	if err := c.vacancies.RebuildHolidayLinks(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeStageRequest struct {
	CompletionDate string `json:"completion_date"`
}

func (c *RecruitmentAPIController) CompleteStage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_ID", "id is not a valid UUID")
		return
	}
	var body completeStageRequest
	if err := httpapi.DecodeJSON(r.Body, &body); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_BODY", "malformed JSON body")
		return
	}
	completionDate, err := calendar.ParseDay(body.CompletionDate)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_DATE", "completion_date must be YYYY-MM-DD")
		return
	}

	v, err := c.vacancies.CompleteStage(r.Context(), id, completionDate, actorFrom(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.VacancyFromEntity(v))
}

type holidayRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type holidayResponse struct {
	Holiday  *viewmodels.Holiday `json:"holiday,omitempty"`
	Affected int                 `json:"affected_vacancies"`
}

func (c *RecruitmentAPIController) ListHolidays(w http.ResponseWriter, r *http.Request) {
	all, err := c.holidays.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]viewmodels.Holiday, 0, len(all))
	for _, h := range all {
		out = append(out, viewmodels.HolidayFromEntity(h))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *RecruitmentAPIController) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	name, date, ok := c.parseHolidayBody(w, r)
	if !ok {
		return
	}
	created, affected, err := c.holidays.Create(r.Context(), name, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	vm := viewmodels.HolidayFromEntity(created)
	_ = httpapi.WriteJSON(w, http.StatusCreated, holidayResponse{Holiday: &vm, Affected: affected})
}

func (c *RecruitmentAPIController) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_ID", "id is not a valid UUID")
		return
	}
	name, date, ok := c.parseHolidayBody(w, r)
	if !ok {
		return
	}
	affected, err := c.holidays.Update(r.Context(), id, name, date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, holidayResponse{Affected: affected})
}

func (c *RecruitmentAPIController) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_ID", "id is not a valid UUID")
		return
	}
	affected, err := c.holidays.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, holidayResponse{Affected: affected})
}

func (c *RecruitmentAPIController) parseHolidayBody(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	var body holidayRequest
	if err := httpapi.DecodeJSON(r.Body, &body); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_BODY", "malformed JSON body")
		return "", time.Time{}, false
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		_ = httpapi.WriteFieldErrors(w, requestID(r), map[string]string{"name": "required"})
		return "", time.Time{}, false
	}
	date, err := calendar.ParseDay(body.Date)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_DATE", "date must be YYYY-MM-DD")
		return "", time.Time{}, false
	}
	return body.Name, date, true
}

type processStageRequest struct {
	StageTypeID string `json:"stage_type_id"`
	Order       int    `json:"order"`
}

type processRequest struct {
	Name   string                `json:"name"`
	Stages []processStageRequest `json:"stages"`
}

func (c *RecruitmentAPIController) ListProcesses(w http.ResponseWriter, r *http.Request) {
	all, err := c.processes.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]viewmodels.Process, 0, len(all))
	for _, p := range all {
		out = append(out, viewmodels.ProcessFromEntity(p))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *RecruitmentAPIController) GetProcess(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_ID", "id is not a valid UUID")
		return
	}
	p, err := c.processes.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, viewmodels.ProcessFromEntity(p))
}

func (c *RecruitmentAPIController) CreateProcess(w http.ResponseWriter, r *http.Request) {
	var body processRequest
	if err := httpapi.DecodeJSON(r.Body, &body); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_BODY", "malformed JSON body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		_ = httpapi.WriteFieldErrors(w, requestID(r), map[string]string{"name": "required"})
		return
	}

	// Stage SLA and display name come from the stage type at creation time;
	// the repository joins them back when reading.
	stages := make([]process.Stage, 0, len(body.Stages))
	for i, s := range body.Stages {
		stageTypeID, err := uuid.Parse(s.StageTypeID)
		if err != nil {
			_ = httpapi.WriteFieldErrors(w, requestID(r), map[string]string{
				fmt.Sprintf("stages[%d].stage_type_id", i): "must be a UUID",
			})
			return
		}
		stages = append(stages, process.NewStage(stageTypeID, s.Order, 0, ""))
	}

	created, err := c.processes.Create(r.Context(), body.Name, stages)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, viewmodels.ProcessFromEntity(created))
}

type stageTypeRequest struct {
	Name    string `json:"name"`
	SLADays int    `json:"sla_days"`
}

func (c *RecruitmentAPIController) CreateStageType(w http.ResponseWriter, r *http.Request) {
	var body stageTypeRequest
	if err := httpapi.DecodeJSON(r.Body, &body); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, requestID(r), "INVALID_BODY", "malformed JSON body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		_ = httpapi.WriteFieldErrors(w, requestID(r), map[string]string{"name": "required"})
		return
	}

	created, err := c.processes.CreateStageType(r.Context(), body.Name, body.SLADays)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, viewmodels.StageTypeFromEntity(created))
}
