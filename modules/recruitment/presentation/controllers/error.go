package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/process"
	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/vacancy"
	"github.com/staffworx/recruiting/modules/recruitment/domain/entities/holiday"
	"github.com/staffworx/recruiting/pkg/composables"
	"github.com/staffworx/recruiting/pkg/configuration"
	"github.com/staffworx/recruiting/pkg/httpapi"
)

func requestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(configuration.Use().RequestIDHeader))
}

// writeServiceError translates domain sentinels into HTTP statuses. Anything
// unrecognized is a 500 with the detail kept out of the response body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := requestID(r)
	switch {
	case errors.Is(err, vacancy.ErrNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, reqID, "VACANCY_NOT_FOUND", "vacancy not found")
	case errors.Is(err, vacancy.ErrStageNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, reqID, "STAGE_NOT_FOUND", "stage not found")
	case errors.Is(err, process.ErrNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, reqID, "PROCESS_NOT_FOUND", "process not found")
	case errors.Is(err, process.ErrStageTypeNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, reqID, "STAGE_TYPE_NOT_FOUND", "stage type not found")
	case errors.Is(err, holiday.ErrNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, reqID, "HOLIDAY_NOT_FOUND", "holiday not found")
	case errors.Is(err, vacancy.ErrInvalidTransition):
		_ = httpapi.WriteError(w, http.StatusConflict, reqID, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, vacancy.ErrBrokenInvariant):
		_ = httpapi.WriteError(w, http.StatusConflict, reqID, "BROKEN_INVARIANT", err.Error())
	case errors.Is(err, holiday.ErrDuplicate):
		_ = httpapi.WriteError(w, http.StatusConflict, reqID, "HOLIDAY_DUPLICATE", "holiday already exists for that date")
	case errors.Is(err, vacancy.ErrInvalidDate):
		_ = httpapi.WriteError(w, http.StatusBadRequest, reqID, "INVALID_DATE", err.Error())
	case errors.Is(err, process.ErrMissingConfiguration):
		_ = httpapi.WriteError(w, http.StatusBadRequest, reqID, "MISSING_CONFIGURATION", "process has no usable stage configuration")
	case errors.Is(err, process.ErrInvalidStageOrder):
		_ = httpapi.WriteError(w, http.StatusBadRequest, reqID, "INVALID_STAGE_ORDER", err.Error())
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("unhandled service error")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, reqID, "INTERNAL", "internal error")
	}
}
