package vacancy

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/staffworx/recruiting/pkg/constants"
)

type CreateDTO struct {
	ProcessID    string `json:"process_id" validate:"required,uuid4"`
	DepartmentID string `json:"department_id" validate:"required,uuid4"`
	SiteID       string `json:"site_id" validate:"required,uuid4"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
}

func (d *CreateDTO) Normalize() {
	d.ProcessID = strings.TrimSpace(d.ProcessID)
	d.DepartmentID = strings.TrimSpace(d.DepartmentID)
	d.SiteID = strings.TrimSpace(d.SiteID)
	d.StartDate = strings.TrimSpace(d.StartDate)
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	errs := constants.Validate.Struct(d)
	if errs == nil {
		return map[string]string{}, true
	}

	fieldErrors := make(map[string]string)
	for _, err := range errs.(validator.ValidationErrors) {
		fieldErrors[err.Field()] = err.Error()
	}
	return fieldErrors, false
}
