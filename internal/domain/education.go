package domain

import (
	"encoding/json"
	"time"
)

type Education struct {
	SectionBase
	Institution  string     `json:"institution" validate:"required,max=200"`
	Degree       string     `json:"degree" validate:"required,max=100"`
	FieldOfStudy string     `json:"fieldOfStudy" validate:"max=100"`
	StartDate    time.Time  `json:"startDate" validate:"required"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Description  string     `json:"description" validate:"max=1000"`
}

func (e *Education) BeforeSave() {
	clean(&e.Institution, &e.Degree, &e.FieldOfStudy, &e.Description)
	e.stamp()
}

func (e *Education) Validate() error { return ValidateStruct(e) }

func (e *Education) dateRange() (time.Time, *time.Time) { return e.StartDate, e.EndDate }

func (e *Education) UnmarshalJSON(b []byte) error {
	type plain Education
	aux := struct {
		*plain
		StartDate dateField         `json:"startDate"`
		EndDate   optionalDateField `json:"endDate"`
	}{plain: (*plain)(e), StartDate: dateField{&e.StartDate}, EndDate: optionalDateField{&e.EndDate}}
	return json.Unmarshal(b, &aux)
}
