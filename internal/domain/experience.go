package domain

import (
	"encoding/json"
	"time"
)

type WorkExperience struct {
	SectionBase
	JobTitle     string     `json:"jobTitle" validate:"required,max=100"`
	CompanyName  string     `json:"companyName" validate:"required,max=100"`
	Location     string     `json:"location" validate:"max=100"`
	StartDate    time.Time  `json:"startDate" validate:"required"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	IsCurrent    bool       `json:"isCurrent"`
	Description  string     `json:"description" validate:"max=2000"`
	Achievements []string   `json:"achievements" validate:"max=20,dive,max=500"`
	SortOrder    int        `json:"sortOrder"`
	Highlighted  bool       `json:"highlighted"`
}

func (e *WorkExperience) BeforeSave() {
	clean(&e.JobTitle, &e.CompanyName, &e.Location, &e.Description)
	e.Achievements = defaultSanitizer.SanitizeStrings(e.Achievements...)
	if e.IsCurrent {
		e.EndDate = nil
	}
	e.stamp()
}

func (e *WorkExperience) Validate() error { return ValidateStruct(e) }

func (e *WorkExperience) dateRange() (time.Time, *time.Time) { return e.StartDate, e.EndDate }

func (e *WorkExperience) UnmarshalJSON(b []byte) error {
	type plain WorkExperience
	aux := struct {
		*plain
		StartDate dateField         `json:"startDate"`
		EndDate   optionalDateField `json:"endDate"`
	}{plain: (*plain)(e), StartDate: dateField{&e.StartDate}, EndDate: optionalDateField{&e.EndDate}}
	return json.Unmarshal(b, &aux)
}
