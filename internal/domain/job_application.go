package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusApplied   JobStatus = "Applied"
	JobStatusInterview JobStatus = "Interview"
	JobStatusOffer     JobStatus = "Offer"
	JobStatusRejected  JobStatus = "Rejected"
)

var jobStatuses = []JobStatus{JobStatusApplied, JobStatusInterview, JobStatusOffer, JobStatusRejected}

func JobStatuses() []JobStatus {
	out := make([]JobStatus, len(jobStatuses))
	copy(out, jobStatuses)
	return out
}

func IsValidJobStatus(s JobStatus) bool {
	for _, known := range jobStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func jobStatusNames() []string {
	names := make([]string, len(jobStatuses))
	for i, s := range jobStatuses {
		names[i] = string(s)
	}
	return names
}

// JobApplication is one tracked application. Rows are always scoped to UserID.
type JobApplication struct {
	ID          uuid.UUID  `json:"id"`
	UserID      string     `json:"-"`
	Company     string     `json:"company" validate:"max=200"`
	Role        string     `json:"role" validate:"max=200"`
	Status      JobStatus  `json:"status" validate:"job_status"`
	AppliedDate time.Time  `json:"appliedDate"`
	City        string     `json:"city,omitempty" validate:"max=100"`
	Notes       string     `json:"notes,omitempty" validate:"max=4000"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// BeforeSave normalizes user input and stamps timestamps.
func (j *JobApplication) BeforeSave() {
	clean(&j.Company, &j.Role, &j.City, &j.Notes)
	if j.Status == "" {
		j.Status = JobStatusApplied
	}

	now := time.Now().UTC()
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	} else {
		j.UpdatedAt = &now
	}
}

// Validate reports the same messages the job form shows inline.
func (j *JobApplication) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(j.Company) == "" {
		errs = append(errs, ValidationError{Field: "company", Message: "Company is required", Type: ErrRequired})
	}
	if strings.TrimSpace(j.Role) == "" {
		errs = append(errs, ValidationError{Field: "role", Message: "Role is required", Type: ErrRequired})
	}
	if j.AppliedDate.IsZero() {
		errs = append(errs, ValidationError{Field: "appliedDate", Message: "Applied date is required", Type: ErrRequired})
	}

	if err := ValidateStruct(j); err != nil {
		tagErrs, ok := err.(ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, tagErrs...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LastActivity is the most recent write to the application.
func (j *JobApplication) LastActivity() time.Time {
	if j.UpdatedAt != nil {
		return *j.UpdatedAt
	}
	return j.CreatedAt
}

// DaysSinceApplied counts whole days between the applied date and now.
func (j *JobApplication) DaysSinceApplied(now time.Time) int {
	if j.AppliedDate.IsZero() {
		return 0
	}
	return int(now.Sub(j.AppliedDate).Hours() / 24)
}
