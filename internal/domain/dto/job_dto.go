package dto

import (
	"coreapi/internal/analytics"
	"coreapi/internal/domain"

	"github.com/google/uuid"
)

// JobApplicationRequest is the body of POST and PUT on /JobApplications.
type JobApplicationRequest struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Company     string     `json:"company"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	AppliedDate Date       `json:"appliedDate"`
	City        string     `json:"city"`
	Notes       string     `json:"notes"`
}

func (req *JobApplicationRequest) ToJobApplication(userID string) *domain.JobApplication {
	job := &domain.JobApplication{UserID: userID}
	req.ApplyTo(job)
	return job
}

// ApplyTo overwrites the editable fields of job. PUT replaces the whole
// record, so empty values are applied too.
func (req *JobApplicationRequest) ApplyTo(job *domain.JobApplication) {
	job.Company = req.Company
	job.Role = req.Role
	job.Status = domain.JobStatus(req.Status)
	job.AppliedDate = req.AppliedDate.Time
	job.City = req.City
	job.Notes = req.Notes
}

// JobListQuery holds the list filters accepted as query parameters.
type JobListQuery struct {
	Status  string `form:"status"`
	City    string `form:"city"`
	Company string `form:"company"`
	Search  string `form:"search"`
	Sort    string `form:"sort"`
	Order   string `form:"order"`
}

func (q JobListQuery) Filter() analytics.Filter {
	return analytics.Filter{Status: q.Status, City: q.City, Company: q.Company, Search: q.Search}
}

func (q JobListQuery) SortKey() analytics.SortKey { return analytics.ParseSortKey(q.Sort) }

func (q JobListQuery) Descending() bool { return analytics.Descending(q.SortKey(), q.Order) }

type JobAnalyticsResponse struct {
	Jobs    []*domain.JobApplication `json:"jobs"`
	Stats   analytics.FilteredStats  `json:"stats"`
	Options analytics.FilterOptions  `json:"options"`
}

type DashboardResponse struct {
	Jobs      []*domain.JobApplication     `json:"jobs"`
	Analytics analytics.TimelineAnalytics `json:"analytics"`
	Insights  []analytics.JobSearchInsight `json:"insights"`
}
