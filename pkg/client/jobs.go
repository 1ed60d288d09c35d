package client

import (
	"context"
	"net/http"
	"net/url"

	"coreapi/internal/analytics"
	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	jobsPath       = "/api/core/JobApplications"
	milestonesPath = "/api/core/TimelineMilestones"
)

func jobQueryValues(q dto.JobListQuery) url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("status", q.Status)
	set("city", q.City)
	set("company", q.Company)
	set("search", q.Search)
	set("sort", q.Sort)
	set("order", q.Order)
	return v
}

func (c *Client) FetchJobApplications(ctx context.Context, q dto.JobListQuery) ([]*domain.JobApplication, error) {
	var jobs []*domain.JobApplication
	err := c.do(ctx, http.MethodGet, jobsPath, jobQueryValues(q), nil, &jobs, "Failed to fetch job applications")
	return jobs, err
}

func (c *Client) GetJobApplication(ctx context.Context, id uuid.UUID) (*domain.JobApplication, error) {
	var job domain.JobApplication
	if err := c.do(ctx, http.MethodGet, jobsPath+"/"+id.String(), nil, nil, &job, "Failed to fetch job application"); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) CreateJobApplication(ctx context.Context, req dto.JobApplicationRequest) (*domain.JobApplication, error) {
	var job domain.JobApplication
	if err := c.do(ctx, http.MethodPost, jobsPath, nil, req, &job, "Failed to create job application"); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJobApplication replaces the record. The server answers 204.
func (c *Client) UpdateJobApplication(ctx context.Context, id uuid.UUID, req dto.JobApplicationRequest) error {
	req.ID = &id
	return c.do(ctx, http.MethodPut, jobsPath+"/"+id.String(), nil, req, nil, "Failed to update job application")
}

func (c *Client) DeleteJobApplication(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, jobsPath+"/"+id.String(), nil, nil, nil, "Failed to delete job application")
}

// FetchJobAnalytics returns the filtered list with its statistics and the
// distinct filter options.
func (c *Client) FetchJobAnalytics(ctx context.Context, q dto.JobListQuery) (*dto.JobAnalyticsResponse, error) {
	var out dto.JobAnalyticsResponse
	if err := c.do(ctx, http.MethodGet, jobsPath+"/analytics", jobQueryValues(q), nil, &out, "Failed to fetch job analytics"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchMilestones(ctx context.Context, jobID uuid.UUID) ([]*domain.TimelineMilestone, error) {
	var out []*domain.TimelineMilestone
	err := c.do(ctx, http.MethodGet, milestonesPath+"/job/"+jobID.String(), nil, nil, &out, "Failed to fetch milestones")
	return out, err
}

func (c *Client) GetMilestone(ctx context.Context, id uuid.UUID) (*domain.TimelineMilestone, error) {
	var m domain.TimelineMilestone
	if err := c.do(ctx, http.MethodGet, milestonesPath+"/"+id.String(), nil, nil, &m, "Failed to fetch milestone"); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) CreateMilestone(ctx context.Context, req dto.MilestoneRequest) (*domain.TimelineMilestone, error) {
	var m domain.TimelineMilestone
	if err := c.do(ctx, http.MethodPost, milestonesPath, nil, req, &m, "Failed to create milestone"); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) UpdateMilestone(ctx context.Context, id uuid.UUID, req dto.MilestoneRequest) (*domain.TimelineMilestone, error) {
	req.ID = &id
	var m domain.TimelineMilestone
	if err := c.do(ctx, http.MethodPut, milestonesPath+"/"+id.String(), nil, req, &m, "Failed to update milestone"); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) DeleteMilestone(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, milestonesPath+"/"+id.String(), nil, nil, nil, "Failed to delete milestone")
}

func (c *Client) FetchTimelineAnalytics(ctx context.Context) (*analytics.TimelineAnalytics, error) {
	var out analytics.TimelineAnalytics
	if err := c.do(ctx, http.MethodGet, milestonesPath+"/analytics", nil, nil, &out, "Failed to fetch timeline analytics"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchProgress(ctx context.Context, jobID uuid.UUID) (*analytics.TimelineProgress, error) {
	var out analytics.TimelineProgress
	if err := c.do(ctx, http.MethodGet, milestonesPath+"/progress/"+jobID.String(), nil, nil, &out, "Failed to fetch timeline progress"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchInsights(ctx context.Context) ([]analytics.JobSearchInsight, error) {
	var out []analytics.JobSearchInsight
	err := c.do(ctx, http.MethodGet, milestonesPath+"/insights", nil, nil, &out, "Failed to fetch insights")
	return out, err
}

// Dashboard is the data behind the job tracker's landing page.
type Dashboard struct {
	Jobs      []*domain.JobApplication
	Analytics *analytics.TimelineAnalytics
	Insights  []analytics.JobSearchInsight
}

// LoadDashboard fetches jobs, timeline analytics and insights concurrently.
// The first failure cancels the other calls.
func (c *Client) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		jobs, err := c.FetchJobApplications(gctx, dto.JobListQuery{})
		d.Jobs = jobs
		return err
	})
	g.Go(func() error {
		a, err := c.FetchTimelineAnalytics(gctx)
		d.Analytics = a
		return err
	})
	g.Go(func() error {
		insights, err := c.FetchInsights(gctx)
		d.Insights = insights
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
