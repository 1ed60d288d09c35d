package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coreapi/internal/analytics"
	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrIDMismatch rejects a body whose id differs from the URL.
var ErrIDMismatch = domain.NewInputError("ID mismatch")

type JobService interface {
	Create(ctx context.Context, userID string, req *dto.JobApplicationRequest) (*domain.JobApplication, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*domain.JobApplication, error)
	List(ctx context.Context, userID string, query dto.JobListQuery) ([]*domain.JobApplication, error)
	Update(ctx context.Context, userID string, id uuid.UUID, req *dto.JobApplicationRequest) (*domain.JobApplication, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	Analytics(ctx context.Context, userID string, query dto.JobListQuery) (*dto.JobAnalyticsResponse, error)
	Dashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

type jobService struct {
	jobRepo       domain.JobApplicationRepository
	milestoneRepo domain.MilestoneRepository
	now           func() time.Time
}

func NewJobService(jobRepo domain.JobApplicationRepository, milestoneRepo domain.MilestoneRepository) JobService {
	return &jobService{jobRepo: jobRepo, milestoneRepo: milestoneRepo, now: time.Now}
}

func (j *jobService) Create(ctx context.Context, userID string, req *dto.JobApplicationRequest) (*domain.JobApplication, error) {
	job := req.ToJobApplication(userID)
	job.BeforeSave()
	if err := job.Validate(); err != nil {
		return nil, err
	}

	if err := j.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job application: %w", err)
	}

	log.Info().Str("job_id", job.ID.String()).Str("user_id", userID).Msg("job application created")
	return job, nil
}

func (j *jobService) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.JobApplication, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid job application id", domain.ErrInvalidInput)
	}
	return j.jobRepo.GetByID(ctx, userID, id)
}

// List returns the caller's applications filtered and sorted per query.
// Without a sort key the newest application comes first.
func (j *jobService) List(ctx context.Context, userID string, query dto.JobListQuery) ([]*domain.JobApplication, error) {
	jobs, err := j.jobRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}

	filtered := analytics.Apply(jobs, query.Filter())
	return analytics.Sort(filtered, query.SortKey(), query.Descending()), nil
}

func (j *jobService) Update(ctx context.Context, userID string, id uuid.UUID, req *dto.JobApplicationRequest) (*domain.JobApplication, error) {
	if req.ID != nil && *req.ID != id {
		return nil, ErrIDMismatch
	}

	job, err := j.jobRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(job)
	job.BeforeSave()
	if err := job.Validate(); err != nil {
		return nil, err
	}

	if err := j.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job application: %w", err)
	}

	log.Info().Str("job_id", job.ID.String()).Msg("job application updated")
	return job, nil
}

func (j *jobService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if err := j.jobRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete job application: %w", err)
	}

	log.Info().Str("job_id", id.String()).Msg("job application deleted")
	return nil
}

func (j *jobService) Analytics(ctx context.Context, userID string, query dto.JobListQuery) (*dto.JobAnalyticsResponse, error) {
	all, err := j.jobRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}

	filtered := analytics.Sort(analytics.Apply(all, query.Filter()), query.SortKey(), query.Descending())
	return &dto.JobAnalyticsResponse{
		Jobs:    filtered,
		Stats:   analytics.Summarize(filtered, j.now()),
		Options: analytics.Options(all),
	}, nil
}

// Dashboard loads applications and milestones concurrently and derives the
// timeline analytics and insights from them.
func (j *jobService) Dashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	var (
		jobs       []*domain.JobApplication
		milestones []*domain.TimelineMilestone
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = j.jobRepo.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		milestones, err = j.milestoneRepo.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	now := j.now()
	return &dto.DashboardResponse{
		Jobs:      analytics.Sort(jobs, analytics.SortAppliedDate, true),
		Analytics: analytics.Timeline(jobs, milestones),
		Insights:  analytics.Insights(jobs, analytics.GroupByJob(milestones), now),
	}, nil
}
