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
)

// ErrJobAccessDenied is returned when a milestone names a job the caller
// does not own.
var ErrJobAccessDenied = domain.NewInputError("Job application not found or access denied")

type MilestoneService interface {
	ListByJob(ctx context.Context, userID string, jobID uuid.UUID) ([]*domain.TimelineMilestone, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*domain.TimelineMilestone, error)
	Create(ctx context.Context, userID string, req *dto.MilestoneRequest) (*domain.TimelineMilestone, error)
	Update(ctx context.Context, userID string, id uuid.UUID, req *dto.MilestoneRequest) (*domain.TimelineMilestone, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error

	Analytics(ctx context.Context, userID string) (*analytics.TimelineAnalytics, error)
	Progress(ctx context.Context, userID string, jobID uuid.UUID) (*analytics.TimelineProgress, error)
	Insights(ctx context.Context, userID string) ([]analytics.JobSearchInsight, error)
}

type milestoneService struct {
	jobRepo       domain.JobApplicationRepository
	milestoneRepo domain.MilestoneRepository
	now           func() time.Time
}

func NewMilestoneService(jobRepo domain.JobApplicationRepository, milestoneRepo domain.MilestoneRepository) MilestoneService {
	return &milestoneService{jobRepo: jobRepo, milestoneRepo: milestoneRepo, now: time.Now}
}

func (s *milestoneService) ListByJob(ctx context.Context, userID string, jobID uuid.UUID) ([]*domain.TimelineMilestone, error) {
	if _, err := s.jobRepo.GetByID(ctx, userID, jobID); err != nil {
		return nil, err
	}
	return s.milestoneRepo.ListByJob(ctx, jobID)
}

func (s *milestoneService) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.TimelineMilestone, error) {
	return s.milestoneRepo.GetForUser(ctx, userID, id)
}

func (s *milestoneService) Create(ctx context.Context, userID string, req *dto.MilestoneRequest) (*domain.TimelineMilestone, error) {
	m := req.ToMilestone()
	m.BeforeSave()
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.jobRepo.GetByID(ctx, userID, m.JobApplicationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrJobAccessDenied
		}
		return nil, err
	}

	if err := s.milestoneRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}
	s.touchJob(ctx, m.JobApplicationID)

	log.Info().Str("milestone_id", m.ID.String()).Str("job_id", m.JobApplicationID.String()).Msg("milestone created")
	return m, nil
}

func (s *milestoneService) Update(ctx context.Context, userID string, id uuid.UUID, req *dto.MilestoneRequest) (*domain.TimelineMilestone, error) {
	if req.ID != nil && *req.ID != id {
		return nil, ErrIDMismatch
	}

	m, err := s.milestoneRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(m)
	m.BeforeSave()
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if err := s.milestoneRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update milestone: %w", err)
	}
	s.touchJob(ctx, m.JobApplicationID)
	return m, nil
}

func (s *milestoneService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	m, err := s.milestoneRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.milestoneRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	s.touchJob(ctx, m.JobApplicationID)
	return nil
}

// touchJob bumps the parent job's updatedAt. A failure here does not undo
// the milestone write.
func (s *milestoneService) touchJob(ctx context.Context, jobID uuid.UUID) {
	if err := s.jobRepo.Touch(ctx, jobID, s.now().UTC()); err != nil {
		log.Warn().Err(err).Str("job_id", jobID.String()).Msg("failed to touch job application")
	}
}

func (s *milestoneService) Analytics(ctx context.Context, userID string) (*analytics.TimelineAnalytics, error) {
	jobs, err := s.jobRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestoneRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := analytics.Timeline(jobs, milestones)
	return &result, nil
}

func (s *milestoneService) Progress(ctx context.Context, userID string, jobID uuid.UUID) (*analytics.TimelineProgress, error) {
	job, err := s.jobRepo.GetByID(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestoneRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	progress := analytics.Progress(job, milestones, s.now())
	return &progress, nil
}

func (s *milestoneService) Insights(ctx context.Context, userID string) ([]analytics.JobSearchInsight, error) {
	jobs, err := s.jobRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestoneRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.Insights(jobs, analytics.GroupByJob(milestones), s.now()), nil
}
