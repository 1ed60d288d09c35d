package service

import (
	"context"
	"fmt"

	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type ResumeService interface {
	List(ctx context.Context, caller *domain.AuthInfo, query dto.ResumeListQuery) ([]*domain.Resume, error)
	Get(ctx context.Context, caller *domain.AuthInfo, id uuid.UUID) (*domain.ResumeDetail, error)
	Create(ctx context.Context, caller *domain.AuthInfo, req *dto.ResumeRequest) (*domain.Resume, error)
	Update(ctx context.Context, caller *domain.AuthInfo, id uuid.UUID, req *dto.ResumeRequest) (*domain.Resume, error)
	Delete(ctx context.Context, caller *domain.AuthInfo, id uuid.UUID) error
}

type resumeService struct {
	resumeRepo domain.ResumeRepository
	sections   *domain.SectionRepositories
}

func NewResumeService(resumeRepo domain.ResumeRepository, sections *domain.SectionRepositories) ResumeService {
	return &resumeService{resumeRepo: resumeRepo, sections: sections}
}

// authorizeResume loads a resume and checks the caller may modify it.
func authorizeResume(ctx context.Context, repo domain.ResumeRepository, caller *domain.AuthInfo, id uuid.UUID) (*domain.Resume, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	resume, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !resume.OwnedBy(caller.UserID.String(), caller.IsAdmin()) {
		return nil, domain.ErrForbidden
	}
	return resume, nil
}

func (s *resumeService) List(ctx context.Context, caller *domain.AuthInfo, query dto.ResumeListQuery) ([]*domain.Resume, error) {
	all := caller.IsAdmin() && !query.MyResumes
	return s.resumeRepo.List(ctx, caller.UserID.String(), all)
}

// Get returns the resume with every section loaded.
func (s *resumeService) Get(ctx context.Context, caller *domain.AuthInfo, id uuid.UUID) (*domain.ResumeDetail, error) {
	resume, err := authorizeResume(ctx, s.resumeRepo, caller, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.ResumeDetail{Resume: *resume}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(loadSection(gctx, s.sections.WorkExperiences, id, &detail.WorkExperiences))
	g.Go(loadSection(gctx, s.sections.Skills, id, &detail.Skills))
	g.Go(loadSection(gctx, s.sections.Educations, id, &detail.Educations))
	g.Go(loadSection(gctx, s.sections.Certificates, id, &detail.Certificates))
	g.Go(loadSection(gctx, s.sections.Projects, id, &detail.Projects))
	g.Go(loadSection(gctx, s.sections.SocialLinks, id, &detail.SocialLinks))
	g.Go(loadSection(gctx, s.sections.Languages, id, &detail.Languages))
	g.Go(loadSection(gctx, s.sections.Awards, id, &detail.Awards))
	g.Go(loadSection(gctx, s.sections.References, id, &detail.References))
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load resume sections: %w", err)
	}
	return detail, nil
}

func loadSection[P domain.Section](ctx context.Context, repo domain.SectionRepository[P], resumeID uuid.UUID, dst *[]P) func() error {
	return func() error {
		items, err := repo.List(ctx, resumeID)
		if err != nil {
			return err
		}
		if items == nil {
			items = []P{}
		}
		*dst = items
		return nil
	}
}

func (s *resumeService) Create(ctx context.Context, caller *domain.AuthInfo, req *dto.ResumeRequest) (*domain.Resume, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	resume := req.ToResume(caller.UserID.String())
	resume.BeforeSave()
	if err := resume.Validate(); err != nil {
		return nil, err
	}

	if err := s.resumeRepo.Create(ctx, resume); err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}

	log.Info().Str("resume_id", resume.ID.String()).Str("user_id", resume.UserID).Msg("resume created")
	return resume, nil
}

func (s *resumeService) Update(ctx context.Context, caller *domain.AuthInfo, id uuid.UUID, req *dto.ResumeRequest) (*domain.Resume, error) {
	resume, err := authorizeResume(ctx, s.resumeRepo, caller, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(resume)
	resume.BeforeSave()
	if err := resume.Validate(); err != nil {
		return nil, err
	}

	if err := s.resumeRepo.Update(ctx, resume); err != nil {
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return resume, nil
}

func (s *resumeService) Delete(ctx context.Context, caller *domain.AuthInfo, id uuid.UUID) error {
	if _, err := authorizeResume(ctx, s.resumeRepo, caller, id); err != nil {
		return err
	}
	if err := s.resumeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}

	log.Info().Str("resume_id", id.String()).Msg("resume deleted")
	return nil
}
