package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coreapi/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SectionService manages one kind of resume section. Reads are public,
// writes require the resume owner or an admin.
type SectionService[P domain.Section] struct {
	kind    domain.SectionKind
	resumes domain.ResumeRepository
	repo    domain.SectionRepository[P]

	// checkCreate may reject a new section given the existing ones.
	checkCreate func(existing []P, candidate P) error
}

func NewSectionService[P domain.Section](kind domain.SectionKind, resumes domain.ResumeRepository, repo domain.SectionRepository[P]) *SectionService[P] {
	return &SectionService[P]{kind: kind, resumes: resumes, repo: repo}
}

func (s *SectionService[P]) Kind() domain.SectionKind { return s.kind }

func (s *SectionService[P]) List(ctx context.Context, resumeID uuid.UUID) ([]P, error) {
	if _, err := s.resumes.GetByID(ctx, resumeID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, resumeID)
}

func (s *SectionService[P]) Get(ctx context.Context, resumeID, id uuid.UUID) (P, error) {
	return s.repo.Get(ctx, resumeID, id)
}

func (s *SectionService[P]) Create(ctx context.Context, caller *domain.AuthInfo, resumeID uuid.UUID, section P) (P, error) {
	var zero P
	if _, err := authorizeResume(ctx, s.resumes, caller, resumeID); err != nil {
		return zero, err
	}

	base := section.Base()
	base.ID = uuid.Nil
	base.ResumeID = resumeID
	base.CreatedAt = time.Time{}
	section.BeforeSave()
	if err := section.Validate(); err != nil {
		return zero, err
	}

	if s.checkCreate != nil {
		existing, err := s.repo.List(ctx, resumeID)
		if err != nil {
			return zero, fmt.Errorf("failed to load existing %s: %w", s.kind, err)
		}
		if err := s.checkCreate(existing, section); err != nil {
			return zero, err
		}
	}

	if err := s.repo.Create(ctx, section); err != nil {
		return zero, fmt.Errorf("failed to create %s: %w", s.kind, err)
	}

	log.Info().Str("section", string(s.kind)).Str("id", base.ID.String()).Str("resume_id", resumeID.String()).Msg("resume section created")
	return section, nil
}

func (s *SectionService[P]) Update(ctx context.Context, caller *domain.AuthInfo, resumeID, id uuid.UUID, section P) (P, error) {
	var zero P
	if _, err := authorizeResume(ctx, s.resumes, caller, resumeID); err != nil {
		return zero, err
	}

	current, err := s.repo.Get(ctx, resumeID, id)
	if err != nil {
		return zero, err
	}

	base := section.Base()
	if base.ID != uuid.Nil && base.ID != id {
		return zero, ErrIDMismatch
	}
	base.ID = id
	base.ResumeID = resumeID
	base.CreatedAt = current.Base().CreatedAt
	section.BeforeSave()
	if err := section.Validate(); err != nil {
		return zero, err
	}

	if err := s.repo.Update(ctx, section); err != nil {
		return zero, fmt.Errorf("failed to update %s: %w", s.kind, err)
	}
	return section, nil
}

func (s *SectionService[P]) Delete(ctx context.Context, caller *domain.AuthInfo, resumeID, id uuid.UUID) error {
	if _, err := authorizeResume(ctx, s.resumes, caller, resumeID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, resumeID, id)
}

// SectionServices bundles a service per section kind.
type SectionServices struct {
	WorkExperiences *SectionService[*domain.WorkExperience]
	Skills          *SectionService[*domain.Skill]
	Educations      *SectionService[*domain.Education]
	Certificates    *SectionService[*domain.Certificate]
	Projects        *SectionService[*domain.Project]
	SocialLinks     *SectionService[*domain.SocialLink]
	Languages       *SectionService[*domain.Language]
	Awards          *SectionService[*domain.Award]
	References      *SectionService[*domain.Reference]
}

func NewSectionServices(resumes domain.ResumeRepository, repos *domain.SectionRepositories) *SectionServices {
	skills := NewSectionService(domain.SectionSkills, resumes, repos.Skills)
	skills.checkCreate = rejectDuplicateSkill

	return &SectionServices{
		WorkExperiences: NewSectionService(domain.SectionWorkExperiences, resumes, repos.WorkExperiences),
		Skills:          skills,
		Educations:      NewSectionService(domain.SectionEducations, resumes, repos.Educations),
		Certificates:    NewSectionService(domain.SectionCertificates, resumes, repos.Certificates),
		Projects:        NewSectionService(domain.SectionProjects, resumes, repos.Projects),
		SocialLinks:     NewSectionService(domain.SectionSocialLinks, resumes, repos.SocialLinks),
		Languages:       NewSectionService(domain.SectionLanguages, resumes, repos.Languages),
		Awards:          NewSectionService(domain.SectionAwards, resumes, repos.Awards),
		References:      NewSectionService(domain.SectionReferences, resumes, repos.References),
	}
}

func rejectDuplicateSkill(existing []*domain.Skill, candidate *domain.Skill) error {
	for _, skill := range existing {
		if strings.EqualFold(skill.Name, candidate.Name) {
			return domain.ValidationErrors{*domain.NewValidationError("name",
				"This resume already lists this skill. Consider updating the existing one instead.",
				domain.ErrInvalidField)}
		}
	}
	return nil
}
