package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ThemeService interface {
	// Resolve picks the stored preference of userID when signed in, then
	// the cookie value, then auto. Per-client cookie jars go stale once a
	// sibling app saves, so the stored value outranks them.
	Resolve(ctx context.Context, cookieValue string, userID *uuid.UUID) dto.ThemeResponse
	Save(ctx context.Context, mode string, userID *uuid.UUID) (domain.ThemeMode, error)
}

type themeService struct {
	repo domain.ThemeRepository
	now  func() time.Time
}

func NewThemeService(repo domain.ThemeRepository) ThemeService {
	return &themeService{repo: repo, now: time.Now}
}

func (s *themeService) Resolve(ctx context.Context, cookieValue string, userID *uuid.UUID) dto.ThemeResponse {
	if userID != nil {
		pref, err := s.repo.Get(ctx, *userID)
		switch {
		case err == nil:
			if mode, ok := domain.ParseThemeMode(string(pref.Mode)); ok {
				return dto.ThemeResponse{Mode: mode, Source: dto.ThemeSourceStored}
			}
		case !errors.Is(err, domain.ErrNotFound):
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("failed to read theme preference")
		}
	}

	if mode, ok := domain.ParseThemeMode(cookieValue); ok {
		return dto.ThemeResponse{Mode: mode, Source: dto.ThemeSourceCookie}
	}
	return dto.ThemeResponse{Mode: domain.ThemeAuto, Source: dto.ThemeSourceDefault}
}

func (s *themeService) Save(ctx context.Context, mode string, userID *uuid.UUID) (domain.ThemeMode, error) {
	parsed, ok := domain.ParseThemeMode(mode)
	if !ok {
		return "", domain.ValidationErrors{*domain.NewValidationError("mode",
			"Mode must be one of: light, dark, auto", domain.ErrInvalidField)}
	}

	if userID != nil {
		pref := &domain.ThemePreference{Mode: parsed, UpdatedAt: s.now().UTC()}
		if err := s.repo.Save(ctx, *userID, pref); err != nil {
			return "", fmt.Errorf("failed to store theme preference: %w", err)
		}
	}
	return parsed, nil
}
