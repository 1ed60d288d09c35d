package service

import (
	"context"
	"errors"
	"testing"

	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memThemeRepo struct {
	prefs map[uuid.UUID]*domain.ThemePreference
	err   error
}

func (r *memThemeRepo) Get(_ context.Context, userID uuid.UUID) (*domain.ThemePreference, error) {
	if r.err != nil {
		return nil, r.err
	}
	pref, ok := r.prefs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return pref, nil
}

func (r *memThemeRepo) Save(_ context.Context, userID uuid.UUID, pref *domain.ThemePreference) error {
	if r.err != nil {
		return r.err
	}
	r.prefs[userID] = pref
	return nil
}

func TestThemeResolve(t *testing.T) {
	stored := uuid.New()
	stranger := uuid.New()
	repo := &memThemeRepo{prefs: map[uuid.UUID]*domain.ThemePreference{
		stored: {Mode: domain.ThemeDark},
	}}
	svc := NewThemeService(repo)

	cases := []struct {
		name   string
		cookie string
		user   *uuid.UUID
		want   dto.ThemeResponse
	}{
		{"stored preference", "", &stored, dto.ThemeResponse{Mode: domain.ThemeDark, Source: dto.ThemeSourceStored}},
		{"stored preference beats stale cookie", "light", &stored, dto.ThemeResponse{Mode: domain.ThemeDark, Source: dto.ThemeSourceStored}},
		{"cookie when nothing stored", "light", &stranger, dto.ThemeResponse{Mode: domain.ThemeLight, Source: dto.ThemeSourceCookie}},
		{"anonymous cookie", "dark", nil, dto.ThemeResponse{Mode: domain.ThemeDark, Source: dto.ThemeSourceCookie}},
		{"invalid cookie falls through", "sepia", nil, dto.ThemeResponse{Mode: domain.ThemeAuto, Source: dto.ThemeSourceDefault}},
		{"no preference", "", &stranger, dto.ThemeResponse{Mode: domain.ThemeAuto, Source: dto.ThemeSourceDefault}},
		{"anonymous", "", nil, dto.ThemeResponse{Mode: domain.ThemeAuto, Source: dto.ThemeSourceDefault}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Resolve(context.Background(), tt.cookie, tt.user))
		})
	}
}

func TestThemeResolveRepoFailure(t *testing.T) {
	user := uuid.New()
	svc := NewThemeService(&memThemeRepo{err: errors.New("redis down")})

	got := svc.Resolve(context.Background(), "", &user)
	assert.Equal(t, domain.ThemeAuto, got.Mode)

	got = svc.Resolve(context.Background(), "dark", &user)
	assert.Equal(t, dto.ThemeResponse{Mode: domain.ThemeDark, Source: dto.ThemeSourceCookie}, got)
}

func TestThemeSave(t *testing.T) {
	user := uuid.New()
	repo := &memThemeRepo{prefs: map[uuid.UUID]*domain.ThemePreference{}}
	svc := NewThemeService(repo)
	ctx := context.Background()

	t.Run("stores for signed-in user", func(t *testing.T) {
		mode, err := svc.Save(ctx, "dark", &user)
		require.NoError(t, err)
		assert.Equal(t, domain.ThemeDark, mode)
		require.Contains(t, repo.prefs, user)
		assert.Equal(t, domain.ThemeDark, repo.prefs[user].Mode)
		assert.False(t, repo.prefs[user].UpdatedAt.IsZero())
	})

	t.Run("anonymous is not stored", func(t *testing.T) {
		before := len(repo.prefs)
		mode, err := svc.Save(ctx, "light", nil)
		require.NoError(t, err)
		assert.Equal(t, domain.ThemeLight, mode)
		assert.Len(t, repo.prefs, before)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := svc.Save(ctx, "sepia", &user)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "Mode must be one of: light, dark, auto", verrs.Messages()["mode"])
	})
}
