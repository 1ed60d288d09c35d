package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"coreapi/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type themeRepository struct {
	client *redis.Client
}

// NewThemeRepository keeps one preference per user in Redis. Preferences do
// not expire.
func NewThemeRepository(client *redis.Client) domain.ThemeRepository {
	return &themeRepository{client: client}
}

func themeKey(userID uuid.UUID) string { return fmt.Sprintf("theme:%s", userID.String()) }

func (r *themeRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.ThemePreference, error) {
	data, err := r.client.Get(ctx, themeKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get theme preference: %w", err)
	}

	var pref domain.ThemePreference
	if err := json.Unmarshal(data, &pref); err != nil {
		return nil, fmt.Errorf("decode theme preference: %w", err)
	}
	return &pref, nil
}

func (r *themeRepository) Save(ctx context.Context, userID uuid.UUID, pref *domain.ThemePreference) error {
	data, err := json.Marshal(pref)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, themeKey(userID), data, 0).Err()
}
