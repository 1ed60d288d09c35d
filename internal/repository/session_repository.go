package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coreapi/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type sessionRepository struct {
	client       *redis.Client
	blacklistTTL time.Duration
}

func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &sessionRepository{
		client:       client,
		blacklistTTL: time.Hour, // access token lifetime
	}
}

func sessionKey(id string) string { return fmt.Sprintf("session:%s", id) }
func refreshTokenKey(token string) string { return fmt.Sprintf("refresh_token:%s", token) }
func userSessionsKey(id uuid.UUID) string { return fmt.Sprintf("user_sessions:%s", id.String()) }
func blacklistKey(jti string) string { return fmt.Sprintf("blacklist:jti:%s", jti) }
func temporaryAuthKey(code string) string { return fmt.Sprintf("temp_auth:%s", code) }

// BlacklistToken rejects an access token id until it would have expired anyway.
func (r *sessionRepository) BlacklistToken(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = r.blacklistTTL
	}
	return r.client.Set(ctx, blacklistKey(jti), "1", ttl).Err()
}

func (r *sessionRepository) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	result, err := r.client.Exists(ctx, blacklistKey(jti)).Result()
	return result > 0, err
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	sessionData, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	pipe := r.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), sessionData, ttl)
	pipe.Set(ctx, refreshTokenKey(session.RefreshToken), session.ID, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)

	if _, err = pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Str("session_id", session.ID).Msg("failed to store session")
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	sessionID, err := r.client.Get(ctx, refreshTokenKey(refreshToken)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	return r.GetByID(ctx, sessionID)
}

func (r *sessionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	sessionIDs, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(sessionIDs))
	for _, sessionID := range sessionIDs {
		session, err := r.GetByID(ctx, sessionID)
		if err != nil {
			// expired sessions linger in the set until the set itself expires
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *domain.Session) error {
	sessionData, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(session.ID), sessionData, time.Until(session.ExpiresAt)).Err()
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.Del(ctx, refreshTokenKey(session.RefreshToken))
	pipe.SRem(ctx, userSessionsKey(session.UserID), sessionID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	sessions, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	for _, session := range sessions {
		pipe.Del(ctx, sessionKey(session.ID))
		pipe.Del(ctx, refreshTokenKey(session.RefreshToken))
	}
	pipe.Del(ctx, userSessionsKey(userID))

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) UpdateLastUsed(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}

	session.LastUsedAt = time.Now()
	return r.Update(ctx, session)
}

func (r *sessionRepository) StoreTemporaryAuth(ctx context.Context, authCode, authData string, expiration time.Duration) error {
	return r.client.Set(ctx, temporaryAuthKey(authCode), authData, expiration).Err()
}

// GetTemporaryAuth reads and deletes a one-time code atomically.
func (r *sessionRepository) GetTemporaryAuth(ctx context.Context, authCode string) (string, error) {
	result, err := r.client.GetDel(ctx, temporaryAuthKey(authCode)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return result, nil
}
