package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coreapi/internal/config"
	"coreapi/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(users *memUserRepo, sessions *memSessionRepo, oauth domain.OAuthService) *authenticationService {
	cfg := &config.Config{JWTSecret: "test-secret"}
	return NewAuthenticationService(cfg, oauth, users, sessions).(*authenticationService)
}

func testUser() *domain.User {
	return &domain.User{
		ID:    uuid.New(),
		Email: "ada@example.com",
		Name:  "Ada",
		Roles: []string{domain.RoleAdmin},
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	svc := newTestAuthService(newMemUserRepo(user), newMemSessionRepo(), nil)

	pair, err := svc.GenerateTokenPair(ctx, user, "test-agent", "127.0.0.1")
	require.NoError(t, err)

	info, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, info.UserID)
	assert.Equal(t, pair.SessionID, info.SessionID)
	assert.True(t, info.IsAdmin())

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newTestAuthService(newMemUserRepo(user), newMemSessionRepo(), nil)
		other.jwtSecret = "another-secret"
		_, err := other.ValidateAccessToken(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestValidateAccessTokenExpired(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	svc := newTestAuthService(newMemUserRepo(user), newMemSessionRepo(), nil)
	svc.now = func() time.Time { return time.Now().Add(-2 * AccessTokenDuration) }

	pair, err := svc.GenerateTokenPair(ctx, user, "", "")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestRefreshRotatesSession(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	sessions := newMemSessionRepo()
	svc := newTestAuthService(newMemUserRepo(user), sessions, nil)

	first, err := svc.GenerateTokenPair(ctx, user, "", "")
	require.NoError(t, err)

	second, err := svc.RefreshAccessToken(ctx, first.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, second.SessionID)

	_, err = svc.ValidateAccessToken(ctx, first.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "old session is gone")

	_, err = svc.RefreshAccessToken(ctx, first.RefreshToken, "", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "refresh tokens are single use")

	_, err = svc.ValidateAccessToken(ctx, second.AccessToken)
	assert.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	sessions := newMemSessionRepo()
	svc := newTestAuthService(newMemUserRepo(user), sessions, nil)

	pair, err := svc.GenerateTokenPair(ctx, user, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken))
	assert.Len(t, sessions.blacklist, 1)
	assert.NotContains(t, sessions.sessions, pair.SessionID)

	_, err = svc.ValidateAccessToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.NoError(t, svc.Logout(ctx, "garbage"), "invalid tokens log out silently")
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	svc := newTestAuthService(newMemUserRepo(user), newMemSessionRepo(), nil)

	pair, err := svc.GenerateTokenPair(ctx, user, "", "")
	require.NoError(t, err)

	me, err := svc.Me(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Email, me.User.Email)
	assert.Equal(t, pair.AccessToken, me.Token)

	_, err = svc.Me(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCompleteGoogleAuth(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	oauth := &fakeOAuth{info: &domain.GoogleUserInfo{ID: "g-1", Email: "grace@example.com", Name: "Grace"}}
	svc := newTestAuthService(users, newMemSessionRepo(), oauth)

	assert.Contains(t, svc.InitiateGoogleAuth("xyz"), "state=xyz")

	first, err := svc.CompleteGoogleAuth(ctx, "code", "agent", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", first.User.Email)
	assert.NotEmpty(t, first.Tokens.AccessToken)

	oauth.info.Name = "Grace Hopper"
	second, err := svc.CompleteGoogleAuth(ctx, "code", "agent", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID, "existing user is reused")
	assert.Equal(t, "Grace Hopper", second.User.Name)
	assert.Len(t, users.users, 1)
}

func TestTemporaryAuthIsSingleUse(t *testing.T) {
	ctx := context.Background()
	user := testUser()
	svc := newTestAuthService(newMemUserRepo(user), newMemSessionRepo(), nil)

	result := &domain.AuthResult{User: user, Tokens: &domain.TokenPair{AccessToken: "a", RefreshToken: "r", SessionID: "s"}}
	require.NoError(t, svc.StoreTemporaryAuth(ctx, "code-1", result, TempAuthCodeDuration))

	got, err := svc.ExchangeAuthCode(ctx, "code-1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Tokens.AccessToken)
	assert.Equal(t, user.ID, got.User.ID)

	_, err = svc.ExchangeAuthCode(ctx, "code-1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.ErrorIs(t, svc.StoreTemporaryAuth(ctx, "", result, time.Minute), domain.ErrInvalidInput)
}
