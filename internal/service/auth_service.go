package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coreapi/internal/config"
	"coreapi/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type authenticationService struct {
	config      *config.Config
	oauthSvc    domain.OAuthService
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	jwtSecret   string
	now         func() time.Time
}

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	SessionID string    `json:"session_id"`
	TokenType string    `json:"token_type"`
	Roles     []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

const (
	AccessTokenDuration  = 1 * time.Hour
	RefreshTokenDuration = 30 * 24 * time.Hour
	TempAuthCodeDuration = 5 * time.Minute

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

func NewAuthenticationService(
	cfg *config.Config,
	oauthSvc domain.OAuthService,
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
) domain.AuthenticationService {
	return &authenticationService{
		config:      cfg,
		oauthSvc:    oauthSvc,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   cfg.JWTSecret,
		now:         time.Now,
	}
}

// OAuth flow methods
func (s *authenticationService) InitiateGoogleAuth(state string) string {
	return s.oauthSvc.GetAuthURL(state)
}

func (s *authenticationService) CompleteGoogleAuth(ctx context.Context, code, userAgent, ipAddress string) (*domain.AuthResult, error) {
	token, err := s.oauthSvc.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	userInfo, err := s.oauthSvc.GetUserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	user, err := s.findOrCreateUser(ctx, userInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create user: %w", err)
	}

	tokenPair, err := s.GenerateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	log.Info().Str("user_id", user.ID.String()).Msg("user signed in with google")
	return &domain.AuthResult{
		User:   user,
		Tokens: tokenPair,
	}, nil
}

func (s *authenticationService) findOrCreateUser(ctx context.Context, userInfo *domain.GoogleUserInfo) (*domain.User, error) {
	existingUser, err := s.userRepo.GetByGoogleID(ctx, userInfo.ID)
	if err == nil {
		changed := existingUser.Name != userInfo.Name || existingUser.Picture != userInfo.Picture
		if changed {
			existingUser.Name = userInfo.Name
			existingUser.Picture = userInfo.Picture
			existingUser.UpdatedAt = s.now()
			if err := s.userRepo.Update(ctx, existingUser); err != nil {
				log.Warn().Err(err).Str("user_id", existingUser.ID.String()).Msg("failed to refresh google profile")
			}
		}
		return existingUser, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	newUser := &domain.User{
		ID:        uuid.New(),
		GoogleID:  userInfo.ID,
		Email:     userInfo.Email,
		Name:      userInfo.Name,
		Picture:   userInfo.Picture,
		Roles:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", newUser.ID.String()).Str("email", newUser.Email).Msg("user created")
	return newUser, nil
}

// Token management methods
func (s *authenticationService) GenerateTokenPair(ctx context.Context, user *domain.User, userAgent, ipAddress string) (*domain.TokenPair, error) {
	sessionID := uuid.New().String()

	accessToken, err := s.generateAccessToken(user, sessionID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user.ID, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &domain.Session{
		ID:           sessionID,
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(RefreshTokenDuration),
		CreatedAt:    now,
		LastUsedAt:   now,
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

func (s *authenticationService) generateAccessToken(user *domain.User, sessionID string) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:    user.ID,
		SessionID: sessionID,
		TokenType: tokenTypeAccess,
		Roles:     user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authenticationService) generateRefreshToken(userID uuid.UUID, sessionID string) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// parseToken checks the signature and the expected token type. Every failure
// wraps domain.ErrUnauthorized.
func (s *authenticationService) parseToken(tokenString, tokenType string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected HMAC algorithm: %v", method.Alg())
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: token parsing failed: %w", domain.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}

	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: invalid token type: expected %s, got %s", domain.ErrUnauthorized, tokenType, claims.TokenType)
	}

	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid user ID in token", domain.ErrUnauthorized)
	}
	return claims, nil
}

func (s *authenticationService) ValidateAccessToken(ctx context.Context, tokenString string) (*domain.AuthInfo, error) {
	claims, err := s.parseToken(tokenString, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	if claims.ID != "" {
		revoked, err := s.sessionRepo.IsTokenBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("blacklist check failed: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
		}
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: session not found", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("session verification failed: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		go s.sessionRepo.Delete(context.Background(), session.ID)
		return nil, fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
	}

	go s.sessionRepo.UpdateLastUsed(context.Background(), claims.SessionID)

	return &domain.AuthInfo{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		Roles:     claims.Roles,
	}, nil
}

// Me resolves a token into the signed-in user and echoes the token back.
func (s *authenticationService) Me(ctx context.Context, tokenString string) (*domain.MeResponse, error) {
	info, err := s.ValidateAccessToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, info.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	return &domain.MeResponse{User: user, Token: tokenString}, nil
}

func (s *authenticationService) RefreshAccessToken(ctx context.Context, refreshToken, userAgent, ipAddress string) (*domain.TokenPair, error) {
	if _, err := s.parseToken(refreshToken, tokenTypeRefresh); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		log.Debug().Msg("session not found for refresh token")
		return nil, fmt.Errorf("%w: session not found", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if s.now().After(session.ExpiresAt) {
		go s.sessionRepo.Delete(context.Background(), session.ID)
		return nil, fmt.Errorf("%w: refresh token expired", domain.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	newTokenPair, err := s.GenerateTokenPair(ctx, user, userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new tokens: %w", err)
	}

	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to delete rotated session")
	}

	log.Debug().Str("session_id", newTokenPair.SessionID).Msg("rotated refresh token")
	return newTokenPair, nil
}

// Logout revokes the token's session and blacklists its id. An unparseable
// token is not an error: there is nothing left to revoke.
func (s *authenticationService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString, tokenTypeAccess)
	if err != nil {
		log.Debug().Err(err).Msg("logout with invalid token")
		return nil
	}

	if claims.ID != "" && claims.ExpiresAt != nil {
		if err := s.sessionRepo.BlacklistToken(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return fmt.Errorf("failed to blacklist token: %w", err)
		}
	}
	return s.sessionRepo.Delete(ctx, claims.SessionID)
}

// Session management methods
func (s *authenticationService) RevokeSession(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *authenticationService) GetUserSessions(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	return s.sessionRepo.GetByUserID(ctx, userID)
}

func (s *authenticationService) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}

// Temporary auth code methods
func (s *authenticationService) StoreTemporaryAuth(ctx context.Context, authCode string, authResult *domain.AuthResult, expiration time.Duration) error {
	if authCode == "" {
		return fmt.Errorf("%w: auth code is required", domain.ErrInvalidInput)
	}
	if authResult == nil {
		return fmt.Errorf("%w: auth result is required", domain.ErrInvalidInput)
	}

	authResultJSON, err := json.Marshal(authResult)
	if err != nil {
		return err
	}

	return s.sessionRepo.StoreTemporaryAuth(ctx, authCode, string(authResultJSON), expiration)
}

func (s *authenticationService) ExchangeAuthCode(ctx context.Context, authCode string) (*domain.AuthResult, error) {
	if authCode == "" {
		return nil, fmt.Errorf("%w: auth code is required", domain.ErrInvalidInput)
	}

	authData, err := s.sessionRepo.GetTemporaryAuth(ctx, authCode)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid or expired auth code", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	var authResult domain.AuthResult
	if err := json.Unmarshal([]byte(authData), &authResult); err != nil {
		return nil, err
	}

	return &authResult, nil
}
