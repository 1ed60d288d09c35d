package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"coreapi/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AuthCookieName carries the access token across the sibling apps.
const (
	AuthCookieName    = "auth_token"
	RefreshCookieName = "refresh_token"
)

// Context keys set by AuthMiddleware and OptionalAuth.
const (
	ContextUserID    = "user_id"
	ContextSessionID = "session_id"
	ContextRoles     = "roles"
	ContextToken     = "access_token"
	contextAuthInfo  = "auth_info"
)

type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, tokenString string) (*domain.AuthInfo, error)
}

// AuthMiddleware requires a valid access token from the Authorization header
// or, failing that, the auth_token cookie.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, errorCode, message := extractToken(c)
		if tokenString == "" {
			abortJSON(c, http.StatusUnauthorized, message, errorCode)
			return
		}

		info, err := validator.ValidateAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				abortJSON(c, http.StatusUnauthorized, "Token expired", "TOKEN_EXPIRED")
			case errors.Is(err, domain.ErrUnauthorized):
				abortJSON(c, http.StatusUnauthorized, "Invalid token", "TOKEN_INVALID")
			default:
				log.Error().Err(err).Msg("token validation failed")
				abortJSON(c, http.StatusInternalServerError, "Token validation failed", "VALIDATION_ERROR")
			}
			return
		}

		setAuth(c, info, tokenString)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _, _ := extractToken(c)
		if tokenString != "" {
			if info, err := validator.ValidateAccessToken(c.Request.Context(), tokenString); err == nil {
				setAuth(c, info, tokenString)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) (token, errorCode, message string) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		const bearerPrefix = "Bearer "
		tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix)
		if !ok {
			return "", "INVALID_AUTH_FORMAT", "Bearer token required"
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			return "", "EMPTY_TOKEN", "Token cannot be empty"
		}
		return tokenString, "", ""
	}

	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie, "", ""
	}
	return "", "MISSING_AUTH", "Authentication required"
}

func setAuth(c *gin.Context, info *domain.AuthInfo, tokenString string) {
	c.Set(ContextUserID, info.UserID)
	c.Set(ContextSessionID, info.SessionID)
	c.Set(ContextRoles, info.Roles)
	c.Set(ContextToken, tokenString)
	c.Set(contextAuthInfo, info)
}

// Caller returns the authenticated caller, if any.
func Caller(c *gin.Context) (*domain.AuthInfo, bool) {
	v, ok := c.Get(contextAuthInfo)
	if !ok {
		return nil, false
	}
	info, ok := v.(*domain.AuthInfo)
	return info, ok
}

// CallerID returns the user id set by the auth middleware.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortJSON(c *gin.Context, code int, message, errorCode string) {
	c.JSON(code, gin.H{
		"error": message,
		"code":  errorCode,
	})
	c.Abort()
}

// RequestToken returns the bearer token or auth cookie of the request, or "".
func RequestToken(c *gin.Context) string {
	token, _, _ := extractToken(c)
	return token
}
