package handler

import (
	"fmt"
	"net/http"

	"coreapi/internal/config"
	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"
	"coreapi/internal/middleware"
	"coreapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	authService domain.AuthenticationService
	config      *config.Config
}

func NewAuthHandler(authService domain.AuthenticationService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
	}
}

// setSessionCookies shares the token pair with every app on the cookie domain.
func (h *AuthHandler) setSessionCookies(c *gin.Context, tokens *domain.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, tokens.AccessToken,
		int(service.AccessTokenDuration.Seconds()), "/", h.config.CookieDomain, h.config.CookieSecure, true)
	c.SetCookie(middleware.RefreshCookieName, tokens.RefreshToken,
		int(service.RefreshTokenDuration.Seconds()), "/", h.config.CookieDomain, h.config.CookieSecure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", h.config.CookieDomain, h.config.CookieSecure, true)
	c.SetCookie(middleware.RefreshCookieName, "", -1, "/", h.config.CookieDomain, h.config.CookieSecure, true)
}

func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	state := uuid.New().String()

	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.config.CookieSecure, true)

	url := h.authService.InitiateGoogleAuth(state)
	c.JSON(http.StatusOK, gin.H{"auth_url": url})
}

func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	storedState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != storedState {
		c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/auth/login?error=invalid_state", h.config.FrontendURL))
		return
	}

	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.config.CookieSecure, true)

	authResult, err := h.authService.CompleteGoogleAuth(
		c.Request.Context(),
		code,
		c.GetHeader("User-Agent"),
		c.ClientIP(),
	)
	if err != nil {
		log.Error().Err(err).Msg("google sign-in failed")
		c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/auth/login?error=auth_failed", h.config.FrontendURL))
		return
	}

	authCode := uuid.New().String()
	if err := h.authService.StoreTemporaryAuth(c.Request.Context(), authCode, authResult, service.TempAuthCodeDuration); err != nil {
		log.Error().Err(err).Msg("failed to store temporary auth code")
		c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/auth/login?error=storage_failed", h.config.FrontendURL))
		return
	}

	h.setSessionCookies(c, authResult.Tokens)
	c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/auth/callback?auth_code=%s", h.config.FrontendURL, authCode))
}

func (h *AuthHandler) ExchangeAuthCode(c *gin.Context) {
	var req dto.ExchangeCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	authResult, err := h.authService.ExchangeAuthCode(c.Request.Context(), req.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired auth code"})
		return
	}

	h.setSessionCookies(c, authResult.Tokens)
	c.JSON(http.StatusOK, gin.H{
		"user":   authResult.User,
		"tokens": authResult.Tokens,
	})
}

// RefreshToken accepts the refresh token in the body or the refresh cookie.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshRequest
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken, _ = c.Cookie(middleware.RefreshCookieName)
	}
	if req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token required"})
		return
	}

	tokenPair, err := h.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken, c.GetHeader("User-Agent"), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	h.setSessionCookies(c, tokenPair)
	c.JSON(http.StatusOK, gin.H{"tokens": tokenPair})
}

// Me reports the signed-in user and echoes the access token.
func (h *AuthHandler) Me(c *gin.Context) {
	token := middleware.RequestToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	me, err := h.authService.Me(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "Failed to load session")
		return
	}
	c.JSON(http.StatusOK, me)
}

// Logout always clears the cookies, even when the token was already invalid.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.RequestToken(c); token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			log.Error().Err(err).Msg("failed to revoke session on logout")
		}
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) SignInURL(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RedirectURLResponse{URL: h.config.Apps().SignInURL(c.Query("returnUrl"))})
}

func (h *AuthHandler) SignOutURL(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RedirectURLResponse{URL: h.config.Apps().SignOutURL(c.Query("returnUrl"))})
}

func (h *AuthHandler) GetSessions(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	sessions, err := h.authService.GetUserSessions(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, err, "Failed to get sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *AuthHandler) RevokeSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID required"})
		return
	}

	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	sessions, err := h.authService.GetUserSessions(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, err, "Failed to verify session")
		return
	}

	var found bool
	for _, session := range sessions {
		if session.ID == sessionID {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusForbidden, gin.H{"error": "Session not found or unauthorized"})
		return
	}

	if err := h.authService.RevokeSession(c.Request.Context(), sessionID); err != nil {
		respondError(c, err, "Failed to revoke session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session revoked successfully"})
}

func (h *AuthHandler) RevokeAllSessions(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	if err := h.authService.RevokeAllUserSessions(c.Request.Context(), caller.UserID); err != nil {
		respondError(c, err, "Failed to revoke all sessions")
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "All sessions revoked successfully"})
}
