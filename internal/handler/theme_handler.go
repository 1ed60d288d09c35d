package handler

import (
	"net/http"

	"coreapi/internal/config"
	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"
	"coreapi/internal/middleware"
	"coreapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const themeCookieMaxAge = 365 * 24 * 60 * 60

type ThemeHandler struct {
	themeService service.ThemeService
	config       *config.Config
}

func NewThemeHandler(themeService service.ThemeService, cfg *config.Config) *ThemeHandler {
	return &ThemeHandler{themeService: themeService, config: cfg}
}

func optionalCallerID(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.CallerID(c); ok {
		return &id
	}
	return nil
}

// Get resolves the theme. A stored preference that differs from the
// request cookie rewrites the cookie.
func (h *ThemeHandler) Get(c *gin.Context) {
	cookie, _ := c.Cookie(domain.ThemeCookieName)
	resp := h.themeService.Resolve(c.Request.Context(), cookie, optionalCallerID(c))
	if resp.Source == dto.ThemeSourceStored && string(resp.Mode) != cookie {
		h.writeCookie(c, resp.Mode)
	}
	c.JSON(http.StatusOK, resp)
}

// Set writes the shared cookie so sibling apps pick the mode up on their
// next sync. The cookie is readable by scripts on purpose.
func (h *ThemeHandler) Set(c *gin.Context) {
	var req dto.ThemeRequest
	if !bindJSON(c, &req) {
		return
	}

	mode, err := h.themeService.Save(c.Request.Context(), req.Mode, optionalCallerID(c))
	if err != nil {
		respondError(c, err, "Failed to save theme")
		return
	}

	h.writeCookie(c, mode)
	c.JSON(http.StatusOK, dto.ThemeResponse{Mode: mode, Source: dto.ThemeSourceCookie})
}

func (h *ThemeHandler) writeCookie(c *gin.Context, mode domain.ThemeMode) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(domain.ThemeCookieName, string(mode), themeCookieMaxAge, "/", h.config.CookieDomain, h.config.CookieSecure, false)
}
