package dto

import "coreapi/internal/domain"

type ExchangeCodeRequest struct {
	Code string `json:"auth_code" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RedirectURLResponse struct {
	URL string `json:"url"`
}

type ThemeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

type ThemeResponse struct {
	Mode   domain.ThemeMode `json:"mode"`
	Source string           `json:"source"`
}

// Theme sources reported by GET /api/theme.
const (
	ThemeSourceCookie  = "cookie"
	ThemeSourceStored  = "stored"
	ThemeSourceDefault = "default"
)
