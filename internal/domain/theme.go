package domain

import "time"

type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
	ThemeAuto  ThemeMode = "auto"
)

// ThemeCookieName is shared by every app on the cookie domain.
const ThemeCookieName = "theme-mode"

func ParseThemeMode(s string) (ThemeMode, bool) {
	switch ThemeMode(s) {
	case ThemeLight, ThemeDark, ThemeAuto:
		return ThemeMode(s), true
	}
	return "", false
}

type ThemePreference struct {
	Mode      ThemeMode `json:"mode"`
	UpdatedAt time.Time `json:"updatedAt"`
}
