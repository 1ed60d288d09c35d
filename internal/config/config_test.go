package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("development defaults", func(t *testing.T) {
		t.Setenv("IS_PRODUCTION", "")
		t.Setenv("COOKIE_DOMAIN", "")
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		t.Setenv("RATE_LIMIT_INTERVAL_SECONDS", "")

		cfg := Load()
		assert.False(t, cfg.IsProduction)
		assert.Equal(t, ".asafarim.local", cfg.CookieDomain)
		assert.False(t, cfg.CookieSecure)
		assert.Equal(t, 60*time.Second, cfg.RateLimitInterval)
		assert.Contains(t, cfg.CORSAllowedOrigins, "http://identity.asafarim.local:5177")
		assert.NoError(t, cfg.Validate())
	})

	t.Run("production switches registry and cookie domain", func(t *testing.T) {
		t.Setenv("IS_PRODUCTION", "true")
		t.Setenv("COOKIE_DOMAIN", "")
		t.Setenv("COOKIE_SECURE", "")

		cfg := Load()
		assert.True(t, cfg.IsProduction)
		assert.Equal(t, ".asafarim.be", cfg.CookieDomain)
		assert.True(t, cfg.CookieSecure)
		assert.Equal(t, "https://identity.asafarim.be", cfg.Apps().Identity)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
		t.Setenv("RATE_LIMIT_INTERVAL_SECONDS", "30")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

		cfg := Load()
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, 30*time.Second, cfg.RateLimitInterval)
		assert.Equal(t, 100, cfg.RateLimitPerMinute)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"development needs nothing", Config{}, nil},
		{"production without secret", Config{IsProduction: true, DatabaseURL: "postgres://x"}, ErrMissingJWTSecret},
		{"production without database", Config{IsProduction: true, JWTSecret: "s"}, ErrMissingDatabaseURL},
		{"production complete", Config{IsProduction: true, JWTSecret: "s", DatabaseURL: "postgres://x"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Validate())
		})
	}
}

func TestAppRegistry(t *testing.T) {
	local := AppRegistry(false)
	prod := AppRegistry(true)
	assert.NotEqual(t, local.Identity, prod.Identity)

	local.Identity = "http://mutated"
	assert.Equal(t, "http://identity.asafarim.local:5177", AppRegistry(false).Identity)

	require.NotEmpty(t, prod.Origins())
	assert.Len(t, prod.Origins(), 7)
}

func TestPortalURLs(t *testing.T) {
	apps := AppRegistry(true)
	assert.Equal(t, "https://identity.asafarim.be/login", apps.SignInURL(""))
	assert.Equal(t,
		"https://identity.asafarim.be/login?returnUrl=https%3A%2F%2Fcore.asafarim.be%2Fjobs",
		apps.SignInURL("https://core.asafarim.be/jobs"))
	assert.Equal(t, "https://identity.asafarim.be/logout", apps.SignOutURL(""))
}
