package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment        string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendURL        string
	LogLevel           string

	// Cross-subdomain settings
	IsProduction       bool
	CookieDomain       string
	CORSAllowedOrigins []string

	// Security Settings
	RateLimitPerMinute int
	RateLimitInterval  time.Duration
	CookieSecure       bool
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Msg("No .env file found")
	}

	isProduction := getEnvAsBool("IS_PRODUCTION", false)
	apps := AppRegistry(isProduction)

	cfg := &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		FrontendURL:        getEnv("FRONTEND_URL", apps.Identity),
		LogLevel:           getEnv("LOG_LEVEL", "info"),

		IsProduction:       isProduction,
		CookieDomain:       getEnv("COOKIE_DOMAIN", defaultCookieDomain(isProduction)),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", apps.Origins()),

		// Security defaults
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
		RateLimitInterval:  getEnvAsDuration("RATE_LIMIT_INTERVAL_SECONDS", 60*time.Second),
		CookieSecure:       getEnvAsBool("COOKIE_SECURE", isProduction),
	}

	return cfg
}

var (
	ErrMissingJWTSecret   = errors.New("JWT_SECRET must be set in production")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set in production")
)

// Validate rejects settings the server must not start with in production.
func (c *Config) Validate() error {
	if !c.IsProduction {
		return nil
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

// Apps is the base URL of every sibling app.
func (c *Config) Apps() Apps {
	return AppRegistry(c.IsProduction)
}

func defaultCookieDomain(isProduction bool) string {
	if isProduction {
		return ".asafarim.be"
	}
	return ".asafarim.local"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration reads a whole number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
