package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coreapi/internal/config"
	"coreapi/internal/handler"
	"coreapi/internal/middleware"
	"coreapi/internal/repository"
	"coreapi/internal/security"
	"coreapi/internal/service"
	"coreapi/pkg/database"
	"coreapi/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()

	if err := database.RunMigrations(startCtx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient, err := redis.NewRedisClient(startCtx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	rateLimiter := security.NewRateLimiter(security.RateLimiterConfig{
		Redis:    redisClient,
		Limit:    cfg.RateLimitPerMinute,
		Interval: cfg.RateLimitInterval,
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)
	themeRepo := repository.NewThemeRepository(redisClient)
	jobRepo := repository.NewJobApplicationRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	resumeRepo := repository.NewResumeRepository(db)
	sectionRepos := repository.NewSectionRepositories(db)

	// Services
	oauthService := service.NewOAuthService(cfg)
	authService := service.NewAuthenticationService(cfg, oauthService, userRepo, sessionRepo)
	jobService := service.NewJobService(jobRepo, milestoneRepo)
	milestoneService := service.NewMilestoneService(jobRepo, milestoneRepo)
	resumeService := service.NewResumeService(resumeRepo, sectionRepos)
	sectionServices := service.NewSectionServices(resumeRepo, sectionRepos)
	themeService := service.NewThemeService(themeRepo)

	handlers := routerHandlers{
		auth:      handler.NewAuthHandler(authService, cfg),
		jobs:      handler.NewJobHandler(jobService),
		milestone: handler.NewMilestoneHandler(milestoneService),
		resumes:   handler.NewResumeHandler(resumeService),
		skills:    handler.NewSkillHandler(sectionServices.Skills),
		theme:     handler.NewThemeHandler(themeService, cfg),
		health:    handler.NewHealthHandler(db, redisClient),
		sections:  sectionServices,
	}

	router := setupRouter(cfg, handlers, authService, rateLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("environment", cfg.Environment).
		Bool("production", cfg.IsProduction).
		Str("cookie_domain", cfg.CookieDomain).
		Msg("Server started")
	log.Info().Int("limit", cfg.RateLimitPerMinute).Dur("interval", cfg.RateLimitInterval).Msg("Rate limiting enabled")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !cfg.IsProduction {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("Failed to generate secret")
	}
	return hex.EncodeToString(b)
}

type routerHandlers struct {
	auth      *handler.AuthHandler
	jobs      *handler.JobHandler
	milestone *handler.MilestoneHandler
	resumes   *handler.ResumeHandler
	skills    *handler.SkillHandler
	theme     *handler.ThemeHandler
	health    *handler.HealthHandler
	sections  *service.SectionServices
}

func setupRouter(
	cfg *config.Config,
	h routerHandlers,
	validator middleware.TokenValidator,
	rateLimiter *security.RateLimiter,
) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	requireAuth := middleware.AuthMiddleware(validator)
	optionalAuth := middleware.OptionalAuth(validator)

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(rateLimiter.GinMiddleware())

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			// OAuth endpoints
			auth.GET("/google", h.auth.GoogleAuth)
			auth.GET("/google/callback", h.auth.GoogleCallback)
			auth.POST("/exchange-code", h.auth.ExchangeAuthCode)

			// Session status and cross-app sign in/out
			auth.GET("/me", h.auth.Me)
			auth.POST("/refresh", h.auth.RefreshToken)
			auth.POST("/logout", h.auth.Logout)
			auth.GET("/signin-url", h.auth.SignInURL)
			auth.GET("/signout-url", h.auth.SignOutURL)

			// Session management
			auth.GET("/sessions", requireAuth, h.auth.GetSessions)
			auth.DELETE("/sessions/:sessionId", requireAuth, h.auth.RevokeSession)
			auth.DELETE("/sessions", requireAuth, h.auth.RevokeAllSessions)
		}

		api.GET("/theme", optionalAuth, h.theme.Get)
		api.PUT("/theme", optionalAuth, h.theme.Set)

		core := api.Group("/core")
		{
			core.GET("/health", h.health.Health)
			core.GET("/skill-categories", h.skills.GetSkillCategories)

			jobs := core.Group("/JobApplications", requireAuth)
			{
				jobs.GET("", h.jobs.List)
				jobs.GET("/analytics", h.jobs.Analytics)
				jobs.GET("/dashboard", h.jobs.Dashboard)
				jobs.GET("/:id", h.jobs.Get)
				jobs.POST("", h.jobs.Create)
				jobs.PUT("/:id", h.jobs.Update)
				jobs.DELETE("/:id", h.jobs.Delete)
			}

			milestones := core.Group("/TimelineMilestones", requireAuth)
			{
				milestones.GET("/job/:jobId", h.milestone.ListByJob)
				milestones.GET("/analytics", h.milestone.Analytics)
				milestones.GET("/progress/:jobId", h.milestone.Progress)
				milestones.GET("/insights", h.milestone.Insights)
				milestones.GET("/:id", h.milestone.Get)
				milestones.POST("", h.milestone.Create)
				milestones.PUT("/:id", h.milestone.Update)
				milestones.DELETE("/:id", h.milestone.Delete)
			}

			resumes := core.Group("/resumes")
			{
				resumes.GET("", requireAuth, h.resumes.List)
				resumes.POST("", requireAuth, h.resumes.Create)

				resume := resumes.Group("/:resumeId")
				resume.GET("", requireAuth, h.resumes.Get)
				resume.PUT("", requireAuth, h.resumes.Update)
				resume.DELETE("", requireAuth, h.resumes.Delete)
				handler.RegisterSectionRoutes(resume, requireAuth, h.sections)
			}
		}
	}

	return router
}
