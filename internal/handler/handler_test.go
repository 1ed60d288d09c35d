package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"coreapi/internal/config"
	"coreapi/internal/domain"
	"coreapi/internal/middleware"
	"coreapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	aliceID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bobID   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*domain.JobApplication
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: map[uuid.UUID]*domain.JobApplication{}}
}

func (r *memJobRepo) Create(_ context.Context, job *domain.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobRepo) GetByID(_ context.Context, userID string, id uuid.UUID) (*domain.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *memJobRepo) ListByUser(_ context.Context, userID string) ([]*domain.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.JobApplication{}
	for _, job := range r.jobs {
		if job.UserID == userID {
			cp := *job
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memJobRepo) Update(_ context.Context, job *domain.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *memJobRepo) Delete(_ context.Context, userID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *memJobRepo) Touch(_ context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job, ok := r.jobs[id]; ok {
		job.UpdatedAt = &at
	}
	return nil
}

type memMilestoneRepo struct {
	mu   sync.Mutex
	jobs *memJobRepo
	ms   map[uuid.UUID]*domain.TimelineMilestone
}

func newMemMilestoneRepo(jobs *memJobRepo) *memMilestoneRepo {
	return &memMilestoneRepo{jobs: jobs, ms: map[uuid.UUID]*domain.TimelineMilestone{}}
}

func (r *memMilestoneRepo) Create(_ context.Context, m *domain.TimelineMilestone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.ms[m.ID] = &cp
	return nil
}

func (r *memMilestoneRepo) GetForUser(ctx context.Context, userID string, id uuid.UUID) (*domain.TimelineMilestone, error) {
	r.mu.Lock()
	m, ok := r.ms[id]
	r.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if _, err := r.jobs.GetByID(ctx, userID, m.JobApplicationID); err != nil {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMilestoneRepo) ListByJob(_ context.Context, jobID uuid.UUID) ([]*domain.TimelineMilestone, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.TimelineMilestone{}
	for _, m := range r.ms {
		if m.JobApplicationID == jobID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMilestoneRepo) ListByUser(ctx context.Context, userID string) ([]*domain.TimelineMilestone, error) {
	jobs, _ := r.jobs.ListByUser(ctx, userID)
	out := []*domain.TimelineMilestone{}
	for _, job := range jobs {
		ms, _ := r.ListByJob(ctx, job.ID)
		out = append(out, ms...)
	}
	return out, nil
}

func (r *memMilestoneRepo) Update(_ context.Context, m *domain.TimelineMilestone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.ms[m.ID] = &cp
	return nil
}

func (r *memMilestoneRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ms, id)
	return nil
}

type memThemeRepo struct {
	mu    sync.Mutex
	prefs map[uuid.UUID]domain.ThemePreference
}

func (r *memThemeRepo) Get(_ context.Context, userID uuid.UUID) (*domain.ThemePreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pref, ok := r.prefs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &pref, nil
}

func (r *memThemeRepo) Save(_ context.Context, userID uuid.UUID, pref *domain.ThemePreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prefs == nil {
		r.prefs = map[uuid.UUID]domain.ThemePreference{}
	}
	r.prefs[userID] = *pref
	return nil
}

// tokenValidator accepts "alice" and "bob" as access tokens.
type tokenValidator struct{}

func (tokenValidator) ValidateAccessToken(_ context.Context, token string) (*domain.AuthInfo, error) {
	switch token {
	case "alice":
		return &domain.AuthInfo{UserID: aliceID, SessionID: "s-alice"}, nil
	case "bob":
		return &domain.AuthInfo{UserID: bobID, SessionID: "s-bob"}, nil
	}
	return nil, domain.ErrUnauthorized
}

type testServer struct {
	router *gin.Engine
	jobs   *memJobRepo
	themes *memThemeRepo
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jobs := newMemJobRepo()
	milestones := newMemMilestoneRepo(jobs)
	themes := &memThemeRepo{}
	cfg := &config.Config{CookieDomain: ".asafarim.local"}

	jobHandler := NewJobHandler(service.NewJobService(jobs, milestones))
	milestoneHandler := NewMilestoneHandler(service.NewMilestoneService(jobs, milestones))
	themeHandler := NewThemeHandler(service.NewThemeService(themes), cfg)

	requireAuth := middleware.AuthMiddleware(tokenValidator{})
	r := gin.New()
	api := r.Group("/api")
	api.GET("/theme", middleware.OptionalAuth(tokenValidator{}), themeHandler.Get)
	api.PUT("/theme", middleware.OptionalAuth(tokenValidator{}), themeHandler.Set)

	j := api.Group("/core/JobApplications", requireAuth)
	j.GET("", jobHandler.List)
	j.GET("/analytics", jobHandler.Analytics)
	j.GET("/dashboard", jobHandler.Dashboard)
	j.GET("/:id", jobHandler.Get)
	j.POST("", jobHandler.Create)
	j.PUT("/:id", jobHandler.Update)
	j.DELETE("/:id", jobHandler.Delete)

	m := api.Group("/core/TimelineMilestones", requireAuth)
	m.GET("/job/:jobId", milestoneHandler.ListByJob)
	m.GET("/progress/:jobId", milestoneHandler.Progress)
	m.POST("", milestoneHandler.Create)
	m.DELETE("/:id", milestoneHandler.Delete)

	return &testServer{router: r, jobs: jobs, themes: themes, cfg: cfg}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createJob(t *testing.T, s *testServer, token, company, status string) *domain.JobApplication {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/core/JobApplications", token, map[string]string{
		"company":     company,
		"role":        "Backend Engineer",
		"status":      status,
		"appliedDate": "2024-05-01",
		"city":        "Brussels",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[*domain.JobApplication](t, w)
}
