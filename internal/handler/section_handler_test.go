package handler

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"coreapi/internal/domain"
	"coreapi/internal/middleware"
	"coreapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memResumeRepo struct {
	mu      sync.Mutex
	resumes map[uuid.UUID]*domain.Resume
}

func (r *memResumeRepo) Create(_ context.Context, resume *domain.Resume) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *resume
	r.resumes[resume.ID] = &cp
	return nil
}

func (r *memResumeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.resumes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *resume
	return &cp, nil
}

func (r *memResumeRepo) List(_ context.Context, userID string, all bool) ([]*domain.Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Resume{}
	for _, resume := range r.resumes {
		if all || resume.UserID == userID {
			cp := *resume
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memResumeRepo) Update(ctx context.Context, resume *domain.Resume) error {
	return r.Create(ctx, resume)
}

func (r *memResumeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resumes, id)
	return nil
}

type memSectionRepo[P domain.Section] struct {
	mu    sync.Mutex
	items map[uuid.UUID]P
}

func newMemSectionRepo[P domain.Section]() *memSectionRepo[P] {
	return &memSectionRepo[P]{items: map[uuid.UUID]P{}}
}

func (r *memSectionRepo[P]) List(_ context.Context, resumeID uuid.UUID) ([]P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []P{}
	for _, item := range r.items {
		if item.Base().ResumeID == resumeID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *memSectionRepo[P]) Get(_ context.Context, resumeID, id uuid.UUID) (P, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.Base().ResumeID != resumeID {
		var zero P
		return zero, domain.ErrNotFound
	}
	return item, nil
}

func (r *memSectionRepo[P]) Create(_ context.Context, section P) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[section.Base().ID] = section
	return nil
}

func (r *memSectionRepo[P]) Update(ctx context.Context, section P) error {
	return r.Create(ctx, section)
}

func (r *memSectionRepo[P]) Delete(_ context.Context, resumeID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[id]; !ok || item.Base().ResumeID != resumeID {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// newSectionServer mounts every section route over in-memory stores and
// returns a resume owned by alice.
func newSectionServer(t *testing.T) (*testServer, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resumeID := uuid.New()
	resumes := &memResumeRepo{resumes: map[uuid.UUID]*domain.Resume{
		resumeID: {ID: resumeID, UserID: aliceID.String(), Title: "Backend"},
	}}
	services := service.NewSectionServices(resumes, &domain.SectionRepositories{
		WorkExperiences: newMemSectionRepo[*domain.WorkExperience](),
		Skills:          newMemSectionRepo[*domain.Skill](),
		Educations:      newMemSectionRepo[*domain.Education](),
		Certificates:    newMemSectionRepo[*domain.Certificate](),
		Projects:        newMemSectionRepo[*domain.Project](),
		SocialLinks:     newMemSectionRepo[*domain.SocialLink](),
		Languages:       newMemSectionRepo[*domain.Language](),
		Awards:          newMemSectionRepo[*domain.Award](),
		References:      newMemSectionRepo[*domain.Reference](),
	})

	r := gin.New()
	RegisterSectionRoutes(r.Group("/api/resumes/:resumeId"), middleware.AuthMiddleware(tokenValidator{}), services)
	return &testServer{router: r}, resumeID
}

func TestSectionCalendarDates(t *testing.T) {
	s, resumeID := newSectionServer(t)
	base := "/api/resumes/" + resumeID.String()
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		name string
		path string
		body map[string]interface{}
	}{
		{
			name: "education",
			path: "/educations",
			body: map[string]interface{}{"institution": "ULB", "degree": "MSc", "startDate": "2020-09-01", "endDate": "2022-06-30"},
		},
		{
			name: "work experience",
			path: "/work-experiences",
			body: map[string]interface{}{"jobTitle": "Developer", "companyName": "Acme", "startDate": "2021-03-01", "endDate": nil, "isCurrent": true},
		},
		{
			name: "certificate",
			path: "/certificates",
			body: map[string]interface{}{"name": "CKA", "issuer": "CNCF", "issueDate": "2023-01-10", "expiryDate": "2026-01-10"},
		},
		{
			name: "award",
			path: "/awards",
			body: map[string]interface{}{"title": "Best Talk", "issuer": "FOSDEM", "awardedDate": "2019-02-03"},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, base+tt.path, "alice", tt.body)
			assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		})
	}

	t.Run("created education keeps the calendar dates", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base+"/educations", "alice", map[string]string{
			"institution": "KU Leuven", "degree": "BSc", "startDate": "2016-09-15", "endDate": "2019-07-01",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		created := decode[domain.Education](t, w)
		assert.Equal(t, day(2016, 9, 15), created.StartDate)
		require.NotNil(t, created.EndDate)
		assert.Equal(t, day(2019, 7, 1), *created.EndDate)

		w = s.do(t, http.MethodPut, base+"/educations/"+created.ID.String(), "alice", map[string]string{
			"institution": "KU Leuven", "degree": "BSc", "startDate": "2016-09-15", "endDate": "2019-09-30",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decode[domain.Education](t, w)
		require.NotNil(t, updated.EndDate)
		assert.Equal(t, day(2019, 9, 30), *updated.EndDate)
	})

	t.Run("end before start", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base+"/educations", "alice", map[string]string{
			"institution": "ULB", "degree": "MSc", "startDate": "2020-09-01", "endDate": "2019-06-30",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decode[validationBody](t, w)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "endDate", body.Details[0].Field)
	})

	t.Run("unparseable date", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base+"/awards", "alice", map[string]string{
			"title": "Best Talk", "issuer": "FOSDEM", "awardedDate": "03/02/2019",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid request format")
	})
}
