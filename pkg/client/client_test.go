package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestFetchJobApplications(t *testing.T) {
	mux := http.NewServeMux()
	var gotAuth, gotStatus string
	mux.HandleFunc(jobsPath, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStatus = r.URL.Query().Get("status")
		writeJSON(w, http.StatusOK, []*domain.JobApplication{
			{ID: uuid.New(), Company: "Acme", Role: "Engineer", Status: domain.JobStatus("Offer")},
		})
	})
	c := newTestClient(t, mux)
	c.TokenStore.SetToken("tok")

	jobs, err := c.FetchJobApplications(context.Background(), dto.JobListQuery{Status: "Offer"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "Offer", gotStatus)
}

func TestAPIErrorMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(jobsPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":   "Validation failed",
				"details": domain.ValidationErrors{{Field: "company", Message: "Company is required", Type: domain.ErrRequired}},
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
	})
	mux.HandleFunc(jobsPath+"/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()
	id := uuid.New()

	_, err := c.FetchJobApplications(ctx, dto.JobListQuery{})
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch job applications", err.Error())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.ServerMessage)

	_, err = c.CreateJobApplication(ctx, dto.JobApplicationRequest{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to create job application", apiErr.Message)
	assert.Equal(t, "Company is required", apiErr.Fields.Messages()["company"])

	_, err = c.GetJobApplication(ctx, id)
	assert.EqualError(t, err, "Failed to fetch job application")
	assert.True(t, IsNotFound(err))

	assert.EqualError(t, c.UpdateJobApplication(ctx, id, dto.JobApplicationRequest{}), "Failed to update job application")
	assert.EqualError(t, c.DeleteJobApplication(ctx, id), "Failed to delete job application")
}

func TestUpdateJobApplicationSendsID(t *testing.T) {
	id := uuid.New()
	mux := http.NewServeMux()
	var body dto.JobApplicationRequest
	mux.HandleFunc(jobsPath+"/"+id.String(), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.UpdateJobApplication(context.Background(), id, dto.JobApplicationRequest{Company: "Acme"}))
	require.NotNil(t, body.ID)
	assert.Equal(t, id, *body.ID)
	assert.Equal(t, "Acme", body.Company)
}

func TestLoadDashboard(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(jobsPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []*domain.JobApplication{{ID: uuid.New(), Company: "Acme"}})
	})
	mux.HandleFunc(milestonesPath+"/analytics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"totalApplications": 1})
	})
	mux.HandleFunc(milestonesPath+"/insights", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{{"company": "Acme"}})
	})
	c := newTestClient(t, mux)

	d, err := c.LoadDashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Jobs, 1)
	require.NotNil(t, d.Analytics)
	assert.Len(t, d.Insights, 1)
}

func TestLoadDashboardFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(jobsPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "down"})
	})
	mux.HandleFunc(milestonesPath+"/analytics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	})
	mux.HandleFunc(milestonesPath+"/insights", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []interface{}{})
	})
	c := newTestClient(t, mux)

	_, err := c.LoadDashboard(context.Background())
	assert.EqualError(t, err, "Failed to fetch job applications")
}

func TestListSection(t *testing.T) {
	resumeID := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc(resumesPath+"/"+resumeID.String()+"/skills", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.NewSectionList([]*domain.Skill{{Name: "Go"}, {Name: "SQL"}}))
	})
	c := newTestClient(t, mux)

	skills, err := ListSection[domain.Skill](context.Background(), c, resumeID, domain.SectionSkills)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "Go", skills[0].Name)

	_, err = ListSection[domain.Award](context.Background(), c, resumeID, domain.SectionAwards)
	assert.EqualError(t, err, "Failed to fetch awards")
}

// sessionServer answers /me for one valid token and records logouts.
type sessionServer struct {
	mu      sync.Mutex
	valid   string
	user    *domain.User
	logouts int
}

func (s *sessionServer) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(authPath+"/me", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.valid == "" || r.Header.Get("Authorization") != "Bearer "+s.valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
			return
		}
		writeJSON(w, http.StatusOK, domain.MeResponse{User: s.user, Token: s.valid})
	})
	mux.HandleFunc(authPath+"/logout", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.logouts++
		s.valid = ""
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	})
	return mux
}

func TestAuthWatcherCheck(t *testing.T) {
	s := &sessionServer{valid: "tok", user: &domain.User{ID: uuid.New(), Email: "ada@example.com"}}
	c := newTestClient(t, s.mux())
	w := NewAuthWatcher(c, "http://identity.local", time.Second)

	t.Run("authenticated", func(t *testing.T) {
		c.TokenStore.SetToken("tok")
		state := w.Check(context.Background())
		assert.True(t, state.Authenticated)
		assert.Equal(t, "ada@example.com", state.User.Email)
		assert.Equal(t, "tok", c.TokenStore.Token())

		select {
		case got := <-w.Updates():
			assert.True(t, got.Authenticated)
		default:
			t.Fatal("expected a state update")
		}
	})

	t.Run("unchanged state is not republished", func(t *testing.T) {
		w.Check(context.Background())
		select {
		case <-w.Updates():
			t.Fatal("unexpected update")
		default:
		}
	})

	t.Run("401 clears the token", func(t *testing.T) {
		c.TokenStore.SetToken("stale")
		state := w.Check(context.Background())
		assert.False(t, state.Authenticated)
		assert.Empty(t, c.TokenStore.Token())
		got := <-w.Updates()
		assert.False(t, got.Authenticated)
	})
}

func TestAuthWatcherSignOut(t *testing.T) {
	s := &sessionServer{valid: "tok", user: &domain.User{ID: uuid.New()}}
	c := newTestClient(t, s.mux())
	c.TokenStore.SetToken("tok")
	w := NewAuthWatcher(c, "http://identity.local", time.Second)
	w.Check(context.Background())

	require.NoError(t, w.SignOut(context.Background()))
	assert.Equal(t, 1, s.logouts)
	assert.Empty(t, c.TokenStore.Token())
	assert.False(t, w.State().Authenticated)
}

func TestAuthWatcherRunStopsOnCancel(t *testing.T) {
	s := &sessionServer{valid: "tok", user: &domain.User{ID: uuid.New()}}
	c := newTestClient(t, s.mux())
	c.TokenStore.SetToken("tok")
	w := NewAuthWatcher(c, "http://identity.local", 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case state := <-w.Updates():
		assert.True(t, state.Authenticated)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never published")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestAuthWatcherURLs(t *testing.T) {
	w := NewAuthWatcher(New("http://api.local"), "http://identity.local", 0)
	assert.Equal(t, "http://identity.local/login?returnUrl=http%3A%2F%2Fjobs.local%2F", w.SignInURL("http://jobs.local/"))
	assert.Equal(t, "http://identity.local/logout?returnUrl=http%3A%2F%2Fjobs.local%2F", w.SignOutURL("http://jobs.local/"))
}
