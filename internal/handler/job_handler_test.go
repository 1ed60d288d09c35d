package handler

import (
	"net/http"
	"testing"

	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationBody struct {
	Error   string                  `json:"error"`
	Details domain.ValidationErrors `json:"details"`
}

func TestJobHandlerRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/core/JobApplications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MISSING_AUTH", decode[gin.H](t, w)["code"])

	w = s.do(t, http.MethodGet, "/api/core/JobApplications", "nobody", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALID", decode[gin.H](t, w)["code"])
}

func TestJobHandlerCreateValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/core/JobApplications", "alice", map[string]string{
		"role":        "Engineer",
		"appliedDate": "2024-05-01",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[validationBody](t, w)
	assert.Equal(t, "Validation failed", body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "Company is required", body.Details[0].Message)
	assert.Empty(t, s.jobs.jobs)
}

func TestJobHandlerCRUD(t *testing.T) {
	s := newTestServer(t)

	job := createJob(t, s, "alice", "Acme", "")
	assert.Equal(t, domain.JobStatusApplied, job.Status)
	createJob(t, s, "alice", "Globex", "Offer")
	createJob(t, s, "bob", "Initech", "Offer")

	t.Run("list is scoped and filterable", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/core/JobApplications", "alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]*domain.JobApplication](t, w), 2)

		w = s.do(t, http.MethodGet, "/api/core/JobApplications?status=Offer", "alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		offers := decode[[]*domain.JobApplication](t, w)
		require.Len(t, offers, 1)
		assert.Equal(t, "Globex", offers[0].Company)
	})

	t.Run("analytics over the filtered list", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/core/JobApplications/analytics", "alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		result := decode[dto.JobAnalyticsResponse](t, w)
		assert.Equal(t, 2, result.Stats.TotalFiltered)
		assert.Equal(t, 50.0, result.Stats.SuccessRate)
		assert.Equal(t, []string{"Acme", "Globex"}, result.Options.Companies)
	})

	t.Run("other users get 404", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/core/JobApplications/"+job.ID.String(), "bob", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("put with mismatched id", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/core/JobApplications/"+job.ID.String(), "alice", map[string]string{
			"id":          "33333333-3333-3333-3333-333333333333",
			"company":     "Acme",
			"role":        "Engineer",
			"appliedDate": "2024-05-01",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ID mismatch", decode[gin.H](t, w)["error"])
	})

	t.Run("put replaces the record", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/core/JobApplications/"+job.ID.String(), "alice", map[string]string{
			"id":          job.ID.String(),
			"company":     "Acme Corp",
			"role":        "Staff Engineer",
			"status":      "Interview",
			"appliedDate": "2024-05-01",
		})
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		stored := s.jobs.jobs[job.ID]
		assert.Equal(t, "Acme Corp", stored.Company)
		assert.Equal(t, domain.JobStatusInterview, stored.Status)
		assert.NotNil(t, stored.UpdatedAt)
	})

	t.Run("delete", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/core/JobApplications/"+job.ID.String(), "bob", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodDelete, "/api/core/JobApplications/"+job.ID.String(), "alice", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.NotContains(t, s.jobs.jobs, job.ID)
	})

	t.Run("bad id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/core/JobApplications/not-a-uuid", "alice", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestJobHandlerDashboard(t *testing.T) {
	s := newTestServer(t)
	job := createJob(t, s, "alice", "Acme", "Interview")

	w := s.do(t, http.MethodPost, "/api/core/TimelineMilestones", "alice", map[string]interface{}{
		"jobApplicationId": job.ID,
		"type":             "interview_scheduled",
		"date":             "2024-05-10",
		"isCompleted":      true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/core/JobApplications/dashboard", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	result := decode[dto.DashboardResponse](t, w)
	assert.Len(t, result.Jobs, 1)
	assert.Equal(t, 1, result.Analytics.TotalApplications)
	assert.Equal(t, 1, result.Analytics.TotalMilestones)
	require.Len(t, result.Insights, 1)
	assert.Equal(t, "Acme", result.Insights[0].Company)
}
