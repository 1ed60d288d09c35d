package handler

import (
	"net/http"
	"testing"

	"coreapi/internal/analytics"
	"coreapi/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestoneHandlerCreate(t *testing.T) {
	s := newTestServer(t)
	job := createJob(t, s, "alice", "Acme", "Applied")

	t.Run("foreign job is rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/core/TimelineMilestones", "bob", map[string]interface{}{
			"jobApplicationId": job.ID,
			"type":             "resume_sent",
			"date":             "2024-05-02",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Job application not found or access denied", decode[gin.H](t, w)["error"])
	})

	t.Run("unknown type fails validation", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/core/TimelineMilestones", "alice", map[string]interface{}{
			"jobApplicationId": job.ID,
			"type":             "coffee_chat",
			"date":             "2024-05-02",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Validation failed", decode[validationBody](t, w).Error)
	})

	t.Run("defaults and parent touch", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/core/TimelineMilestones", "alice", map[string]interface{}{
			"jobApplicationId": job.ID,
			"type":             "resume_sent",
			"date":             "2024-05-02",
			"isCompleted":      true,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		m := decode[domain.TimelineMilestone](t, w)
		assert.Equal(t, "Resume Sent", m.Title)
		assert.Equal(t, domain.MilestoneStatusPending, m.Status)
		assert.NotNil(t, m.CompletedDate)
		assert.NotNil(t, s.jobs.jobs[job.ID].UpdatedAt)
	})

	t.Run("list and progress", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/core/TimelineMilestones/job/"+job.ID.String(), "alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]domain.TimelineMilestone](t, w), 1)

		w = s.do(t, http.MethodGet, "/api/core/TimelineMilestones/job/"+job.ID.String(), "bob", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodGet, "/api/core/TimelineMilestones/progress/"+job.ID.String(), "alice", nil)
		require.Equal(t, http.StatusOK, w.Code)
		progress := decode[analytics.TimelineProgress](t, w)
		require.NotEmpty(t, progress.StageProgress)
		assert.Equal(t, 100.0, progress.StageProgress[0].Progress)
	})
}
