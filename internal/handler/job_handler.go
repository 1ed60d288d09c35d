package handler

import (
	"net/http"

	"coreapi/internal/domain/dto"
	"coreapi/internal/service"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService service.JobService
}

func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

func (h *JobHandler) List(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var query dto.JobListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	jobs, err := h.jobService.List(c.Request.Context(), caller.UserID.String(), query)
	if err != nil {
		respondError(c, err, "Failed to fetch job applications")
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) Analytics(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var query dto.JobListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	result, err := h.jobService.Analytics(c.Request.Context(), caller.UserID.String(), query)
	if err != nil {
		respondError(c, err, "Failed to compute job analytics")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) Dashboard(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	result, err := h.jobService.Dashboard(c.Request.Context(), caller.UserID.String())
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) Get(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.Get(c.Request.Context(), caller.UserID.String(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch job application")
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.JobApplicationRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), caller.UserID.String(), &req)
	if err != nil {
		respondError(c, err, "Failed to create job application")
		return
	}

	c.Header("Location", "/api/core/JobApplications/"+job.ID.String())
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.JobApplicationRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.jobService.Update(c.Request.Context(), caller.UserID.String(), id, &req); err != nil {
		respondError(c, err, "Failed to update job application")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *JobHandler) Delete(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), caller.UserID.String(), id); err != nil {
		respondError(c, err, "Failed to delete job application")
		return
	}
	c.Status(http.StatusNoContent)
}
