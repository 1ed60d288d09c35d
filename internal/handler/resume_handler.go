package handler

import (
	"net/http"

	"coreapi/internal/domain/dto"
	"coreapi/internal/service"

	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	resumeService service.ResumeService
}

func NewResumeHandler(resumeService service.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

func (h *ResumeHandler) List(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var query dto.ResumeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resumes, err := h.resumeService.List(c.Request.Context(), caller, query)
	if err != nil {
		respondError(c, err, "Failed to fetch resumes")
		return
	}
	c.JSON(http.StatusOK, resumes)
}

func (h *ResumeHandler) Get(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "resumeId")
	if !ok {
		return
	}

	detail, err := h.resumeService.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err, "Failed to fetch resume")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ResumeHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.ResumeRequest
	if !bindJSON(c, &req) {
		return
	}

	resume, err := h.resumeService.Create(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err, "Failed to create resume")
		return
	}
	c.JSON(http.StatusCreated, resume)
}

func (h *ResumeHandler) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "resumeId")
	if !ok {
		return
	}

	var req dto.ResumeRequest
	if !bindJSON(c, &req) {
		return
	}

	resume, err := h.resumeService.Update(c.Request.Context(), caller, id, &req)
	if err != nil {
		respondError(c, err, "Failed to update resume")
		return
	}
	c.JSON(http.StatusOK, resume)
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "resumeId")
	if !ok {
		return
	}

	if err := h.resumeService.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err, "Failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}
