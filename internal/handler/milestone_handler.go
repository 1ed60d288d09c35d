package handler

import (
	"net/http"

	"coreapi/internal/domain/dto"
	"coreapi/internal/service"

	"github.com/gin-gonic/gin"
)

type MilestoneHandler struct {
	milestoneService service.MilestoneService
}

func NewMilestoneHandler(milestoneService service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestoneService: milestoneService}
}

func (h *MilestoneHandler) ListByJob(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	jobID, ok := uuidParam(c, "jobId")
	if !ok {
		return
	}

	milestones, err := h.milestoneService.ListByJob(c.Request.Context(), caller.UserID.String(), jobID)
	if err != nil {
		respondError(c, err, "Failed to fetch milestones")
		return
	}
	c.JSON(http.StatusOK, milestones)
}

func (h *MilestoneHandler) Get(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	m, err := h.milestoneService.Get(c.Request.Context(), caller.UserID.String(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch milestone")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MilestoneHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req dto.MilestoneRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.milestoneService.Create(c.Request.Context(), caller.UserID.String(), &req)
	if err != nil {
		respondError(c, err, "Failed to create milestone")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MilestoneHandler) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.MilestoneRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.milestoneService.Update(c.Request.Context(), caller.UserID.String(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update milestone")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MilestoneHandler) Delete(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.milestoneService.Delete(c.Request.Context(), caller.UserID.String(), id); err != nil {
		respondError(c, err, "Failed to delete milestone")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MilestoneHandler) Analytics(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	result, err := h.milestoneService.Analytics(c.Request.Context(), caller.UserID.String())
	if err != nil {
		respondError(c, err, "Failed to fetch timeline analytics")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MilestoneHandler) Progress(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	jobID, ok := uuidParam(c, "jobId")
	if !ok {
		return
	}

	result, err := h.milestoneService.Progress(c.Request.Context(), caller.UserID.String(), jobID)
	if err != nil {
		respondError(c, err, "Failed to fetch timeline progress")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MilestoneHandler) Insights(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	result, err := h.milestoneService.Insights(c.Request.Context(), caller.UserID.String())
	if err != nil {
		respondError(c, err, "Failed to fetch insights")
		return
	}
	c.JSON(http.StatusOK, result)
}
