package handler

import (
	"net/http"

	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"
	"coreapi/internal/service"

	"github.com/gin-gonic/gin"
)

// SectionHandler serves one resume section kind under
// /resumes/:resumeId/<kind>.
type SectionHandler[T any, P domain.SectionPtr[T]] struct {
	svc *service.SectionService[P]
}

func NewSectionHandler[T any, P domain.SectionPtr[T]](svc *service.SectionService[P]) *SectionHandler[T, P] {
	return &SectionHandler[T, P]{svc: svc}
}

func (h *SectionHandler[T, P]) List(c *gin.Context) {
	resumeID, ok := uuidParam(c, "resumeId")
	if !ok {
		return
	}

	items, err := h.svc.List(c.Request.Context(), resumeID)
	if err != nil {
		respondError(c, err, "Failed to fetch "+string(h.svc.Kind()))
		return
	}
	c.JSON(http.StatusOK, dto.NewSectionList(items))
}

func (h *SectionHandler[T, P]) Get(c *gin.Context) {
	resumeID, ok := uuidParam(c, "resumeId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	item, err := h.svc.Get(c.Request.Context(), resumeID, id)
	if err != nil {
		respondError(c, err, "Failed to fetch "+string(h.svc.Kind()))
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *SectionHandler[T, P]) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	resumeID, ok := uuidParam(c, "resumeId")
	if !ok {
		return
	}

	section := P(new(T))
	if !bindJSON(c, section) {
		return
	}

	created, err := h.svc.Create(c.Request.Context(), caller, resumeID, section)
	if err != nil {
		respondError(c, err, "Failed to create "+string(h.svc.Kind()))
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *SectionHandler[T, P]) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	resumeID, ok := uuidParam(c, "resumeId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	section := P(new(T))
	if !bindJSON(c, section) {
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), caller, resumeID, id, section)
	if err != nil {
		respondError(c, err, "Failed to update "+string(h.svc.Kind()))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *SectionHandler[T, P]) Delete(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	resumeID, ok := uuidParam(c, "resumeId")
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), caller, resumeID, id); err != nil {
		respondError(c, err, "Failed to delete "+string(h.svc.Kind()))
		return
	}
	c.Status(http.StatusNoContent)
}

// register mounts the handler. Reads stay public; writes go through auth.
func (h *SectionHandler[T, P]) register(resume *gin.RouterGroup, auth gin.HandlerFunc, list gin.HandlerFunc) {
	g := resume.Group("/" + string(h.svc.Kind()))
	if list == nil {
		list = h.List
	}
	g.GET("", list)
	g.GET("/:id", h.Get)
	g.POST("", auth, h.Create)
	g.PUT("/:id", auth, h.Update)
	g.DELETE("/:id", auth, h.Delete)
}

// RegisterSectionRoutes mounts every section kind on a group rooted at
// /resumes/:resumeId.
func RegisterSectionRoutes(resume *gin.RouterGroup, auth gin.HandlerFunc, services *service.SectionServices) {
	skills := NewSkillHandler(services.Skills)

	NewSectionHandler(services.WorkExperiences).register(resume, auth, nil)
	NewSectionHandler(services.Skills).register(resume, auth, skills.ListSkills)
	NewSectionHandler(services.Educations).register(resume, auth, nil)
	NewSectionHandler(services.Certificates).register(resume, auth, nil)
	NewSectionHandler(services.Projects).register(resume, auth, nil)
	NewSectionHandler(services.SocialLinks).register(resume, auth, nil)
	NewSectionHandler(services.Languages).register(resume, auth, nil)
	NewSectionHandler(services.Awards).register(resume, auth, nil)
	NewSectionHandler(services.References).register(resume, auth, nil)
}
