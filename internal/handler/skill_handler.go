package handler

import (
	"net/http"

	"coreapi/internal/domain"
	"coreapi/internal/domain/dto"
	"coreapi/internal/service"

	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	skillService *service.SectionService[*domain.Skill]
}

func NewSkillHandler(skillService *service.SectionService[*domain.Skill]) *SkillHandler {
	return &SkillHandler{
		skillService: skillService,
	}
}

// ListSkills handles GET /resumes/:resumeId/skills with an optional
// category filter.
func (h *SkillHandler) ListSkills(c *gin.Context) {
	resumeID, ok := uuidParam(c, "resumeId")
	if !ok {
		return
	}

	category := c.Query("category")
	if category != "" && !domain.IsValidSkillCategory(category) {
		respondError(c, domain.NewValidationError("category", "Invalid skill category", domain.ErrInvalidField), "Invalid request")
		return
	}

	skills, err := h.skillService.List(c.Request.Context(), resumeID)
	if err != nil {
		respondError(c, err, "Failed to retrieve skills")
		return
	}

	if category != "" {
		filtered := make([]*domain.Skill, 0, len(skills))
		for _, s := range skills {
			if s.Category == category {
				filtered = append(filtered, s)
			}
		}
		skills = filtered
	}

	c.JSON(http.StatusOK, dto.NewSectionList(skills))
}

// GetSkillCategories handles GET /skill-categories.
func (h *SkillHandler) GetSkillCategories(c *gin.Context) {
	categories := domain.GetSkillCategoryKeys()
	c.JSON(http.StatusOK, dto.CategoriesResponse{
		Categories: categories,
		Total:      len(categories),
	})
}
