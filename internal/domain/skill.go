package domain

import (
	"sort"
)

// Skill categories offered by the resume editor.
const (
	SkillCategoryLanguage  = "language"
	SkillCategoryFramework = "framework"
	SkillCategoryTool      = "tool"
	SkillCategoryDatabase  = "database"
	SkillCategorySoft      = "soft"
	SkillCategoryOther     = "other"
)

var ValidSkillCategories = map[string]bool{
	SkillCategoryLanguage:  true,
	SkillCategoryFramework: true,
	SkillCategoryTool:      true,
	SkillCategoryDatabase:  true,
	SkillCategorySoft:      true,
	SkillCategoryOther:     true,
}

type Skill struct {
	SectionBase
	Name     string `json:"name" validate:"required,max=100"`
	Category string `json:"category" validate:"omitempty,oneof=language framework tool database soft other"`
	Level    int    `json:"level" validate:"omitempty,min=1,max=5"`
	Rating   int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

func (s *Skill) BeforeSave() {
	clean(&s.Name, &s.Category)
	if s.Category == "" {
		s.Category = SkillCategoryOther
	}
	s.stamp()
}

func (s *Skill) Validate() error { return ValidateStruct(s) }

// GetSkillCategoryKeys returns the categories in stable order.
func GetSkillCategoryKeys() []string {
	keys := make([]string, 0, len(ValidSkillCategories))
	for k := range ValidSkillCategories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func IsValidSkillCategory(category string) bool {
	return ValidSkillCategories[category]
}
