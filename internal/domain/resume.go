package domain

import (
	"time"

	"github.com/google/uuid"
)

type ContactInfo struct {
	FullName string `json:"fullName" validate:"max=100"`
	Email    string `json:"email" validate:"omitempty,email,max=100"`
	Phone    string `json:"phone" validate:"max=50"`
	Location string `json:"location" validate:"max=200"`
}

// Resume is the aggregate every section hangs off.
type Resume struct {
	ID        uuid.UUID    `json:"id"`
	UserID    string       `json:"userId"`
	Title     string       `json:"title" validate:"required,max=250"`
	Summary   string       `json:"summary" validate:"max=2000"`
	Contact   *ContactInfo `json:"contact,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (r *Resume) BeforeSave() {
	clean(&r.Title, &r.Summary)
	if r.Contact != nil {
		clean(&r.Contact.FullName, &r.Contact.Email, &r.Contact.Phone, &r.Contact.Location)
	}

	now := time.Now().UTC()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

func (r *Resume) Validate() error {
	return ValidateStruct(r)
}

// OwnedBy reports whether userID may modify the resume.
func (r *Resume) OwnedBy(userID string, isAdmin bool) bool {
	return isAdmin || r.UserID == userID
}

// ResumeDetail is a resume with every section loaded.
type ResumeDetail struct {
	Resume
	WorkExperiences []*WorkExperience `json:"workExperiences"`
	Skills          []*Skill          `json:"skills"`
	Educations      []*Education      `json:"educations"`
	Certificates    []*Certificate    `json:"certificates"`
	Projects        []*Project        `json:"projects"`
	SocialLinks     []*SocialLink     `json:"socialLinks"`
	Languages       []*Language       `json:"languages"`
	Awards          []*Award          `json:"awards"`
	References      []*Reference      `json:"references"`
}
