package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SectionKind names a resume sub-collection; the value doubles as the URL
// segment under /resumes/:resumeId.
type SectionKind string

const (
	SectionWorkExperiences SectionKind = "work-experiences"
	SectionSkills          SectionKind = "skills"
	SectionEducations      SectionKind = "educations"
	SectionCertificates    SectionKind = "certificates"
	SectionProjects        SectionKind = "projects"
	SectionSocialLinks     SectionKind = "social-links"
	SectionLanguages       SectionKind = "languages"
	SectionAwards          SectionKind = "awards"
	SectionReferences      SectionKind = "references"
)

// SectionBase holds the columns every section row shares.
type SectionBase struct {
	ID        uuid.UUID `json:"id"`
	ResumeID  uuid.UUID `json:"resumeId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *SectionBase) Base() *SectionBase { return b }

func (b *SectionBase) stamp() {
	now := time.Now().UTC()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Section is implemented by the pointer type of every resume section.
type Section interface {
	Base() *SectionBase
	BeforeSave()
	Validate() error
}

// SectionPtr lets generic code allocate a T and use it as a Section.
type SectionPtr[T any] interface {
	*T
	Section
}

type SocialLink struct {
	SectionBase
	Platform string `json:"platform" validate:"required,max=50"`
	URL      string `json:"url" validate:"required,url,max=500"`
}

func (s *SocialLink) BeforeSave() {
	clean(&s.Platform, &s.URL)
	s.stamp()
}

func (s *SocialLink) Validate() error { return ValidateStruct(s) }

type Language struct {
	SectionBase
	Name  string `json:"name" validate:"required,max=50"`
	Level int    `json:"level" validate:"min=1,max=5"`
}

func (l *Language) BeforeSave() {
	clean(&l.Name)
	l.stamp()
}

func (l *Language) Validate() error { return ValidateStruct(l) }

type Award struct {
	SectionBase
	Title       string    `json:"title" validate:"required,max=200"`
	Issuer      string    `json:"issuer" validate:"required,max=200"`
	AwardedDate time.Time `json:"awardedDate" validate:"required"`
	Description string    `json:"description" validate:"max=1000"`
}

func (a *Award) BeforeSave() {
	clean(&a.Title, &a.Issuer, &a.Description)
	a.stamp()
}

func (a *Award) Validate() error { return ValidateStruct(a) }

func (a *Award) UnmarshalJSON(b []byte) error {
	type plain Award
	aux := struct {
		*plain
		AwardedDate dateField `json:"awardedDate"`
	}{plain: (*plain)(a), AwardedDate: dateField{&a.AwardedDate}}
	return json.Unmarshal(b, &aux)
}

type Reference struct {
	SectionBase
	Name         string `json:"name" validate:"required,max=100"`
	Relationship string `json:"relationship" validate:"required,max=100"`
	ContactInfo  string `json:"contactInfo" validate:"required,max=200"`
}

func (r *Reference) BeforeSave() {
	clean(&r.Name, &r.Relationship, &r.ContactInfo)
	r.stamp()
}

func (r *Reference) Validate() error { return ValidateStruct(r) }

type Certificate struct {
	SectionBase
	Name          string     `json:"name" validate:"required,max=200"`
	Issuer        string     `json:"issuer" validate:"required,max=200"`
	IssueDate     time.Time  `json:"issueDate" validate:"required"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	CredentialID  string     `json:"credentialId" validate:"max=100"`
	CredentialURL string     `json:"credentialUrl" validate:"omitempty,url,max=500"`
}

func (c *Certificate) BeforeSave() {
	clean(&c.Name, &c.Issuer, &c.CredentialID, &c.CredentialURL)
	c.stamp()
}

func (c *Certificate) Validate() error { return ValidateStruct(c) }

func (c *Certificate) dateRange() (time.Time, *time.Time) { return c.IssueDate, c.ExpiryDate }

func (c *Certificate) UnmarshalJSON(b []byte) error {
	type plain Certificate
	aux := struct {
		*plain
		IssueDate  dateField         `json:"issueDate"`
		ExpiryDate optionalDateField `json:"expiryDate"`
	}{plain: (*plain)(c), IssueDate: dateField{&c.IssueDate}, ExpiryDate: optionalDateField{&c.ExpiryDate}}
	return json.Unmarshal(b, &aux)
}

// Expired reports whether the certificate has lapsed at now.
func (c *Certificate) Expired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}

type Project struct {
	SectionBase
	Name         string   `json:"name" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=2000"`
	Link         string   `json:"link" validate:"omitempty,url,max=500"`
	Technologies []string `json:"technologies" validate:"max=30,dive,max=100"`
}

func (p *Project) BeforeSave() {
	clean(&p.Name, &p.Description, &p.Link)
	p.Technologies = defaultSanitizer.SanitizeStrings(p.Technologies...)
	p.stamp()
}

func (p *Project) Validate() error { return ValidateStruct(p) }
