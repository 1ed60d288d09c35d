package repository

import (
	"database/sql"

	"coreapi/internal/domain"
)

func NewSectionRepositories(db *sql.DB) *domain.SectionRepositories {
	return &domain.SectionRepositories{
		WorkExperiences: newSectionRepository(db, workExperienceTable),
		Skills:          newSectionRepository(db, skillTable),
		Educations:      newSectionRepository(db, educationTable),
		Certificates:    newSectionRepository(db, certificateTable),
		Projects:        newSectionRepository(db, projectTable),
		SocialLinks:     newSectionRepository(db, socialLinkTable),
		Languages:       newSectionRepository(db, languageTable),
		Awards:          newSectionRepository(db, awardTable),
		References:      newSectionRepository(db, referenceTable),
	}
}

var workExperienceTable = sectionTable[domain.WorkExperience, *domain.WorkExperience]{
	name: "work_experiences",
	columns: []string{"job_title", "company_name", "location", "start_date", "end_date",
		"is_current", "description", "achievements", "sort_order", "highlighted"},
	orderBy: "sort_order ASC, start_date DESC",
	fields: func(e *domain.WorkExperience) []interface{} {
		return []interface{}{&e.JobTitle, &e.CompanyName, &e.Location, &e.StartDate, &e.EndDate,
			&e.IsCurrent, &e.Description, stringList(&e.Achievements), &e.SortOrder, &e.Highlighted}
	},
}

var skillTable = sectionTable[domain.Skill, *domain.Skill]{
	name:    "skills",
	columns: []string{"name", "category", "level", "rating"},
	orderBy: "category ASC, name ASC",
	fields: func(s *domain.Skill) []interface{} {
		return []interface{}{&s.Name, &s.Category, &s.Level, &s.Rating}
	},
}

var educationTable = sectionTable[domain.Education, *domain.Education]{
	name:    "educations",
	columns: []string{"institution", "degree", "field_of_study", "start_date", "end_date", "description"},
	orderBy: "start_date DESC",
	fields: func(e *domain.Education) []interface{} {
		return []interface{}{&e.Institution, &e.Degree, &e.FieldOfStudy, &e.StartDate, &e.EndDate, &e.Description}
	},
}

var certificateTable = sectionTable[domain.Certificate, *domain.Certificate]{
	name:    "certificates",
	columns: []string{"name", "issuer", "issue_date", "expiry_date", "credential_id", "credential_url"},
	orderBy: "issue_date DESC",
	fields: func(c *domain.Certificate) []interface{} {
		return []interface{}{&c.Name, &c.Issuer, &c.IssueDate, &c.ExpiryDate, &c.CredentialID, &c.CredentialURL}
	},
}

var projectTable = sectionTable[domain.Project, *domain.Project]{
	name:    "projects",
	columns: []string{"name", "description", "link", "technologies"},
	orderBy: "created_at DESC",
	fields: func(p *domain.Project) []interface{} {
		return []interface{}{&p.Name, &p.Description, &p.Link, stringList(&p.Technologies)}
	},
}

var socialLinkTable = sectionTable[domain.SocialLink, *domain.SocialLink]{
	name:    "social_links",
	columns: []string{"platform", "url"},
	orderBy: "platform ASC",
	fields: func(s *domain.SocialLink) []interface{} {
		return []interface{}{&s.Platform, &s.URL}
	},
}

var languageTable = sectionTable[domain.Language, *domain.Language]{
	name:    "languages",
	columns: []string{"name", "level"},
	orderBy: "level DESC, name ASC",
	fields: func(l *domain.Language) []interface{} {
		return []interface{}{&l.Name, &l.Level}
	},
}

var awardTable = sectionTable[domain.Award, *domain.Award]{
	name:    "awards",
	columns: []string{"title", "issuer", "awarded_date", "description"},
	orderBy: "awarded_date DESC",
	fields: func(a *domain.Award) []interface{} {
		return []interface{}{&a.Title, &a.Issuer, &a.AwardedDate, &a.Description}
	},
}

var referenceTable = sectionTable[domain.Reference, *domain.Reference]{
	name:    "resume_references",
	columns: []string{"name", "relationship", "contact_info"},
	orderBy: "name ASC",
	fields: func(r *domain.Reference) []interface{} {
		return []interface{}{&r.Name, &r.Relationship, &r.ContactInfo}
	},
}
