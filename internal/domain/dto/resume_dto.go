package dto

import "coreapi/internal/domain"

type ResumeRequest struct {
	Title   string              `json:"title"`
	Summary string              `json:"summary"`
	Contact *domain.ContactInfo `json:"contact,omitempty"`
}

func (req *ResumeRequest) ToResume(userID string) *domain.Resume {
	r := &domain.Resume{UserID: userID}
	req.ApplyTo(r)
	return r
}

func (req *ResumeRequest) ApplyTo(r *domain.Resume) {
	r.Title = req.Title
	r.Summary = req.Summary
	r.Contact = req.Contact
}

// ResumeListQuery: admins see every resume unless MyResumes is set.
type ResumeListQuery struct {
	MyResumes bool `form:"myResumes"`
}
