package dto

import (
	"coreapi/internal/domain"

	"github.com/google/uuid"
)

type MilestoneRequest struct {
	ID               *uuid.UUID `json:"id,omitempty"`
	JobApplicationID uuid.UUID  `json:"jobApplicationId"`
	Type             string     `json:"type"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Date             Date       `json:"date"`
	Status           string     `json:"status"`
	Notes            string     `json:"notes"`
	Attachments      string     `json:"attachments"`
	ReminderDate     *Date      `json:"reminderDate,omitempty"`
	IsCompleted      bool       `json:"isCompleted"`
	Color            string     `json:"color"`
	Icon             string     `json:"icon"`
}

func (req *MilestoneRequest) ToMilestone() *domain.TimelineMilestone {
	m := &domain.TimelineMilestone{}
	req.ApplyTo(m)
	return m
}

// ApplyTo copies the request onto m. The parent job never changes on update.
func (req *MilestoneRequest) ApplyTo(m *domain.TimelineMilestone) {
	if m.JobApplicationID == uuid.Nil {
		m.JobApplicationID = req.JobApplicationID
	}
	m.Type = domain.MilestoneType(req.Type)
	m.Title = req.Title
	m.Description = req.Description
	m.Date = req.Date.Time
	m.Status = req.Status
	m.Notes = req.Notes
	m.Attachments = req.Attachments
	m.ReminderDate = req.ReminderDate.Ptr()
	m.IsCompleted = req.IsCompleted
	m.Color = req.Color
	m.Icon = req.Icon
}
