package domain

import (
	"time"

	"github.com/google/uuid"
)

type MilestoneType string

const (
	MilestoneResumeSent              MilestoneType = "resume_sent"
	MilestonePhoneScreenScheduled    MilestoneType = "phone_screen_scheduled"
	MilestonePhoneScreenCompleted    MilestoneType = "phone_screen_completed"
	MilestoneInterviewScheduled      MilestoneType = "interview_scheduled"
	MilestoneInterviewCompleted      MilestoneType = "interview_completed"
	MilestoneFollowUpSent            MilestoneType = "follow_up_sent"
	MilestoneFeedbackReceived        MilestoneType = "feedback_received"
	MilestoneOfferNegotiationStarted MilestoneType = "offer_negotiation_started"
	MilestoneOfferReceived           MilestoneType = "offer_received"
	MilestoneOfferAccepted           MilestoneType = "offer_accepted"
	MilestoneOfferDeclined           MilestoneType = "offer_declined"
	MilestoneRejectionReceived       MilestoneType = "rejection_received"
	MilestoneCustom                  MilestoneType = "custom"
)

// MilestonePresentation is the default title, icon and colour of a type.
type MilestonePresentation struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var milestonePresentations = map[MilestoneType]MilestonePresentation{
	MilestoneResumeSent:              {"Resume Sent", "📄", "#3b82f6"},
	MilestonePhoneScreenScheduled:    {"Phone Screen Scheduled", "📞", "#8b5cf6"},
	MilestonePhoneScreenCompleted:    {"Phone Screen Completed", "✅", "#8b5cf6"},
	MilestoneInterviewScheduled:      {"Interview Scheduled", "🗓️", "#f59e0b"},
	MilestoneInterviewCompleted:      {"Interview Completed", "🎯", "#f59e0b"},
	MilestoneFollowUpSent:            {"Follow-up Sent", "📨", "#10b981"},
	MilestoneFeedbackReceived:        {"Feedback Received", "💬", "#10b981"},
	MilestoneOfferNegotiationStarted: {"Negotiation Started", "🤝", "#ef4444"},
	MilestoneOfferReceived:           {"Offer Received", "🎉", "#ef4444"},
	MilestoneOfferAccepted:           {"Offer Accepted", "🎊", "#22c55e"},
	MilestoneOfferDeclined:           {"Offer Declined", "❌", "#ef4444"},
	MilestoneRejectionReceived:       {"Rejection Received", "📪", "#6b7280"},
	MilestoneCustom:                  {"Custom Milestone", "📌", "#64748b"},
}

func IsValidMilestoneType(t MilestoneType) bool {
	_, ok := milestonePresentations[t]
	return ok
}

func PresentationFor(t MilestoneType) MilestonePresentation {
	if p, ok := milestonePresentations[t]; ok {
		return p
	}
	return milestonePresentations[MilestoneCustom]
}

const (
	MilestoneStatusPending    = "pending"
	MilestoneStatusInProgress = "in_progress"
	MilestoneStatusCompleted  = "completed"
	MilestoneStatusCancelled  = "cancelled"
)

type TimelineMilestone struct {
	ID               uuid.UUID     `json:"id"`
	JobApplicationID uuid.UUID     `json:"jobApplicationId" validate:"required"`
	Type             MilestoneType `json:"type" validate:"required,milestone_type"`
	Title            string        `json:"title" validate:"max=200"`
	Description      string        `json:"description,omitempty" validate:"max=1000"`
	Date             time.Time     `json:"date" validate:"required"`
	Status           string        `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Notes            string        `json:"notes,omitempty" validate:"max=2000"`
	Attachments      string        `json:"attachments,omitempty" validate:"max=2000"`
	ReminderDate     *time.Time    `json:"reminderDate,omitempty"`
	IsCompleted      bool          `json:"isCompleted"`
	CompletedDate    *time.Time    `json:"completedDate,omitempty"`
	Color            string        `json:"color,omitempty" validate:"max=20"`
	Icon             string        `json:"icon,omitempty" validate:"max=20"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        *time.Time    `json:"updatedAt,omitempty"`
}

func (m *TimelineMilestone) BeforeSave() {
	clean(&m.Title, &m.Description, &m.Notes)

	p := PresentationFor(m.Type)
	if m.Title == "" {
		m.Title = p.Title
	}
	if m.Icon == "" {
		m.Icon = p.Icon
	}
	if m.Color == "" {
		m.Color = p.Color
	}
	if m.Status == "" {
		m.Status = MilestoneStatusPending
	}

	now := time.Now().UTC()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	} else {
		m.UpdatedAt = &now
	}
	m.SetCompleted(m.IsCompleted, now)
}

// SetCompleted keeps CompletedDate in step with IsCompleted. An already
// stamped completion date is preserved.
func (m *TimelineMilestone) SetCompleted(done bool, at time.Time) {
	m.IsCompleted = done
	if !done {
		m.CompletedDate = nil
		return
	}
	if m.CompletedDate == nil {
		m.CompletedDate = &at
	}
}

func (m *TimelineMilestone) Validate() error {
	return ValidateStruct(m)
}

// LastTouched is UpdatedAt when present, CreatedAt otherwise.
func (m *TimelineMilestone) LastTouched() time.Time {
	if m.UpdatedAt != nil {
		return *m.UpdatedAt
	}
	return m.CreatedAt
}
