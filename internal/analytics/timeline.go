package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"coreapi/internal/domain"
)

type CityStatistic struct {
	City             string `json:"city"`
	ApplicationCount int    `json:"applicationCount"`
}

type TimelineAnalytics struct {
	TotalApplications       int             `json:"totalApplications"`
	SuccessRate             float64         `json:"successRate"`
	AverageTimeToOffer      float64         `json:"averageTimeToOffer"`
	TotalMilestones         int             `json:"totalMilestones"`
	CompletedMilestones     int             `json:"completedMilestones"`
	MilestoneCompletionRate float64         `json:"milestoneCompletionRate"`
	MostResponsiveCompanies []string        `json:"mostResponsiveCompanies"`
	TopCities               []CityStatistic `json:"topCities"`
}

const (
	responsiveCompanyLimit = 5
	topCityLimit           = 3
)

// Timeline aggregates a user's jobs and all of their milestones.
func Timeline(jobs []*domain.JobApplication, milestones []*domain.TimelineMilestone) TimelineAnalytics {
	out := TimelineAnalytics{
		TotalApplications:       len(jobs),
		TotalMilestones:         len(milestones),
		MostResponsiveCompanies: []string{},
		TopCities:               []CityStatistic{},
	}

	var offers int
	var offerDays float64
	cityCounts := map[string]int{}
	for _, j := range jobs {
		if j.Status == domain.JobStatusOffer {
			offers++
			offerDays += j.LastActivity().Sub(j.AppliedDate).Hours() / 24
		}
		if j.City != "" {
			cityCounts[j.City]++
		}
	}
	out.SuccessRate = percent(offers, len(jobs))
	if offers > 0 {
		out.AverageTimeToOffer = Round1(offerDays / float64(offers))
	}

	perJob := map[uuid.UUID]int{}
	for _, m := range milestones {
		perJob[m.JobApplicationID]++
		if m.IsCompleted {
			out.CompletedMilestones++
		}
	}
	out.MilestoneCompletionRate = percent(out.CompletedMilestones, out.TotalMilestones)
	out.MostResponsiveCompanies = responsiveCompanies(jobs, perJob)

	for city, n := range cityCounts {
		out.TopCities = append(out.TopCities, CityStatistic{City: city, ApplicationCount: n})
	}
	sort.Slice(out.TopCities, func(i, k int) bool {
		a, b := out.TopCities[i], out.TopCities[k]
		if a.ApplicationCount != b.ApplicationCount {
			return a.ApplicationCount > b.ApplicationCount
		}
		return a.City < b.City
	})
	if len(out.TopCities) > topCityLimit {
		out.TopCities = out.TopCities[:topCityLimit]
	}
	return out
}

// responsiveCompanies takes the five jobs with the most milestones and
// returns their distinct company names.
func responsiveCompanies(jobs []*domain.JobApplication, perJob map[uuid.UUID]int) []string {
	ranked := make([]*domain.JobApplication, 0, len(perJob))
	for _, j := range jobs {
		if perJob[j.ID] > 0 {
			ranked = append(ranked, j)
		}
	}
	sort.SliceStable(ranked, func(i, k int) bool {
		return perJob[ranked[i].ID] > perJob[ranked[k].ID]
	})
	if len(ranked) > responsiveCompanyLimit {
		ranked = ranked[:responsiveCompanyLimit]
	}

	seen := map[string]bool{}
	out := []string{}
	for _, j := range ranked {
		if !seen[j.Company] {
			seen[j.Company] = true
			out = append(out, j.Company)
		}
	}
	return out
}

type TimelineStageProgress struct {
	StageName   string                 `json:"stageName"`
	Milestones  []domain.MilestoneType `json:"milestones"`
	Color       string                 `json:"color"`
	Description string                 `json:"description"`
	IsCompleted bool                   `json:"isCompleted"`
	Progress    float64                `json:"progress"`
}

type TimelineProgress struct {
	JobApplicationID uuid.UUID               `json:"jobApplicationId"`
	Company          string                  `json:"company"`
	Role             string                  `json:"role"`
	CurrentStage     string                  `json:"currentStage"`
	OverallProgress  float64                 `json:"overallProgress"`
	LastUpdated      time.Time               `json:"lastUpdated"`
	NextReminder     *time.Time              `json:"nextReminder,omitempty"`
	StageProgress    []TimelineStageProgress `json:"stageProgress"`
}

// StageCompleted is reported when every stage is done.
const StageCompleted = "Completed"

type stageDef struct {
	name        string
	color       string
	description string
	members     []domain.MilestoneType
	// done lists the types whose completion closes the stage.
	done []domain.MilestoneType
}

var stages = []stageDef{
	{
		name: "Application", color: "#3b82f6", description: "Initial application submitted",
		members: []domain.MilestoneType{domain.MilestoneResumeSent},
		done:    []domain.MilestoneType{domain.MilestoneResumeSent},
	},
	{
		name: "Screening", color: "#8b5cf6", description: "Phone screening phase",
		members: []domain.MilestoneType{domain.MilestonePhoneScreenScheduled, domain.MilestonePhoneScreenCompleted},
		done:    []domain.MilestoneType{domain.MilestonePhoneScreenCompleted},
	},
	{
		name: "Interview", color: "#f59e0b", description: "Main interview process",
		members: []domain.MilestoneType{domain.MilestoneInterviewScheduled, domain.MilestoneInterviewCompleted},
		done:    []domain.MilestoneType{domain.MilestoneInterviewCompleted},
	},
	{
		name: "Follow-up", color: "#10b981", description: "Post-interview communication",
		members: []domain.MilestoneType{domain.MilestoneFollowUpSent, domain.MilestoneFeedbackReceived},
		done:    []domain.MilestoneType{domain.MilestoneFeedbackReceived},
	},
	{
		name: "Offer", color: "#ef4444", description: "Offer and negotiation",
		members: []domain.MilestoneType{
			domain.MilestoneOfferNegotiationStarted, domain.MilestoneOfferReceived,
			domain.MilestoneOfferAccepted, domain.MilestoneOfferDeclined,
		},
		done: []domain.MilestoneType{domain.MilestoneOfferAccepted, domain.MilestoneOfferDeclined},
	},
}

func hasType(types []domain.MilestoneType, t domain.MilestoneType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

func (s stageDef) evaluate(milestones []*domain.TimelineMilestone) TimelineStageProgress {
	var present, completed int
	closed := false
	for _, m := range milestones {
		if !hasType(s.members, m.Type) {
			continue
		}
		present++
		if m.IsCompleted {
			completed++
			if hasType(s.done, m.Type) {
				closed = true
			}
		}
	}

	progress := percent(completed, present)
	// single-type stages are all or nothing
	if len(s.members) == 1 {
		progress = 0
		if closed {
			progress = 100
		}
	}

	members := make([]domain.MilestoneType, len(s.members))
	copy(members, s.members)
	return TimelineStageProgress{
		StageName:   s.name,
		Milestones:  members,
		Color:       s.color,
		Description: s.description,
		IsCompleted: closed,
		Progress:    progress,
	}
}

// Progress evaluates the five hiring stages of one job.
func Progress(job *domain.JobApplication, milestones []*domain.TimelineMilestone, now time.Time) TimelineProgress {
	out := TimelineProgress{
		JobApplicationID: job.ID,
		Company:          job.Company,
		Role:             job.Role,
		CurrentStage:     StageCompleted,
		LastUpdated:      job.LastActivity(),
		StageProgress:    make([]TimelineStageProgress, 0, len(stages)),
	}

	var total float64
	for _, def := range stages {
		sp := def.evaluate(milestones)
		total += sp.Progress
		if !sp.IsCompleted && out.CurrentStage == StageCompleted {
			out.CurrentStage = sp.StageName
		}
		out.StageProgress = append(out.StageProgress, sp)
	}
	out.OverallProgress = Round1(total / float64(len(stages)))

	var last *domain.TimelineMilestone
	for _, m := range milestones {
		if last == nil || m.Date.After(last.Date) {
			last = m
		}
		if m.ReminderDate != nil && m.ReminderDate.After(now) {
			if out.NextReminder == nil || m.ReminderDate.Before(*out.NextReminder) {
				r := *m.ReminderDate
				out.NextReminder = &r
			}
		}
	}
	if last != nil {
		out.LastUpdated = last.LastTouched()
	}
	return out
}

type JobSearchInsight struct {
	JobApplicationID         uuid.UUID        `json:"jobApplicationId"`
	Company                  string           `json:"company"`
	Role                     string           `json:"role"`
	AppliedDate              time.Time        `json:"appliedDate"`
	Status                   domain.JobStatus `json:"status"`
	DaysSinceApplication     int              `json:"daysSinceApplication"`
	MilestonesCount          int              `json:"milestonesCount"`
	CompletedMilestonesCount int              `json:"completedMilestonesCount"`
	ProgressPercentage       float64          `json:"progressPercentage"`
	LastMilestoneDate        *time.Time       `json:"lastMilestoneDate,omitempty"`
	NextRecommendedAction    string           `json:"nextRecommendedAction"`
}

// NextAction is the suggestion shown for a job in the given status.
func NextAction(status domain.JobStatus) string {
	switch status {
	case domain.JobStatusApplied:
		return "Follow up on application"
	case domain.JobStatusInterview:
		return "Prepare for interview"
	case domain.JobStatusOffer:
		return "Review and negotiate offer"
	case domain.JobStatusRejected:
		return "Request feedback for improvement"
	default:
		return "Update application status"
	}
}

// Insights builds one entry per job, longest waiting first.
func Insights(jobs []*domain.JobApplication, milestonesByJob map[uuid.UUID][]*domain.TimelineMilestone, now time.Time) []JobSearchInsight {
	out := make([]JobSearchInsight, 0, len(jobs))
	for _, j := range jobs {
		ms := milestonesByJob[j.ID]
		in := JobSearchInsight{
			JobApplicationID:      j.ID,
			Company:               j.Company,
			Role:                  j.Role,
			AppliedDate:           j.AppliedDate,
			Status:                j.Status,
			DaysSinceApplication:  j.DaysSinceApplied(now),
			MilestonesCount:       len(ms),
			NextRecommendedAction: NextAction(j.Status),
		}
		for _, m := range ms {
			if m.IsCompleted {
				in.CompletedMilestonesCount++
			}
			if in.LastMilestoneDate == nil || m.Date.After(*in.LastMilestoneDate) {
				d := m.Date
				in.LastMilestoneDate = &d
			}
		}
		in.ProgressPercentage = percent(in.CompletedMilestonesCount, in.MilestonesCount)
		out = append(out, in)
	}
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].DaysSinceApplication > out[k].DaysSinceApplication
	})
	return out
}

// GroupByJob indexes milestones by their parent job.
func GroupByJob(milestones []*domain.TimelineMilestone) map[uuid.UUID][]*domain.TimelineMilestone {
	out := make(map[uuid.UUID][]*domain.TimelineMilestone)
	for _, m := range milestones {
		out[m.JobApplicationID] = append(out[m.JobApplicationID], m)
	}
	return out
}
