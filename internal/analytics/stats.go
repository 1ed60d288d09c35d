package analytics

import (
	"math"
	"time"

	"coreapi/internal/domain"
)

type FilteredStats struct {
	TotalFiltered      int                      `json:"totalFiltered"`
	SuccessRate        float64                  `json:"successRate"`
	RejectionRate      float64                  `json:"rejectionRate"`
	AverageDaysApplied int                      `json:"averageDaysApplied"`
	ByStatus           map[domain.JobStatus]int `json:"byStatus"`
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}

// Summarize aggregates an already filtered list.
func Summarize(jobs []*domain.JobApplication, now time.Time) FilteredStats {
	stats := FilteredStats{
		TotalFiltered: len(jobs),
		ByStatus:      map[domain.JobStatus]int{},
	}
	if len(jobs) == 0 {
		return stats
	}

	days := 0
	for _, j := range jobs {
		stats.ByStatus[j.Status]++
		days += j.DaysSinceApplied(now)
	}

	stats.SuccessRate = percent(stats.ByStatus[domain.JobStatusOffer], len(jobs))
	stats.RejectionRate = percent(stats.ByStatus[domain.JobStatusRejected], len(jobs))
	stats.AverageDaysApplied = int(math.Round(float64(days) / float64(len(jobs))))
	return stats
}
