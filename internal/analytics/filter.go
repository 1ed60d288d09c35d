// Package analytics filters and aggregates job application lists. Every
// function is pure so the server and the jobctl client share one rendition.
package analytics

import (
	"sort"
	"strings"

	"coreapi/internal/domain"
)

// StatusAll disables the status filter, same as an empty status.
const StatusAll = "All"

type Filter struct {
	Status  string `json:"status,omitempty"`
	City    string `json:"city,omitempty"`
	Company string `json:"company,omitempty"`
	Search  string `json:"search,omitempty"`
}

func (f Filter) Matches(j *domain.JobApplication) bool {
	if f.Status != "" && f.Status != StatusAll && string(j.Status) != f.Status {
		return false
	}
	if f.City != "" && j.City != f.City {
		return false
	}
	if f.Company != "" && j.Company != f.Company {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		hay := strings.ToLower(strings.Join([]string{j.Company, j.Role, j.City, j.Notes}, "\n"))
		if !strings.Contains(hay, needle) {
			return false
		}
	}
	return true
}

// Apply returns the jobs matching f, preserving input order.
func Apply(jobs []*domain.JobApplication, f Filter) []*domain.JobApplication {
	out := make([]*domain.JobApplication, 0, len(jobs))
	for _, j := range jobs {
		if f.Matches(j) {
			out = append(out, j)
		}
	}
	return out
}

type SortKey string

const (
	SortAppliedDate SortKey = "appliedDate"
	SortCompany     SortKey = "company"
	SortRole        SortKey = "role"
	SortStatus      SortKey = "status"
)

// ParseSortKey falls back to SortAppliedDate for unknown input.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortCompany, SortRole, SortStatus:
		return SortKey(s)
	default:
		return SortAppliedDate
	}
}

// Descending resolves an order query value. Applied date defaults to newest
// first, text keys default to ascending.
func Descending(key SortKey, order string) bool {
	switch strings.ToLower(order) {
	case "asc":
		return false
	case "desc":
		return true
	}
	return key == SortAppliedDate
}

// Sort returns a sorted copy of jobs. Ties keep input order.
func Sort(jobs []*domain.JobApplication, key SortKey, desc bool) []*domain.JobApplication {
	out := make([]*domain.JobApplication, len(jobs))
	copy(out, jobs)

	less := func(a, b *domain.JobApplication) bool {
		switch key {
		case SortCompany:
			return strings.ToLower(a.Company) < strings.ToLower(b.Company)
		case SortRole:
			return strings.ToLower(a.Role) < strings.ToLower(b.Role)
		case SortStatus:
			return a.Status < b.Status
		default:
			return a.AppliedDate.Before(b.AppliedDate)
		}
	}

	sort.SliceStable(out, func(i, k int) bool {
		if desc {
			return less(out[k], out[i])
		}
		return less(out[i], out[k])
	})
	return out
}

type FilterOptions struct {
	Cities    []string `json:"cities"`
	Companies []string `json:"companies"`
}

// Options lists the distinct non-empty cities and companies, sorted.
func Options(jobs []*domain.JobApplication) FilterOptions {
	cities := map[string]struct{}{}
	companies := map[string]struct{}{}
	for _, j := range jobs {
		if j.City != "" {
			cities[j.City] = struct{}{}
		}
		if j.Company != "" {
			companies[j.Company] = struct{}{}
		}
	}
	return FilterOptions{Cities: sortedKeys(cities), Companies: sortedKeys(companies)}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
