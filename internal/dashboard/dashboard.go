// Package dashboard derives the overview figures shown by the client from the cached
// projects and roster.
package dashboard

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/mentorflow/mentorflow/internal/domain"
)

// WorkloadCapacity is the number of open projects that counts as a full load.
const WorkloadCapacity = 5

// UpcomingLimit is how many deadlines the overview lists.
const UpcomingLimit = 5

type Stats struct {
	ActiveProjects    int
	CompletedProjects int
	UpcomingDeadlines int
	TotalInterns      int
}

func ComputeStats(projects []*domain.Project, interns []*domain.User, now time.Time) Stats {
	stats := Stats{TotalInterns: len(interns)}
	for _, p := range projects {
		if p.Status == domain.StatusDone {
			stats.CompletedProjects++
			continue
		}
		stats.ActiveProjects++
		if p.Deadline.After(now) {
			stats.UpcomingDeadlines++
		}
	}
	return stats
}

// Upcoming returns projects whose deadline is still ahead, soonest first, at most limit.
func Upcoming(projects []*domain.Project, now time.Time, limit int) []*domain.Project {
	out := make([]*domain.Project, 0, len(projects))
	for _, p := range projects {
		if p.Deadline.After(now) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, func(a, b *domain.Project) int {
		return a.Deadline.Compare(b.Deadline)
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type Load struct {
	Intern       *domain.User
	OpenProjects int
	// Percent of WorkloadCapacity, capped at 100.
	Percent int
}

func Workload(interns []*domain.User, projects []*domain.Project) []Load {
	open := make(map[string]int)
	for _, p := range projects {
		if p.Status != domain.StatusDone {
			open[p.AssignedToID]++
		}
	}

	loads := make([]Load, 0, len(interns))
	for _, intern := range interns {
		count := open[intern.ID]
		loads = append(loads, Load{
			Intern:       intern,
			OpenProjects: count,
			Percent:      min(count*100/WorkloadCapacity, 100),
		})
	}
	return loads
}

type InternSummary struct {
	Active    int
	Completed int
	Total     int
	// CompletionRate is the rounded percentage of done projects, 0 without projects.
	CompletionRate int
}

func SummarizeIntern(internID string, projects []*domain.Project) InternSummary {
	var s InternSummary
	for _, p := range projects {
		if p.AssignedToID != internID {
			continue
		}
		s.Total++
		if p.Status == domain.StatusDone {
			s.Completed++
		} else {
			s.Active++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// StatusAll disables the status part of Filter.
const StatusAll = "all"

// Filter keeps projects with the given status (or any, for StatusAll) whose title or
// description contains query, ignoring case.
func Filter(projects []*domain.Project, status string, query string) []*domain.Project {
	query = strings.ToLower(query)

	out := make([]*domain.Project, 0, len(projects))
	for _, p := range projects {
		if status != StatusAll && string(p.Status) != status {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Title), query) && !strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
