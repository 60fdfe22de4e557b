package dashboard

import (
	"testing"
	"time"

	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func project(id, assignee string, status domain.ProjectStatus, due time.Duration) *domain.Project {
	return &domain.Project{
		ID:           id,
		Title:        "Project " + id,
		AssignedToID: assignee,
		Status:       status,
		Deadline:     now.Add(due),
	}
}

func TestComputeStats(t *testing.T) {
	projects := []*domain.Project{
		project("1", "a", domain.StatusTodo, 24*time.Hour),
		project("2", "a", domain.StatusInProgress, -24*time.Hour),
		project("3", "b", domain.StatusDone, 24*time.Hour),
		project("4", "b", domain.StatusReview, 48*time.Hour),
	}
	interns := []*domain.User{{ID: "a"}, {ID: "b"}}

	assert.Equal(t, Stats{
		ActiveProjects:    3,
		CompletedProjects: 1,
		UpcomingDeadlines: 2,
		TotalInterns:      2,
	}, ComputeStats(projects, interns, now))
}

func TestUpcoming(t *testing.T) {
	projects := []*domain.Project{
		project("late", "a", domain.StatusTodo, -time.Hour),
		project("third", "a", domain.StatusTodo, 72*time.Hour),
		project("first", "a", domain.StatusDone, time.Hour),
		project("second", "a", domain.StatusTodo, 24*time.Hour),
	}

	got := Upcoming(projects, now, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Len(t, Upcoming(projects, now, UpcomingLimit), 3)
}

func TestWorkload(t *testing.T) {
	var projects []*domain.Project
	for i := 0; i < 7; i++ {
		projects = append(projects, project("a", "busy", domain.StatusInProgress, time.Hour))
	}
	projects = append(projects,
		project("b", "light", domain.StatusTodo, time.Hour),
		project("c", "light", domain.StatusDone, time.Hour),
	)
	interns := []*domain.User{{ID: "busy"}, {ID: "light"}, {ID: "idle"}}

	loads := Workload(interns, projects)

	require.Len(t, loads, 3)
	assert.Equal(t, 7, loads[0].OpenProjects)
	assert.Equal(t, 100, loads[0].Percent)
	assert.Equal(t, 1, loads[1].OpenProjects)
	assert.Equal(t, 20, loads[1].Percent)
	assert.Equal(t, 0, loads[2].Percent)
}

func TestSummarizeIntern(t *testing.T) {
	projects := []*domain.Project{
		project("1", "a", domain.StatusDone, 0),
		project("2", "a", domain.StatusDone, 0),
		project("3", "a", domain.StatusTodo, 0),
		project("4", "b", domain.StatusDone, 0),
	}

	assert.Equal(t, InternSummary{Active: 1, Completed: 2, Total: 3, CompletionRate: 67}, SummarizeIntern("a", projects))
	assert.Equal(t, InternSummary{}, SummarizeIntern("nobody", projects))
}

func TestFilter(t *testing.T) {
	projects := []*domain.Project{
		{ID: "1", Title: "ECG interpretation", Description: "Cardiology", Status: domain.StatusTodo},
		{ID: "2", Title: "Case report", Description: "Rare CARDIAC condition", Status: domain.StatusReview},
		{ID: "3", Title: "Literature review", Description: "Neurology", Status: domain.StatusTodo},
	}

	ids := func(ps []*domain.Project) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(projects, StatusAll, "")))
	assert.Equal(t, []string{"1", "2"}, ids(Filter(projects, StatusAll, "card")))
	assert.Equal(t, []string{"2"}, ids(Filter(projects, string(domain.StatusReview), "")))
	assert.Equal(t, []string{"1"}, ids(Filter(projects, string(domain.StatusTodo), "ecg")))
	assert.Empty(t, Filter(projects, string(domain.StatusDone), ""))
}
