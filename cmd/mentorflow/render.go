package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mentorflow/mentorflow/internal/advisory"
	"github.com/mentorflow/mentorflow/internal/dashboard"
	"github.com/mentorflow/mentorflow/internal/domain"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "2006-01-02 15:04"
	progressWidth  = 10
	shortIDLength  = 8
	unknownMember  = "Unknown"
	noProjectsText = "No projects found."
)

// names maps user ids to display names.
type names map[string]string

func namesOf(users []*domain.User) names {
	n := make(names, len(users))
	for _, u := range users {
		n[u.ID] = u.Name
	}
	return n
}

func (n names) of(id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return unknownMember
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}

func progressBar(fraction float64) string {
	filled := int(fraction*progressWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
}

func dueIn(deadline, now time.Time) string {
	days := int(deadline.Sub(now).Hours() / 24)
	switch {
	case deadline.Before(now):
		return "overdue"
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	default:
		return "due in " + strconv.Itoa(days) + " days"
	}
}

func renderStatCard(st *Styles, label string, value int) string {
	return st.Card.Render(st.CardValue.Render(strconv.Itoa(value)) + "\n" + st.Muted.Render(label))
}

// renderSupervisorDashboard is the overview of the whole team.
func renderSupervisorDashboard(st *Styles, user *domain.User, projects []*domain.Project, interns []*domain.User, now time.Time) string {
	var b strings.Builder
	stats := dashboard.ComputeStats(projects, interns, now)

	b.WriteString(st.Title.Render("Welcome back, "+user.Name) + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderStatCard(st, "Active projects", stats.ActiveProjects),
		renderStatCard(st, "Completed", stats.CompletedProjects),
		renderStatCard(st, "Upcoming deadlines", stats.UpcomingDeadlines),
		renderStatCard(st, "Interns", stats.TotalInterns),
	) + "\n")

	b.WriteString(renderUpcoming(st, projects, namesOf(interns), now))

	b.WriteString(st.Section.Render("Intern workload") + "\n")
	loads := dashboard.Workload(interns, projects)
	if len(loads) == 0 {
		b.WriteString(st.Muted.Render("No interns yet.") + "\n")
	}
	for _, l := range loads {
		fmt.Fprintf(&b, "%-24s %s %3d%%  %s\n",
			l.Intern.Name,
			progressBar(float64(l.Percent)/100),
			l.Percent,
			st.Muted.Render(fmt.Sprintf("%d open", l.OpenProjects)),
		)
	}
	return b.String()
}

// renderInternDashboard only covers the intern's own projects.
func renderInternDashboard(st *Styles, user *domain.User, projects []*domain.Project, now time.Time) string {
	var b strings.Builder
	summary := dashboard.SummarizeIntern(user.ID, projects)

	b.WriteString(st.Title.Render("Welcome back, "+user.Name) + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		renderStatCard(st, "Active projects", summary.Active),
		renderStatCard(st, "Completed", summary.Completed),
		renderStatCard(st, "Completion %", summary.CompletionRate),
	) + "\n")

	b.WriteString(renderUpcoming(st, assignedTo(user.ID, projects), nil, now))
	return b.String()
}

func renderUpcoming(st *Styles, projects []*domain.Project, assignees names, now time.Time) string {
	var b strings.Builder
	b.WriteString(st.Section.Render("Upcoming deadlines") + "\n")

	upcoming := dashboard.Upcoming(projects, now, dashboard.UpcomingLimit)
	if len(upcoming) == 0 {
		b.WriteString(st.Muted.Render("Nothing due.") + "\n")
	}
	for _, p := range upcoming {
		line := fmt.Sprintf("%s  %-36s %s  %s", st.ID.Render(shortID(p.ID)), p.Title, st.Status(p.Status), st.Muted.Render(dueIn(p.Deadline, now)))
		if assignees != nil {
			line += st.Muted.Render("  " + assignees.of(p.AssignedToID))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderProjectList(st *Styles, projects []*domain.Project, members names, now time.Time) string {
	if len(projects) == 0 {
		return st.Muted.Render(noProjectsText) + "\n"
	}

	var b strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&b, "%s  %s  %s\n", st.ID.Render(shortID(p.ID)), st.Title.Render(p.Title), st.Status(p.Status))
		fmt.Fprintf(&b, "          %s %d/%d  %s  %s\n",
			progressBar(p.Checklist.Progress()),
			p.Checklist.Completed(), len(p.Checklist),
			st.Muted.Render(members.of(p.AssignedToID)),
			st.Muted.Render(p.Deadline.Local().Format(dateLayout)+", "+dueIn(p.Deadline, now)),
		)
	}
	return b.String()
}

// renderProject shows one project with its checklist, discussion and risk assessment.
// suggestion is left out when empty.
func renderProject(st *Styles, p *domain.Project, members names, risk advisory.Risk, suggestion string, now time.Time) string {
	var b strings.Builder

	b.WriteString(st.Title.Render(p.Title) + "  " + st.Status(p.Status) + "\n")
	b.WriteString(st.ID.Render(p.ID) + "\n")
	if p.Description != "" {
		b.WriteString(p.Description + "\n")
	}
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		st.Muted.Render("Assigned to"), members.of(p.AssignedToID),
		st.Muted.Render("by"), members.of(p.CreatedByID),
	)
	fmt.Fprintf(&b, "%s %s (%s)\n", st.Muted.Render("Deadline"), p.Deadline.Local().Format(dateLayout), dueIn(p.Deadline, now))

	riskBox := st.Muted.Render("Risk ") + st.Risk(risk.Level) + "\n" + risk.Reason
	b.WriteString(st.Box.Render(riskBox) + "\n")

	b.WriteString(st.Section.Render(fmt.Sprintf("Checklist %d/%d", p.Checklist.Completed(), len(p.Checklist))) + "\n")
	if len(p.Checklist) == 0 {
		b.WriteString(st.Muted.Render("No items.") + "\n")
	}
	for _, item := range p.Checklist {
		box := "[ ]"
		if item.Completed {
			box = st.Success.Render("[x]")
		}
		fmt.Fprintf(&b, "%s %s %s\n", box, item.Text, st.ID.Render(item.ID))
	}

	b.WriteString(st.Section.Render("Discussion") + "\n")
	if len(p.Comments) == 0 {
		b.WriteString(st.Muted.Render("No comments yet.") + "\n")
	}
	for _, c := range p.Comments {
		fmt.Fprintf(&b, "%s %s\n  %s\n", members.of(c.UserID), st.Muted.Render(c.Timestamp.Local().Format(timeLayout)), c.Text)
	}

	if suggestion != "" {
		b.WriteString(st.Section.Render("Suggested reply") + "\n" + suggestion + "\n")
	}
	return b.String()
}

func renderTeam(st *Styles, members []*domain.User, projects []*domain.Project) string {
	if len(members) == 0 {
		return st.Muted.Render("No members.") + "\n"
	}

	var b strings.Builder
	for _, m := range members {
		detail := m.Specialty()
		if !m.IsSupervisor() {
			s := dashboard.SummarizeIntern(m.ID, projects)
			detail = fmt.Sprintf("%s  %d active, %d done (%d%%)", m.CourseYear(), s.Active, s.Completed, s.CompletionRate)
		}
		fmt.Fprintf(&b, "%s  %-24s %-10s %s  %s\n",
			st.ID.Render(shortID(m.ID)),
			m.Name,
			string(m.Role()),
			st.Muted.Render(m.Email),
			detail,
		)
	}
	return b.String()
}

func renderProfile(st *Styles, u *domain.User) string {
	var b strings.Builder
	b.WriteString(st.Title.Render(u.Name) + "\n")
	fmt.Fprintf(&b, "%s %s\n", st.Muted.Render("Email"), u.Email)
	fmt.Fprintf(&b, "%s %s\n", st.Muted.Render("Role"), u.Role())
	if u.IsSupervisor() {
		fmt.Fprintf(&b, "%s %s\n", st.Muted.Render("Specialty"), u.Specialty())
	} else {
		fmt.Fprintf(&b, "%s %s\n", st.Muted.Render("Course year"), u.CourseYear())
	}
	if u.Avatar != "" {
		fmt.Fprintf(&b, "%s %s\n", st.Muted.Render("Avatar"), u.Avatar)
	}
	return b.String()
}

func assignedTo(id string, projects []*domain.Project) []*domain.Project {
	out := make([]*domain.Project, 0, len(projects))
	for _, p := range projects {
		if p.AssignedToID == id {
			out = append(out, p)
		}
	}
	return out
}
