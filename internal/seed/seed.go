package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/mentorflow/mentorflow/internal/utils"
)

// Store is the part of the repository the seeder writes through.
type Store interface {
	GetProfileByEmail(email string) (*domain.User, error)
	CreateProfile(user *domain.User) error
	CreateProject(project *domain.Project) error
	UpdateProjectChecklist(id string, checklist domain.Checklist) error
	UpdateProjectComments(id string, comments []domain.Comment) error
}

const day = 24 * time.Hour

type demoProject struct {
	title       string
	description string
	status      domain.ProjectStatus
	deadline    time.Duration
	checklist   []domain.ChecklistItem
	comments    []demoComment
}

type demoComment struct {
	text string
	ago  time.Duration
}

var demoProjects = []demoProject{
	{
		title:       "Cardiology Case Study: Arrhythmia",
		description: "Analyze the patient data from Case #402 and propose a treatment plan.",
		status:      domain.StatusInProgress,
		deadline:    2 * day,
		checklist: []domain.ChecklistItem{
			{Text: "Review patient history", Completed: true},
			{Text: "Analyze ECG data"},
			{Text: "Draft treatment plan"},
		},
		comments: []demoComment{{text: "Please pay attention to the QRS complex.", ago: day}},
	},
	{
		title:       "Neurology Research Paper",
		description: "Literature review on recent advancements in Alzheimer treatment.",
		status:      domain.StatusTodo,
		deadline:    5 * day,
		checklist: []domain.ChecklistItem{
			{Text: "Select 10 key papers"},
			{Text: "Write abstract"},
		},
	},
	{
		title:       "Emergency Room Rotation Log",
		description: "Complete the logbook for the 2-week ER rotation.",
		status:      domain.StatusReview,
		deadline:    -day,
		checklist: []domain.ChecklistItem{
			{Text: "Week 1 Log", Completed: true},
			{Text: "Week 2 Log", Completed: true},
			{Text: "Supervisor Signature"},
		},
	},
}

// RandomInterns inserts n interns with generated names and the given password hash. It
// returns how many were written; failures are logged and skipped.
func RandomInterns(s Store, n int, passwordHash, emailDomain string) int {
	cnt := 0
	for i := 0; i < n; i++ {
		name := utils.GenerateRandomName()
		user := &domain.User{
			Email:        utils.GenerateEmailFromName(name, emailDomain),
			PasswordHash: passwordHash,
			Name:         name,
			Profile:      domain.Intern{CourseYear: utils.GenerateRandomCourseYear()},
		}
		if err := s.CreateProfile(user); err != nil {
			slog.Error("failed to insert intern", slog.String("email", user.Email), slog.String("error", err.Error()))
			continue
		}
		cnt++
	}
	return cnt
}

// DemoProjects creates the sample projects, owned by the supervisor with supervisorEmail and
// assigned to intern. Deadlines are relative to now, so the set always has one overdue
// project and one due within the high risk window.
func DemoProjects(s Store, supervisorEmail string, intern *domain.User, now time.Time) ([]*domain.Project, error) {
	supervisor, err := s.GetProfileByEmail(supervisorEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("supervisor %s does not exist", supervisorEmail)
		}
		return nil, err
	}
	if !supervisor.IsSupervisor() {
		return nil, fmt.Errorf("%s is not a supervisor", supervisorEmail)
	}

	projects := make([]*domain.Project, 0, len(demoProjects))
	for _, demo := range demoProjects {
		project := &domain.Project{
			Title:        demo.title,
			Description:  demo.description,
			AssignedToID: intern.ID,
			CreatedByID:  supervisor.ID,
			Status:       demo.status,
			Deadline:     now.Add(demo.deadline),
		}
		if err := s.CreateProject(project); err != nil {
			return projects, fmt.Errorf("create %q: %w", demo.title, err)
		}

		// rows start empty, the checklist and comments are separate whole-array writes
		checklist := make(domain.Checklist, 0, len(demo.checklist))
		for _, item := range demo.checklist {
			item.ID = utils.GenerateShortID()
			checklist = append(checklist, item)
		}
		if err := s.UpdateProjectChecklist(project.ID, checklist); err != nil {
			return projects, fmt.Errorf("checklist of %q: %w", demo.title, err)
		}
		project.Checklist = checklist

		if len(demo.comments) > 0 {
			comments := make([]domain.Comment, 0, len(demo.comments))
			for _, c := range demo.comments {
				comments = append(comments, domain.Comment{
					ID:        utils.GenerateShortID(),
					UserID:    supervisor.ID,
					Text:      c.text,
					Timestamp: now.Add(-c.ago),
				})
			}
			if err := s.UpdateProjectComments(project.ID, comments); err != nil {
				return projects, fmt.Errorf("comments of %q: %w", demo.title, err)
			}
			project.Comments = comments
		}

		projects = append(projects, project)
	}

	return projects, nil
}
