package domain

import (
	"slices"
	"time"
)

type ProjectStatus string

const (
	StatusTodo       ProjectStatus = "todo"
	StatusInProgress ProjectStatus = "in-progress"
	StatusReview     ProjectStatus = "review"
	StatusDone       ProjectStatus = "done"
)

// ProjectStatuses lists the statuses in display order. There is no transition graph: any
// status can be set from any other.
var ProjectStatuses = []ProjectStatus{StatusTodo, StatusInProgress, StatusReview, StatusDone}

func (s ProjectStatus) Valid() bool {
	return slices.Contains(ProjectStatuses, s)
}

func (s ProjectStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In progress"
	case StatusReview:
		return "In review"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Project struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	AssignedToID string        `json:"assignedToId"`
	CreatedByID  string        `json:"createdById"`
	Status       ProjectStatus `json:"status"`
	Deadline     time.Time     `json:"deadline"`
	Checklist    Checklist     `json:"checklist"`
	Comments     []Comment     `json:"comments"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// Clone copies the project including its checklist and comments, so callers can hold on to
// it while the cache is replaced underneath.
func (p *Project) Clone() *Project {
	c := *p
	c.Checklist = slices.Clone(p.Checklist)
	c.Comments = slices.Clone(p.Comments)
	if c.Checklist == nil {
		c.Checklist = Checklist{}
	}
	if c.Comments == nil {
		c.Comments = []Comment{}
	}
	return &c
}

// LastComment returns the most recent comment, if any.
func (p *Project) LastComment() (Comment, bool) {
	if len(p.Comments) == 0 {
		return Comment{}, false
	}
	return p.Comments[len(p.Comments)-1], true
}

// NewProject is the caller supplied part of a project. Id, creator and creation time are
// filled in on write, and the checklist and comments always start empty.
type NewProject struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	AssignedToID string        `json:"assignedToId"`
	Status       ProjectStatus `json:"status"`
	Deadline     time.Time     `json:"deadline"`
}
