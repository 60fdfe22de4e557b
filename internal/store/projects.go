package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/mentorflow/mentorflow/internal/utils"
)

// ProjectStore caches the projects table. Mutations write through to the remote table and
// never touch the cache; it is replaced wholesale by FetchAll, which runs on every change
// notification while the store is started.
//
// Checklist and comment writes replace the whole array from the cached copy. Two stores
// writing from the same stale copy lose one of the writes.
type ProjectStore struct {
	table    ProjectTable
	feed     ChangeFeed
	identity Identity
	now      func() time.Time

	mu       sync.RWMutex
	projects []*domain.Project
	watcher  *watcher
	changes  notifier
}

func NewProjectStore(table ProjectTable, feed ChangeFeed, identity Identity) *ProjectStore {
	return &ProjectStore{
		table:    table,
		feed:     feed,
		identity: identity,
		now:      time.Now,
		projects: []*domain.Project{},
	}
}

// Start loads the projects and keeps reloading them on change notifications until Stop.
// A failed initial load is only logged; a failed subscription is returned.
func (s *ProjectStore) Start(ctx context.Context) error {
	_ = s.FetchAll(ctx)

	w, err := watch(ctx, s.feed, domain.TableProjects, s.FetchAll)
	if err != nil {
		slog.Error("failed to subscribe to project changes", "error", err)
		return err
	}

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()
	return nil
}

func (s *ProjectStore) Stop() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	w.stop()
}

// FetchAll replaces the cache with the remote rows, newest first. On failure the error is
// logged and returned and the previous cache stays in place.
func (s *ProjectStore) FetchAll(ctx context.Context) error {
	projects, err := s.table.ListProjects(ctx)
	if err != nil {
		slog.Error("failed to fetch projects", "error", err)
		return err
	}

	cache := make([]*domain.Project, 0, len(projects))
	for _, p := range projects {
		cache = append(cache, p.Clone())
	}

	s.mu.Lock()
	s.projects = cache
	s.mu.Unlock()

	s.changes.notify()
	return nil
}

// Changes signals after every cache replacement. Call the returned function to stop.
func (s *ProjectStore) Changes() (<-chan struct{}, func()) {
	return s.changes.subscribe()
}

// Projects returns copies of the cached projects in display order.
func (s *ProjectStore) Projects() []*domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	return out
}

// GetProject looks id up in the cache only.
func (s *ProjectStore) GetProject(id string) (*domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return nil, false
}

// AddProject creates a project with an empty checklist and no comments, created by the
// signed-in user. It shows up in the cache with the next fetch.
func (s *ProjectStore) AddProject(ctx context.Context, project domain.NewProject) error {
	if s.identity.CurrentUser() == nil {
		return ErrNotAuthenticated
	}
	if project.Status == "" {
		project.Status = domain.StatusTodo
	}
	if !project.Status.Valid() {
		return fmt.Errorf("unknown status %q", project.Status)
	}

	if _, err := s.table.InsertProject(ctx, project); err != nil {
		slog.Error("failed to add project", "title", project.Title, "error", err)
		return err
	}
	return nil
}

func (s *ProjectStore) UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}

	if err := s.table.UpdateProjectStatus(ctx, id, status); err != nil {
		slog.Error("failed to update project status", "id", id, "status", status, "error", err)
		return err
	}
	return nil
}

// UpdateChecklist replaces the checklist of project id with checklist. Build it from the
// cached copy with the domain.Checklist helpers.
func (s *ProjectStore) UpdateChecklist(ctx context.Context, id string, checklist domain.Checklist) error {
	if err := s.table.UpdateProjectChecklist(ctx, id, checklist); err != nil {
		slog.Error("failed to update checklist", "id", id, "error", err)
		return err
	}
	return nil
}

// AddComment appends a comment by the signed-in user to the cached thread of project id
// and writes the thread back. The timestamp never goes backwards relative to the thread.
func (s *ProjectStore) AddComment(ctx context.Context, id, text string) error {
	user := s.identity.CurrentUser()
	if user == nil {
		return ErrNotAuthenticated
	}

	project, ok := s.GetProject(id)
	if !ok {
		return ErrProjectNotFound
	}

	timestamp := s.now().UTC()
	if last, ok := project.LastComment(); ok && last.Timestamp.After(timestamp) {
		timestamp = last.Timestamp
	}

	comments := append(project.Comments, domain.Comment{
		ID:        utils.GenerateShortID(),
		UserID:    user.ID,
		Text:      text,
		Timestamp: timestamp,
	})

	if err := s.table.UpdateProjectComments(ctx, id, comments); err != nil {
		slog.Error("failed to add comment", "id", id, "error", err)
		return err
	}
	return nil
}

func (s *ProjectStore) DeleteProject(ctx context.Context, id string) error {
	if err := s.table.DeleteProject(ctx, id); err != nil {
		slog.Error("failed to delete project", "id", id, "error", err)
		return err
	}
	return nil
}
