package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mentorflow/mentorflow/internal/domain"
)

func projectPath(id string, suffix string) string {
	return "/projects/" + url.PathEscape(id) + suffix
}

// ListProjects returns every project, newest first.
func (c *Client) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) InsertProject(ctx context.Context, project domain.NewProject) (*domain.Project, error) {
	var created *domain.Project
	if err := c.do(ctx, http.MethodPost, "/projects", project, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) UpdateProjectStatus(ctx context.Context, id string, status domain.ProjectStatus) error {
	req := map[string]domain.ProjectStatus{"status": status}
	return c.do(ctx, http.MethodPatch, projectPath(id, "/status"), req, nil)
}

// UpdateProjectChecklist replaces the whole checklist of project id.
func (c *Client) UpdateProjectChecklist(ctx context.Context, id string, checklist domain.Checklist) error {
	if checklist == nil {
		checklist = domain.Checklist{}
	}
	req := map[string]domain.Checklist{"checklist": checklist}
	return c.do(ctx, http.MethodPut, projectPath(id, "/checklist"), req, nil)
}

// UpdateProjectComments replaces the whole comment thread of project id.
func (c *Client) UpdateProjectComments(ctx context.Context, id string, comments []domain.Comment) error {
	if comments == nil {
		comments = []domain.Comment{}
	}
	req := map[string][]domain.Comment{"comments": comments}
	return c.do(ctx, http.MethodPut, projectPath(id, "/comments"), req, nil)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, projectPath(id, ""), nil, nil)
}
