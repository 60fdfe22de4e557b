package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mentorflow/mentorflow/internal/domain"
)

const projectColumns = `id, title, description, assigned_to_id, created_by_id, status, deadline, checklist, comments, created_at`

func scanProject(row scanner) (*domain.Project, error) {
	var (
		project   domain.Project
		checklist []byte
		comments  []byte
	)

	dst := []any{
		&project.ID,
		&project.Title,
		&project.Description,
		&project.AssignedToID,
		&project.CreatedByID,
		&project.Status,
		&project.Deadline,
		&checklist,
		&comments,
		&project.CreatedAt,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	project.Checklist = domain.Checklist{}
	if err := json.Unmarshal(checklist, &project.Checklist); err != nil {
		return nil, err
	}
	project.Comments = []domain.Comment{}
	if err := json.Unmarshal(comments, &project.Comments); err != nil {
		return nil, err
	}

	return &project, nil
}

// GetAllProjects returns every project, newest first.
func (r *Repository) GetAllProjects() ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *Repository) GetProjectByID(id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanProject(r.dbpool.QueryRowContext(ctx, query, id))
}

// CreateProject inserts project with an empty checklist and no comments.
func (r *Repository) CreateProject(project *domain.Project) error {
	project.Checklist = domain.Checklist{}
	project.Comments = []domain.Comment{}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO projects (id, title, description, assigned_to_id, created_by_id, status, deadline, checklist, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '[]'::jsonb, '[]'::jsonb)
		RETURNING created_at
	`

	project.ID = uuid.NewString()
	args := []any{project.ID, project.Title, project.Description, project.AssignedToID, project.CreatedByID, project.Status, project.Deadline}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&project.CreatedAt); err != nil {
		return err
	}

	return nil
}

// Project updates below are last-write-wins: there is no version check, the row simply
// takes whatever was sent.

func (r *Repository) UpdateProjectStatus(id string, status domain.ProjectStatus) error {
	query := `
		UPDATE projects SET status = $1 WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *Repository) UpdateProjectChecklist(id string, checklist domain.Checklist) error {
	if checklist == nil {
		checklist = domain.Checklist{}
	}
	data, err := json.Marshal(checklist)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects SET checklist = $1::jsonb WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, string(data), id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *Repository) UpdateProjectComments(id string, comments []domain.Comment) error {
	if comments == nil {
		comments = []domain.Comment{}
	}
	data, err := json.Marshal(comments)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects SET comments = $1::jsonb WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, string(data), id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (r *Repository) DeleteProject(id string) error {
	query := `
		DELETE FROM projects WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
