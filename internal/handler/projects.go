package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mentorflow/mentorflow/internal/domain"
)

func (h *Handler) GetAllProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.repository.GetAllProjects()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "projects loaded", projects)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project := r.Context().Value(ProjectCtx).(*domain.Project)
	h.successResponse(w, r, "project loaded", project)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title        string    `json:"title" validate:"required"`
		Description  string    `json:"description"`
		AssignedToID string    `json:"assignedToId" validate:"required,uuid"`
		Status       string    `json:"status" validate:"omitempty,oneof=todo in-progress review done"`
		Deadline     time.Time `json:"deadline" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	project := &domain.Project{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		CreatedByID:  r.Context().Value(SubCtxKey).(string),
		Status:       domain.ProjectStatus(req.Status),
		Deadline:     req.Deadline,
	}
	if project.Status == "" {
		project.Status = domain.StatusTodo
	}

	if err := h.repository.CreateProject(project); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "projects_assigned_to_id_fkey":
				h.errorResponse(w, r, "assigned member does not exist")
			case "projects_created_by_id_fkey":
				h.errorResponse(w, r, "your account no longer exists")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyChange(r, domain.TableProjects, domain.ChangeInsert, project.ID)

	h.successResponse(w, r, "project created", project)
}

func (h *Handler) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	project := r.Context().Value(ProjectCtx).(*domain.Project)

	var req struct {
		Status string `json:"status" validate:"required,oneof=todo in-progress review done"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateProjectStatus(project.ID, domain.ProjectStatus(req.Status)); err != nil {
		h.projectWriteError(w, r, err)
		return
	}

	h.notifyChange(r, domain.TableProjects, domain.ChangeUpdate, project.ID)

	h.successResponse(w, r, "status updated", nil)
}

// ReplaceProjectChecklist overwrites the whole checklist with what the client sent. Two
// clients editing from the same stale copy overwrite each other; the last write wins.
func (h *Handler) ReplaceProjectChecklist(w http.ResponseWriter, r *http.Request) {
	project := r.Context().Value(ProjectCtx).(*domain.Project)

	var req struct {
		Checklist []struct {
			ID        string `json:"id" validate:"required"`
			Text      string `json:"text" validate:"required"`
			Completed bool   `json:"completed"`
		} `json:"checklist" validate:"unique=ID,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	checklist := make(domain.Checklist, 0, len(req.Checklist))
	for _, item := range req.Checklist {
		checklist = append(checklist, domain.ChecklistItem{
			ID:        item.ID,
			Text:      item.Text,
			Completed: item.Completed,
		})
	}

	if err := h.repository.UpdateProjectChecklist(project.ID, checklist); err != nil {
		h.projectWriteError(w, r, err)
		return
	}

	h.notifyChange(r, domain.TableProjects, domain.ChangeUpdate, project.ID)

	h.successResponse(w, r, "checklist updated", nil)
}

// ReplaceProjectComments overwrites the comment thread. Order is kept exactly as sent.
func (h *Handler) ReplaceProjectComments(w http.ResponseWriter, r *http.Request) {
	project := r.Context().Value(ProjectCtx).(*domain.Project)

	var req struct {
		Comments []struct {
			ID        string    `json:"id" validate:"required"`
			UserID    string    `json:"userId" validate:"required"`
			Text      string    `json:"text" validate:"required"`
			Timestamp time.Time `json:"timestamp" validate:"required"`
		} `json:"comments" validate:"unique=ID,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	comments := make([]domain.Comment, 0, len(req.Comments))
	for _, c := range req.Comments {
		comments = append(comments, domain.Comment{
			ID:        c.ID,
			UserID:    c.UserID,
			Text:      c.Text,
			Timestamp: c.Timestamp,
		})
	}

	if err := h.repository.UpdateProjectComments(project.ID, comments); err != nil {
		h.projectWriteError(w, r, err)
		return
	}

	h.notifyChange(r, domain.TableProjects, domain.ChangeUpdate, project.ID)

	h.successResponse(w, r, "comments updated", nil)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	project := r.Context().Value(ProjectCtx).(*domain.Project)

	if err := h.repository.DeleteProject(project.ID); err != nil {
		h.projectWriteError(w, r, err)
		return
	}

	h.notifyChange(r, domain.TableProjects, domain.ChangeDelete, project.ID)

	h.successResponse(w, r, "project deleted", nil)
}

func (h *Handler) projectWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// deleted between loading and writing
		h.errorResponse(w, r, "project not found")
	default:
		h.internalServerError(w, r, err)
	}
}
