package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/mentorflow/mentorflow/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetAllProfiles(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(r.URL.Query().Get("role"))
	if role != "" && role != domain.RoleSupervisor && role != domain.RoleIntern {
		h.errorResponse(w, r, "unknown role")
		return
	}

	users, err := h.repository.GetAllProfiles(role)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "profiles loaded", users)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(ProfileInfoCtx).(*domain.User)
	h.successResponse(w, r, "profile loaded", user)
}

// InviteProfile adds a member to the team. The account gets a random password which is
// mailed to the new member together with the sign-in link.
func (h *Handler) InviteProfile(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Name       string `json:"name" validate:"required"`
		Email      string `json:"email" validate:"required,email"`
		Role       string `json:"role" validate:"required,oneof=supervisor intern"`
		Avatar     string `json:"avatar"`
		Specialty  string `json:"specialty"`
		CourseYear string `json:"courseYear" validate:"required_if=Role intern"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	password, err := utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Avatar:       req.Avatar,
		Profile:      domain.NewRoleProfile(domain.Role(req.Role), req.Specialty, req.CourseYear),
	}

	if err := h.repository.CreateProfile(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "profiles_email_key":
			h.badRequest(w, r, errors.New("an account with this email already exists"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyChange(r, domain.TableProfiles, domain.ChangeInsert, user.ID)

	if err := h.publishMail(r.Context(), domain.MailMessage{
		Type: domain.MailTypeInviteMember,
		To:   user.Email,
		Data: domain.InviteMemberMailData{
			Name:      user.Name,
			InvitedBy: myInfo.Name,
			Role:      user.Role(),
			Email:     user.Email,
			Password:  password,
			SignInURL: h.config.Email.AppURL,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "invitation sent", user)
}

func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(ProfileInfoCtx).(*domain.User)

	if err := h.repository.DeleteProfile(user.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "projects_assigned_to_id_fkey":
				h.errorResponse(w, r, "this member still has assigned projects")
			case "projects_created_by_id_fkey":
				h.errorResponse(w, r, "this member still owns projects")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyChange(r, domain.TableProfiles, domain.ChangeDelete, user.ID)

	h.successResponse(w, r, "member removed", nil)
}
