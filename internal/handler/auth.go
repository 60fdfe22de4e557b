package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mentorflow/mentorflow/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookieName = "__mentorflow_token"

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// issueSession signs a token for user and hands it to the client as an http-only cookie.
func (h *Handler) issueSession(w http.ResponseWriter, user *domain.User) error {
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(user.Role()),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   user.ID,
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)
	return nil
}

type signUpResult struct {
	User     *domain.User `json:"user"`
	SignedIn bool         `json:"signedIn"`
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email" validate:"required,email"`
		Password   string `json:"password" validate:"required,min=6"`
		Name       string `json:"name" validate:"required"`
		Role       string `json:"role" validate:"required,oneof=supervisor intern"`
		Avatar     string `json:"avatar"`
		Specialty  string `json:"specialty"`
		CourseYear string `json:"courseYear"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Name:         req.Name,
		Avatar:       req.Avatar,
		Profile:      domain.NewRoleProfile(domain.Role(req.Role), req.Specialty, req.CourseYear),
	}

	if err := h.repository.CreateProfile(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "profiles_email_key":
			h.errorResponse(w, r, "an account with this email already exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyChange(r, domain.TableProfiles, domain.ChangeInsert, user.ID)

	if err := h.publishMail(r.Context(), domain.MailMessage{
		Type: domain.MailTypeWelcome,
		To:   user.Email,
		Data: domain.WelcomeMailData{
			Name:      user.Name,
			Role:      user.Role(),
			SignInURL: h.config.Email.AppURL,
		},
	}); err != nil {
		// the account exists already, a missing welcome mail is not worth failing for
		h.logInternalServerError(r, err)
	}

	result := signUpResult{User: user}
	if h.config.Auth.AutoSignIn {
		if err := h.issueSession(w, user); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		result.SignedIn = true
	}

	h.successResponse(w, r, "account created", result)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.repository.GetProfileByEmail(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "invalid credentials")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.errorResponse(w, r, "invalid credentials")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.issueSession(w, user); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "signed in", user)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:    sessionCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.successResponse(w, r, "signed out", nil)
}

// GetSession reports the signed-in user, or null data when there is no usable session.
// It never fails on a missing session, only on storage errors.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	claims := h.parseSession(r)
	if claims == nil {
		h.successResponse(w, r, "no active session", nil)
		return
	}

	user, err := h.repository.GetProfileByID(claims.Subject)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "no active session", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "active session", user)
}

func (h *Handler) UpdateMyMetadata(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req domain.UserAttributes
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Name != nil && *req.Name == "" {
		h.errorResponse(w, r, "name cannot be empty")
		return
	}

	updated := myInfo.Merge(req)
	if err := h.repository.UpdateProfile(&updated); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "profile changed concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyChange(r, domain.TableProfiles, domain.ChangeUpdate, updated.ID)

	h.successResponse(w, r, "profile updated", updated)
}
