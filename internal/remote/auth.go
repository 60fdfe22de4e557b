package remote

import (
	"context"
	"net/http"

	"github.com/mentorflow/mentorflow/internal/domain"
)

// GetSession returns the signed-in user, or nil when there is no session.
func (c *Client) GetSession(ctx context.Context) (*domain.User, error) {
	var user *domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/session", nil, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.User, error) {
	req := map[string]string{
		"email":    email,
		"password": password,
	}

	var user *domain.User
	if err := c.do(ctx, http.MethodPost, "/auth/sign-in", req, &user); err != nil {
		return nil, err
	}

	c.emit(domain.AuthSignedIn, user)
	return user, nil
}

type signUpRequest struct {
	Email      string      `json:"email"`
	Password   string      `json:"password"`
	Name       string      `json:"name"`
	Role       domain.Role `json:"role"`
	Avatar     string      `json:"avatar,omitempty"`
	Specialty  string      `json:"specialty,omitempty"`
	CourseYear string      `json:"courseYear,omitempty"`
}

func newSignUpRequest(email, password string, attrs domain.ProfileAttributes) signUpRequest {
	user := domain.User{Profile: attrs.Profile}
	return signUpRequest{
		Email:      email,
		Password:   password,
		Name:       attrs.Name,
		Role:       user.Role(),
		Avatar:     attrs.Avatar,
		Specialty:  user.Specialty(),
		CourseYear: user.CourseYear(),
	}
}

// SignUp registers an account. Whether the new account is also signed in depends on the
// server; signedIn reports it, and SIGNED_IN is only emitted in that case.
func (c *Client) SignUp(ctx context.Context, email, password string, attrs domain.ProfileAttributes) (user *domain.User, signedIn bool, err error) {
	var result struct {
		User     *domain.User `json:"user"`
		SignedIn bool         `json:"signedIn"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/sign-up", newSignUpRequest(email, password, attrs), &result); err != nil {
		return nil, false, err
	}

	if result.SignedIn {
		c.emit(domain.AuthSignedIn, result.User)
	}
	return result.User, result.SignedIn, nil
}

func (c *Client) UpdateUser(ctx context.Context, attrs domain.UserAttributes) (*domain.User, error) {
	var user *domain.User
	if err := c.do(ctx, http.MethodPatch, "/auth/user", attrs, &user); err != nil {
		return nil, err
	}

	c.emit(domain.AuthUserUpdated, user)
	return user, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/sign-out", nil, nil); err != nil {
		return err
	}

	c.emit(domain.AuthSignedOut, nil)
	return nil
}
