package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mentorflow/mentorflow/internal/domain"
)

// ListProfiles lists team members ordered by name. An empty role lists everyone.
func (c *Client) ListProfiles(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	path := "/profiles"
	if role != "" {
		path += "?" + url.Values{"role": {string(role)}}.Encode()
	}

	var users []*domain.User
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type inviteRequest struct {
	Email      string      `json:"email"`
	Name       string      `json:"name"`
	Role       domain.Role `json:"role"`
	Avatar     string      `json:"avatar,omitempty"`
	Specialty  string      `json:"specialty,omitempty"`
	CourseYear string      `json:"courseYear,omitempty"`
}

// InviteProfile creates an account for a new team member. The server generates the
// password and mails it to email.
func (c *Client) InviteProfile(ctx context.Context, email string, attrs domain.ProfileAttributes) (*domain.User, error) {
	user := domain.User{Profile: attrs.Profile}
	req := inviteRequest{
		Email:      email,
		Name:       attrs.Name,
		Role:       user.Role(),
		Avatar:     attrs.Avatar,
		Specialty:  user.Specialty(),
		CourseYear: user.CourseYear(),
	}

	var created *domain.User
	if err := c.do(ctx, http.MethodPost, "/profiles", req, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) DeleteProfile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/profiles/"+url.PathEscape(id), nil, nil)
}
