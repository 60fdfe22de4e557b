package domain

import (
	"encoding/json"
	"time"
)

type Role string

const (
	RoleSupervisor Role = "supervisor"
	RoleIntern     Role = "intern"
)

// RoleProfile carries the attributes that only exist for one role. It is either a
// Supervisor or an Intern.
type RoleProfile interface {
	Role() Role
	isRoleProfile()
}

type Supervisor struct {
	Specialty string
}

func (Supervisor) Role() Role     { return RoleSupervisor }
func (Supervisor) isRoleProfile() {}

type Intern struct {
	CourseYear string
}

func (Intern) Role() Role     { return RoleIntern }
func (Intern) isRoleProfile() {}

// NewRoleProfile builds the variant for role. Anything that is not a supervisor is treated
// as an intern, matching how accounts without role metadata are shown.
func NewRoleProfile(role Role, specialty, courseYear string) RoleProfile {
	if role == RoleSupervisor {
		return Supervisor{Specialty: specialty}
	}
	return Intern{CourseYear: courseYear}
}

type User struct {
	ID           string
	Name         string
	Email        string
	Avatar       string
	Profile      RoleProfile
	PasswordHash string
	CreatedAt    time.Time
	Version      int32
}

func (u User) Role() Role {
	if u.Profile == nil {
		return RoleIntern
	}
	return u.Profile.Role()
}

func (u User) IsSupervisor() bool {
	return u.Role() == RoleSupervisor
}

func (u User) Specialty() string {
	if s, ok := u.Profile.(Supervisor); ok {
		return s.Specialty
	}
	return ""
}

func (u User) CourseYear() string {
	if i, ok := u.Profile.(Intern); ok {
		return i.CourseYear
	}
	return ""
}

// UserAttributes is a partial update of a user's metadata. Nil fields are left alone.
type UserAttributes struct {
	Name       *string `json:"name,omitempty"`
	Avatar     *string `json:"avatar,omitempty"`
	Specialty  *string `json:"specialty,omitempty"`
	CourseYear *string `json:"courseYear,omitempty"`
}

// Merge returns a copy of u with attrs applied. Specialty only lands on supervisors and
// CourseYear only on interns.
func (u User) Merge(attrs UserAttributes) User {
	if attrs.Name != nil {
		u.Name = *attrs.Name
	}
	if attrs.Avatar != nil {
		u.Avatar = *attrs.Avatar
	}

	switch p := u.Profile.(type) {
	case Supervisor:
		if attrs.Specialty != nil {
			p.Specialty = *attrs.Specialty
		}
		u.Profile = p
	case Intern:
		if attrs.CourseYear != nil {
			p.CourseYear = *attrs.CourseYear
		}
		u.Profile = p
	}

	return u
}

// ProfileAttributes is what a new account is registered with.
type ProfileAttributes struct {
	Name    string
	Avatar  string
	Profile RoleProfile
}

type userJSON struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Avatar     string    `json:"avatar,omitempty"`
	Specialty  string    `json:"specialty,omitempty"`
	CourseYear string    `json:"courseYear,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role(),
		Avatar:     u.Avatar,
		Specialty:  u.Specialty(),
		CourseYear: u.CourseYear(),
		CreatedAt:  u.CreatedAt,
	})
}

func (u *User) UnmarshalJSON(data []byte) error {
	var v userJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*u = User{
		ID:        v.ID,
		Name:      v.Name,
		Email:     v.Email,
		Avatar:    v.Avatar,
		Profile:   NewRoleProfile(v.Role, v.Specialty, v.CourseYear),
		CreatedAt: v.CreatedAt,
	}
	return nil
}
