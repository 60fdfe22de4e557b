package domain

import "time"

const (
	TableProjects = "projects"
	TableProfiles = "profiles"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent says that something in Table changed. Subscribers are not expected to patch
// rows from it; it only tells them to reload.
type ChangeEvent struct {
	Table           string     `json:"table"`
	Type            ChangeType `json:"type"`
	RecordID        string     `json:"recordId,omitempty"`
	CommitTimestamp time.Time  `json:"commitTimestamp"`
}

type AuthEvent string

const (
	AuthSignedIn    AuthEvent = "SIGNED_IN"
	AuthSignedOut   AuthEvent = "SIGNED_OUT"
	AuthUserUpdated AuthEvent = "USER_UPDATED"
)
