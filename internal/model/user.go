// Package model defines the data structures used throughout the application.
package model

import "time"

// User roles. Participants browse, subscribe, and review; organizers
// additionally publish events, tags, and celebrities.
const (
	RoleParticipant = "participant"
	RoleOrganizer   = "organizer"
)

// User represents a registered account.
//
// PasswordHash holds the bcrypt hash of the password — never the password
// itself, and never serialized to JSON (note the "-" tag). Username and
// Email are unique at the store level.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsOrganizer reports whether the user may publish events.
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}
