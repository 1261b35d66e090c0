package model

import "time"

// Rating bounds. Every review carries an integer rating in [1,5];
// anything outside is rejected before it reaches the store, and the
// store enforces the same range with a CHECK constraint.
const (
	MinRating = 1
	MaxRating = 5
)

// EventReview is one user's review of one event. At most one row exists
// per (event, user) pair — resubmitting overwrites rating and comment in
// place rather than adding a second review.
//
// Username is a read-side convenience populated by a join when listing
// reviews; it is not a column of the review table.
type EventReview struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrganizerReview is one user's review of an organizer. Same shape and
// uniqueness rule as EventReview, keyed by (organizer, reviewer).
// Organizers cannot review themselves.
type OrganizerReview struct {
	ID          string    `json:"id"`
	OrganizerID string    `json:"organizerId"`
	ReviewerID  string    `json:"reviewerId"`
	Username    string    `json:"username,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidRating reports whether r is inside the accepted [1,5] range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
