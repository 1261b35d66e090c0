package model

import "time"

// Subscription links a user to an organizer they follow. A user holds at
// most one subscription per organizer (UNIQUE constraint at the store);
// subscribing again removes it — the operation is a toggle.
type Subscription struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	OrganizerID string    `json:"organizerId"`
	CreatedAt   time.Time `json:"createdAt"`
}
