package model

import "time"

// Celebrity is a public figure who can appear in event line-ups.
type Celebrity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventCelebrity is a celebrity's appearance at an event, with the role
// they play there ("хедлайнер", "ведущий", ...). Pure association plus
// the role label; duplicate (event, celebrity) pairs are rejected.
type EventCelebrity struct {
	EventID     string `json:"eventId"`
	CelebrityID string `json:"celebrityId"`
	Name        string `json:"name,omitempty"`     // joined from celebrities
	ImageURL    string `json:"imageUrl,omitempty"` // joined from celebrities
	Role        string `json:"role,omitempty"`
}
