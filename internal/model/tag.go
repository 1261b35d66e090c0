package model

// Tag is a label attached to events (many-to-many). Names are unique.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
