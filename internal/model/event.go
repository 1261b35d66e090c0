package model

import "time"

// Event represents a published event.
//
// WHY *float64 FOR COORDINATES?
// Lat/Lng are genuinely optional — an online event has no venue. A nil
// pointer means "no coordinates", which the map view uses to skip the
// event entirely. The zero value 0.0 is a real place (the Gulf of Guinea),
// so it can't double as "absent".
//
// StartsAt is the scheduled start; Duration is in minutes, matching the
// form input. IsActive gates visibility: inactive events are excluded from
// every listing.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	OrganizerID string     `json:"organizerId"`
	Format      string     `json:"format"` // "offline" or "online"
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"startsAt"`
	Duration    int        `json:"duration"` // minutes
	ImageURL    string     `json:"imageUrl,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
	Category    string     `json:"category,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	IsActive    bool       `json:"isActive"`
	Tags        []Tag      `json:"tags,omitempty"`
}

// HasCoordinates reports whether the event can be placed on the map.
func (e *Event) HasCoordinates() bool {
	return e.Lat != nil && e.Lng != nil
}
