// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-tier shape: handlers parse HTTP and
// write responses, services validate and enforce the domain rules,
// repositories read and write the store. Services receive repository
// interfaces (not *sqlite.DB), so tests inject in-memory mocks and the
// store could be swapped without touching this package.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/model"
	"github.com/ykazlou/afisha/internal/repository"
)

// Validation limits for event fields.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 10000
	MaxLocationLength    = 200
)

// EventService owns event publication, the listing query composition used
// by the home page and the map, and personalized recommendations.
type EventService struct {
	events    repository.EventRepository
	tags      repository.TagRepository
	interests repository.InterestRepository
	logger    *slog.Logger
}

func NewEventService(
	events repository.EventRepository,
	tags repository.TagRepository,
	interests repository.InterestRepository,
	logger *slog.Logger,
) *EventService {
	return &EventService{
		events:    events,
		tags:      tags,
		interests: interests,
		logger:    logger,
	}
}

// CreateEventInput carries the fields of the event publication form.
type CreateEventInput struct {
	Title       string
	Description string
	Format      string
	Location    string
	StartsAt    time.Time
	Duration    int
	ImageURL    string
	Lat         *float64
	Lng         *float64
	Category    string
	TagIDs      []string
}

// Create publishes a new event owned by organizerID.
func (s *EventService) Create(ctx context.Context, organizerID string, in CreateEventInput) (*model.Event, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "event title is required")
	}
	if len(in.Title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("event title must be %d characters or less", MaxTitleLength))
	}
	if len(in.Description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if len(in.Location) > MaxLocationLength {
		return nil, apperror.ValidationFailed("location",
			fmt.Sprintf("location must be %d characters or less", MaxLocationLength))
	}
	if in.StartsAt.IsZero() {
		return nil, apperror.ValidationFailed("startsAt", "event start time is required")
	}
	if in.Duration <= 0 {
		return nil, apperror.ValidationFailed("duration", "event duration must be positive")
	}
	// Coordinates come as a pair or not at all.
	if (in.Lat == nil) != (in.Lng == nil) {
		return nil, apperror.ValidationFailed("coordinates", "both lat and lng are required")
	}

	event := &model.Event{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		OrganizerID: organizerID,
		Format:      in.Format,
		Location:    strings.TrimSpace(in.Location),
		StartsAt:    in.StartsAt,
		Duration:    in.Duration,
		ImageURL:    in.ImageURL,
		Lat:         in.Lat,
		Lng:         in.Lng,
		Category:    in.Category,
	}

	if err := s.events.CreateEvent(ctx, event, in.TagIDs); err != nil {
		s.logger.Error("failed to create event",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating event: %w", err)
	}

	s.logger.Info("event created",
		slog.String("id", event.ID),
		slog.String("title", event.Title),
		slog.String("organizer", organizerID),
	)

	return event, nil
}

// Get returns one event with its tags attached.
func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "event ID is required")
	}

	event, err := s.events.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.events.TagsForEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading event tags: %w", err)
	}
	event.Tags = tags

	return event, nil
}

// List composes the filtered event listing used by the home page and the
// map view. Only active events are considered; the result is ordered by
// ascending start time.
//
// FILTER PRECEDENCE:
// tag and search are mutually exclusive — when both are supplied, tag
// wins. The tag is resolved by exact name; an unknown tag name yields an
// EMPTY result, because filtering by something that does not exist should
// be vacuous rather than a silent no-filter.
//
// SEARCH SEMANTICS:
// A case-insensitive containment test over title, description, and
// location — the event matches if ANY field contains the query. The
// predicate runs in Go via strings.ToLower, not SQL LIKE: SQLite's LIKE
// folds case only for ASCII, and the catalogue is largely Cyrillic
// ("конц" must match "Концерт").
func (s *EventService) List(ctx context.Context, search, tagName string) ([]model.Event, error) {
	if tagName != "" {
		tag, err := s.tags.GetTagByName(ctx, tagName)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return []model.Event{}, nil
			}
			return nil, fmt.Errorf("resolving tag filter: %w", err)
		}
		return s.events.ListActiveEventsByTag(ctx, tag.ID)
	}

	events, err := s.events.ListActiveEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	if search = strings.TrimSpace(search); search != "" {
		matched := make([]model.Event, 0, len(events))
		for _, e := range events {
			if eventMatches(&e, search) {
				matched = append(matched, e)
			}
		}
		events = matched
	}

	return events, nil
}

// MapPoints returns the same filtered listing, reduced to events that
// carry coordinates. The ordering is kept identical to List for
// determinism.
func (s *EventService) MapPoints(ctx context.Context, search, tagName string) ([]model.Event, error) {
	events, err := s.List(ctx, search, tagName)
	if err != nil {
		return nil, err
	}

	points := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.HasCoordinates() {
			points = append(points, e)
		}
	}
	return points, nil
}

// Recommend ranks upcoming active events for the user by the sum of their
// accumulated interest levels over each event's tags, highest first. Ties
// and zero-interest events fall back to ascending start time, so a user
// with no interest history simply sees the soonest events.
func (s *EventService) Recommend(ctx context.Context, userID string, now time.Time, limit int) ([]model.Event, error) {
	levels, err := s.interests.InterestsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading interests: %w", err)
	}

	events, err := s.events.ListActiveEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	type scored struct {
		event model.Event
		score int
	}
	upcoming := make([]scored, 0, len(events))
	for _, e := range events {
		if e.StartsAt.Before(now) {
			continue
		}
		tags, err := s.events.TagsForEvent(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("loading tags for event %s: %w", e.ID, err)
		}
		score := 0
		for _, t := range tags {
			score += levels[t.ID]
		}
		e.Tags = tags
		upcoming = append(upcoming, scored{event: e, score: score})
	}

	// Stable sort keeps the repository's ascending-start-time order as the
	// tiebreak within equal scores.
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].score > upcoming[j].score
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}

	result := make([]model.Event, 0, len(upcoming))
	for _, sc := range upcoming {
		result = append(result, sc.event)
	}
	return result, nil
}

// OrganizerEvents returns the organizer's active events, newest first.
func (s *EventService) OrganizerEvents(ctx context.Context, organizerID string) ([]model.Event, error) {
	return s.events.ListEventsByOrganizer(ctx, organizerID)
}

// Tags returns the tags attached to an event.
func (s *EventService) Tags(ctx context.Context, eventID string) ([]model.Tag, error) {
	return s.events.TagsForEvent(ctx, eventID)
}

// eventMatches is the search predicate: true if any of title, description,
// or location contains the query, case-insensitively. strings.ToLower does
// full Unicode folding, so Cyrillic queries behave the same as ASCII.
func eventMatches(e *model.Event, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q) ||
		strings.Contains(strings.ToLower(e.Location), q)
}
