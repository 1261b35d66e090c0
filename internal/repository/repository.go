// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage provides the real implementation;
// tests substitute in-memory mocks.
//
// All interfaces are implemented by the single sqlite.DB, so method names
// carry the entity name (CreateUser, CreateTag, ...) to keep the method
// sets disjoint.
package repository

import (
	"context"
	"time"

	"github.com/ykazlou/afisha/internal/model"
)

type UserRepository interface {
	// CreateUser inserts a new user. A duplicate username or email
	// surfaces as a field-level validation error (backed by UNIQUE
	// constraints, not a check-then-insert).
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type TagRepository interface {
	// CreateTag inserts a tag; a duplicate name is apperror.ErrConflict.
	CreateTag(ctx context.Context, tag *model.Tag) error
	GetTagByName(ctx context.Context, name string) (*model.Tag, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
}

type EventRepository interface {
	// CreateEvent inserts the event and its tag links in one transaction.
	CreateEvent(ctx context.Context, event *model.Event, tagIDs []string) error
	GetEventByID(ctx context.Context, id string) (*model.Event, error)
	// ListActiveEvents returns all active events ordered by ascending
	// start time.
	ListActiveEvents(ctx context.Context) ([]model.Event, error)
	// ListActiveEventsByTag returns active events linked to the tag,
	// same order.
	ListActiveEventsByTag(ctx context.Context, tagID string) ([]model.Event, error)
	// ListEventsByOrganizer returns the organizer's active events, newest
	// start time first (profile page order).
	ListEventsByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error)
	// TagsForEvent returns the tags linked to an event.
	TagsForEvent(ctx context.Context, eventID string) ([]model.Tag, error)
}

type EventReviewRepository interface {
	// SubmitEventReview upserts the review — UNIQUE(event_id, user_id)
	// guarantees the review count never grows on resubmission — and adds
	// the rating to the reviewer's interest level for every tag in tagIDs.
	// Both writes happen in a single transaction: either the review and
	// all interest adjustments land, or none do.
	SubmitEventReview(ctx context.Context, review *model.EventReview, tagIDs []string) error
	// ListEventReviews returns the event's reviews newest first, with
	// Username populated.
	ListEventReviews(ctx context.Context, eventID string) ([]model.EventReview, error)
}

type OrganizerReviewRepository interface {
	// SubmitOrganizerReview upserts, keyed by
	// UNIQUE(organizer_id, reviewer_id).
	SubmitOrganizerReview(ctx context.Context, review *model.OrganizerReview) error
	ListOrganizerReviews(ctx context.Context, organizerID string) ([]model.OrganizerReview, error)
}

type SubscriptionRepository interface {
	// ToggleSubscription removes the (user, organizer) subscription if
	// present, otherwise creates it. Reports whether the user is
	// subscribed after the call.
	ToggleSubscription(ctx context.Context, userID, organizerID string, now time.Time) (bool, error)
	SubscriptionExists(ctx context.Context, userID, organizerID string) (bool, error)
	CountSubscribers(ctx context.Context, organizerID string) (int, error)
}

type InterestRepository interface {
	// InterestsForUser returns tagID → accumulated level for every
	// interest row the user holds. Absent rows mean level 0.
	InterestsForUser(ctx context.Context, userID string) (map[string]int, error)
	// ReplaceInterests deletes every interest row of the user and inserts
	// the given levels, in one transaction. This is the explicit
	// preferences reset path — distinct from the accumulation done by
	// SubmitEventReview.
	ReplaceInterests(ctx context.Context, userID string, levels map[string]int) error
}

type CelebrityRepository interface {
	CreateCelebrity(ctx context.Context, celebrity *model.Celebrity) error
	GetCelebrityByID(ctx context.Context, id string) (*model.Celebrity, error)
	ListCelebrities(ctx context.Context) ([]model.Celebrity, error)
	// AttachCelebrity links a celebrity to an event with a role label. A
	// duplicate (event, celebrity) pair is apperror.ErrConflict.
	AttachCelebrity(ctx context.Context, eventID, celebrityID, role string) error
	// EventLineup returns the event's celebrities with Name and ImageURL
	// joined in.
	EventLineup(ctx context.Context, eventID string) ([]model.EventCelebrity, error)
}
