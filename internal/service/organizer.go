package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/model"
	"github.com/ykazlou/afisha/internal/repository"
)

// OrganizerProfile is the composed public page of an organizer: their
// events newest-first, audience size, the viewer's subscription state,
// and the review feed with its average.
type OrganizerProfile struct {
	Organizer     *model.User             `json:"organizer"`
	Events        []model.Event           `json:"events"`
	Subscribers   int                     `json:"subscribers"`
	IsSubscribed  bool                    `json:"isSubscribed"`
	Reviews       []model.OrganizerReview `json:"reviews"`
	AverageRating float64                 `json:"averageRating"`
}

// OrganizerService composes the organizer profile page from the
// individual stores.
type OrganizerService struct {
	users         repository.UserRepository
	events        repository.EventRepository
	subscriptions repository.SubscriptionRepository
	reviews       repository.OrganizerReviewRepository
	logger        *slog.Logger
}

func NewOrganizerService(
	users repository.UserRepository,
	events repository.EventRepository,
	subscriptions repository.SubscriptionRepository,
	reviews repository.OrganizerReviewRepository,
	logger *slog.Logger,
) *OrganizerService {
	return &OrganizerService{
		users:         users,
		events:        events,
		subscriptions: subscriptions,
		reviews:       reviews,
		logger:        logger,
	}
}

// Profile assembles the organizer's public page. viewerID is empty for
// anonymous visitors, which leaves IsSubscribed false. A user who exists
// but is not an organizer has no profile page.
func (s *OrganizerService) Profile(ctx context.Context, organizerID, viewerID string) (*OrganizerProfile, error) {
	organizer, err := s.users.GetUserByID(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	if !organizer.IsOrganizer() {
		return nil, apperror.NotFound("organizer", organizerID)
	}

	events, err := s.events.ListEventsByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("listing organizer events: %w", err)
	}
	for i := range events {
		tags, err := s.events.TagsForEvent(ctx, events[i].ID)
		if err != nil {
			return nil, fmt.Errorf("loading tags for event %s: %w", events[i].ID, err)
		}
		events[i].Tags = tags
	}

	subscribers, err := s.subscriptions.CountSubscribers(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("counting subscribers: %w", err)
	}

	isSubscribed := false
	if viewerID != "" && viewerID != organizerID {
		isSubscribed, err = s.subscriptions.SubscriptionExists(ctx, viewerID, organizerID)
		if err != nil {
			return nil, fmt.Errorf("checking subscription: %w", err)
		}
	}

	reviews, err := s.reviews.ListOrganizerReviews(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("listing organizer reviews: %w", err)
	}
	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}

	s.logger.Debug("organizer profile assembled",
		slog.String("organizer", organizerID),
		slog.Int("events", len(events)),
		slog.Int("reviews", len(reviews)),
	)

	return &OrganizerProfile{
		Organizer:     organizer,
		Events:        events,
		Subscribers:   subscribers,
		IsSubscribed:  isSubscribed,
		Reviews:       reviews,
		AverageRating: meanRating(ratings),
	}, nil
}
