package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/repository"
)

// SubscriptionService owns the follow/unfollow toggle.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	users         repository.UserRepository
	logger        *slog.Logger
}

func NewSubscriptionService(
	subscriptions repository.SubscriptionRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		users:         users,
		logger:        logger,
	}
}

// Toggle flips userID's subscription to the organizer: create if absent,
// remove if present. Returns whether the user is subscribed afterwards.
// Self-subscription is rejected before any write.
func (s *SubscriptionService) Toggle(ctx context.Context, userID, organizerID string) (bool, error) {
	if userID == organizerID {
		return false, apperror.Forbidden("you cannot subscribe to yourself")
	}

	organizer, err := s.users.GetUserByID(ctx, organizerID)
	if err != nil {
		return false, err
	}
	if !organizer.IsOrganizer() {
		return false, apperror.NotFound("organizer", organizerID)
	}

	subscribed, err := s.subscriptions.ToggleSubscription(ctx, userID, organizerID, time.Now())
	if err != nil {
		s.logger.Error("failed to toggle subscription",
			slog.String("user", userID),
			slog.String("organizer", organizerID),
			slog.String("error", err.Error()),
		)
		return false, fmt.Errorf("toggling subscription: %w", err)
	}

	s.logger.Info("subscription toggled",
		slog.String("user", userID),
		slog.String("organizer", organizerID),
		slog.Bool("subscribed", subscribed),
	)

	return subscribed, nil
}

// IsSubscribed reports whether userID follows the organizer.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, userID, organizerID string) (bool, error) {
	return s.subscriptions.SubscriptionExists(ctx, userID, organizerID)
}

// SubscriberCount returns the organizer's follower count.
func (s *SubscriptionService) SubscriberCount(ctx context.Context, organizerID string) (int, error) {
	return s.subscriptions.CountSubscribers(ctx, organizerID)
}
