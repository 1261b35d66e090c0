package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/model"
	"github.com/ykazlou/afisha/internal/repository"
)

// MaxCommentLength bounds free-text review comments.
const MaxCommentLength = 2000

// ReviewService owns review submission for events and organizers, the
// derived average ratings, and the interest accumulation that rating an
// event triggers.
//
// SUBMISSION IS AN UPSERT:
// A (subject, reviewer) pair moves from "no review" to "reviewed" on the
// first valid submission and stays there — later submissions overwrite the
// rating and comment in place. There is no delete path.
//
// INTEREST ACCUMULATION:
// Each event review submission adds the rating to the reviewer's interest
// level for every tag the event carries. This happens on EVERY submission,
// including edits of an existing review — interest is a running
// accumulator of rating activity, not a projection of the current reviews.
// The repository performs the review upsert and all interest writes in one
// transaction.
type ReviewService struct {
	eventReviews     repository.EventReviewRepository
	organizerReviews repository.OrganizerReviewRepository
	events           repository.EventRepository
	users            repository.UserRepository
	logger           *slog.Logger
}

func NewReviewService(
	eventReviews repository.EventReviewRepository,
	organizerReviews repository.OrganizerReviewRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		eventReviews:     eventReviews,
		organizerReviews: organizerReviews,
		events:           events,
		users:            users,
		logger:           logger,
	}
}

// SubmitEventReview records (or overwrites) userID's review of the event
// and accumulates interest onto every tag of the event.
//
// Validation happens before any store write: an out-of-range rating leaves
// no review row and no interest adjustment behind.
func (s *ReviewService) SubmitEventReview(ctx context.Context, userID, eventID string, rating int, comment string) (*model.EventReview, error) {
	if !model.ValidRating(rating) {
		return nil, apperror.ValidationFailed("rating",
			fmt.Sprintf("rating must be between %d and %d", model.MinRating, model.MaxRating))
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > MaxCommentLength {
		return nil, apperror.ValidationFailed("comment",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	// The event must exist; the lookup also feeds the interest
	// accumulation with the event's tag set.
	if _, err := s.events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	tags, err := s.events.TagsForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("loading event tags: %w", err)
	}
	tagIDs := make([]string, 0, len(tags))
	for _, t := range tags {
		tagIDs = append(tagIDs, t.ID)
	}

	review := &model.EventReview{
		EventID: eventID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}

	if err := s.eventReviews.SubmitEventReview(ctx, review, tagIDs); err != nil {
		s.logger.Error("failed to submit event review",
			slog.String("event", eventID),
			slog.String("user", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("submitting event review: %w", err)
	}

	s.logger.Info("event review submitted",
		slog.String("event", eventID),
		slog.String("user", userID),
		slog.Int("rating", rating),
		slog.Int("tags", len(tagIDs)),
	)

	return review, nil
}

// SubmitOrganizerReview records (or overwrites) reviewerID's review of an
// organizer. Self-review is forbidden, and the target must actually hold
// the organizer role.
func (s *ReviewService) SubmitOrganizerReview(ctx context.Context, reviewerID, organizerID string, rating int, comment string) (*model.OrganizerReview, error) {
	if !model.ValidRating(rating) {
		return nil, apperror.ValidationFailed("rating",
			fmt.Sprintf("rating must be between %d and %d", model.MinRating, model.MaxRating))
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > MaxCommentLength {
		return nil, apperror.ValidationFailed("comment",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}
	if reviewerID == organizerID {
		return nil, apperror.Forbidden("you cannot review yourself")
	}

	organizer, err := s.users.GetUserByID(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	if !organizer.IsOrganizer() {
		return nil, apperror.NotFound("organizer", organizerID)
	}

	review := &model.OrganizerReview{
		OrganizerID: organizerID,
		ReviewerID:  reviewerID,
		Rating:      rating,
		Comment:     comment,
	}

	if err := s.organizerReviews.SubmitOrganizerReview(ctx, review); err != nil {
		s.logger.Error("failed to submit organizer review",
			slog.String("organizer", organizerID),
			slog.String("reviewer", reviewerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("submitting organizer review: %w", err)
	}

	s.logger.Info("organizer review submitted",
		slog.String("organizer", organizerID),
		slog.String("reviewer", reviewerID),
		slog.Int("rating", rating),
	)

	return review, nil
}

// EventReviews returns the event's reviews, newest first.
func (s *ReviewService) EventReviews(ctx context.Context, eventID string) ([]model.EventReview, error) {
	return s.eventReviews.ListEventReviews(ctx, eventID)
}

// OrganizerReviews returns the organizer's reviews, newest first.
func (s *ReviewService) OrganizerReviews(ctx context.Context, organizerID string) ([]model.OrganizerReview, error) {
	return s.organizerReviews.ListOrganizerReviews(ctx, organizerID)
}

// EventAverage computes the event's average rating from its live review
// set: the arithmetic mean, or 0 when unreviewed.
func (s *ReviewService) EventAverage(ctx context.Context, eventID string) (float64, error) {
	reviews, err := s.eventReviews.ListEventReviews(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("listing event reviews: %w", err)
	}
	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}
	return meanRating(ratings), nil
}

// OrganizerAverage computes the organizer's average rating the same way.
func (s *ReviewService) OrganizerAverage(ctx context.Context, organizerID string) (float64, error) {
	reviews, err := s.organizerReviews.ListOrganizerReviews(ctx, organizerID)
	if err != nil {
		return 0, fmt.Errorf("listing organizer reviews: %w", err)
	}
	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}
	return meanRating(ratings), nil
}
