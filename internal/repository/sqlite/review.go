package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/ykazlou/afisha/internal/model"
	"github.com/ykazlou/afisha/internal/repository"
)

var (
	_ repository.EventReviewRepository     = (*DB)(nil)
	_ repository.OrganizerReviewRepository = (*DB)(nil)
)

// SubmitEventReview applies an event review and its interest accumulation atomically.
//
// UPSERT VIA ON CONFLICT:
// The UNIQUE(event_id, user_id) constraint plus "ON CONFLICT DO UPDATE"
// makes resubmission overwrite rating and comment in place. The review
// count for the event never grows when the same user submits again, even
// under concurrent requests — the constraint serializes them.
//
// INTEREST ACCUMULATION:
// Every tag of the event gets the rating value ADDED to the reviewer's
// interest level (row created at the rating value when absent). This is a
// running accumulator by design: a re-review adds the new rating on top of
// earlier contributions rather than replacing them. Both the review upsert
// and all interest rows commit together or not at all.
func (db *DB) SubmitEventReview(ctx context.Context, review *model.EventReview, tagIDs []string) error {
	review.ID = xid.New().String()
	review.CreatedAt = time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning review tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO event_reviews (id, event_id, user_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (event_id, user_id)
		 DO UPDATE SET rating = excluded.rating, comment = excluded.comment`,
		review.ID,
		review.EventID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting event review: %w", err)
	}

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_interests (user_id, tag_id, interest_level)
			 VALUES (?, ?, ?)
			 ON CONFLICT (user_id, tag_id)
			 DO UPDATE SET interest_level = interest_level + excluded.interest_level`,
			review.UserID,
			tagID,
			review.Rating,
		); err != nil {
			return fmt.Errorf("sqlite: accumulating interest for tag %s: %w", tagID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing review: %w", err)
	}
	return nil
}

// ListEventReviews returns the event's reviews newest first, with the
// reviewer's username joined in for display.
func (db *DB) ListEventReviews(ctx context.Context, eventID string) ([]model.EventReview, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.id, r.event_id, r.user_id, u.username, r.rating, r.comment, r.created_at
		 FROM event_reviews r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.event_id = ?
		 ORDER BY r.created_at DESC`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing event reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.EventReview
	for rows.Next() {
		var r model.EventReview
		if err := rows.Scan(
			&r.ID, &r.EventID, &r.UserID, &r.Username,
			&r.Rating, &r.Comment, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning event review row: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating event reviews: %w", err)
	}
	return reviews, nil
}

// SubmitOrganizerReview upserts a review of an organizer, keyed by
// UNIQUE(organizer_id, reviewer_id). Organizer reviews carry no tags, so
// there is no interest accumulation here.
func (db *DB) SubmitOrganizerReview(ctx context.Context, review *model.OrganizerReview) error {
	review.ID = xid.New().String()
	review.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO organizer_reviews (id, organizer_id, reviewer_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (organizer_id, reviewer_id)
		 DO UPDATE SET rating = excluded.rating, comment = excluded.comment`,
		review.ID,
		review.OrganizerID,
		review.ReviewerID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting organizer review: %w", err)
	}
	return nil
}

// ListOrganizerReviews returns the organizer's reviews newest first.
func (db *DB) ListOrganizerReviews(ctx context.Context, organizerID string) ([]model.OrganizerReview, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.id, r.organizer_id, r.reviewer_id, u.username, r.rating, r.comment, r.created_at
		 FROM organizer_reviews r
		 JOIN users u ON u.id = r.reviewer_id
		 WHERE r.organizer_id = ?
		 ORDER BY r.created_at DESC`,
		organizerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing organizer reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.OrganizerReview
	for rows.Next() {
		var r model.OrganizerReview
		if err := rows.Scan(
			&r.ID, &r.OrganizerID, &r.ReviewerID, &r.Username,
			&r.Rating, &r.Comment, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning organizer review row: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating organizer reviews: %w", err)
	}
	return reviews, nil
}
