package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/ykazlou/afisha/internal/repository"
)

var _ repository.SubscriptionRepository = (*DB)(nil)

// ToggleSubscription deletes the subscription if it exists, otherwise
// creates it, inside one transaction.
//
// The DELETE-first shape means we never need a prior SELECT: if the DELETE
// touched a row the user was subscribed and is now not, otherwise we
// INSERT. The UNIQUE(user_id, organizer_id) constraint backs this up —
// two concurrent toggles cannot both insert.
func (db *DB) ToggleSubscription(ctx context.Context, userID, organizerID string, now time.Time) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite: beginning subscription tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND organizer_id = ?`,
		userID, organizerID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting subscription: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}

	subscribed := false
	if deleted == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subscriptions (id, user_id, organizer_id, created_at)
			 VALUES (?, ?, ?, ?)`,
			xid.New().String(), userID, organizerID, now,
		); err != nil {
			return false, fmt.Errorf("sqlite: creating subscription: %w", err)
		}
		subscribed = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("sqlite: committing subscription toggle: %w", err)
	}
	return subscribed, nil
}

// SubscriptionExists reports whether the user follows the organizer.
func (db *DB) SubscriptionExists(ctx context.Context, userID, organizerID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND organizer_id = ?`,
		userID, organizerID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking subscription: %w", err)
	}
	return count > 0, nil
}

// CountSubscribers returns the organizer's follower count.
func (db *DB) CountSubscribers(ctx context.Context, organizerID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE organizer_id = ?`,
		organizerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting subscribers: %w", err)
	}
	return count, nil
}
