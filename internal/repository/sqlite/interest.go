package sqlite

import (
	"context"
	"fmt"

	"github.com/ykazlou/afisha/internal/repository"
)

var _ repository.InterestRepository = (*DB)(nil)

// InterestsForUser returns tagID → accumulated interest level. Tags with
// no row are simply absent from the map (conceptually level 0).
func (db *DB) InterestsForUser(ctx context.Context, userID string) (map[string]int, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT tag_id, interest_level FROM user_interests WHERE user_id = ?`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing interests: %w", err)
	}
	defer rows.Close()

	levels := make(map[string]int)
	for rows.Next() {
		var (
			tagID string
			level int
		)
		if err := rows.Scan(&tagID, &level); err != nil {
			return nil, fmt.Errorf("sqlite: scanning interest row: %w", err)
		}
		levels[tagID] = level
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating interests: %w", err)
	}
	return levels, nil
}

// ReplaceInterests wipes the user's interest rows and inserts the given
// levels, all in one transaction. This is the explicit preferences reset —
// the one path that bypasses the running accumulation.
func (db *DB) ReplaceInterests(ctx context.Context, userID string, levels map[string]int) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning interests tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_interests WHERE user_id = ?`, userID,
	); err != nil {
		return fmt.Errorf("sqlite: clearing interests: %w", err)
	}

	for tagID, level := range levels {
		if level == 0 {
			continue // level 0 is represented by row absence
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_interests (user_id, tag_id, interest_level)
			 VALUES (?, ?, ?)`,
			userID, tagID, level,
		); err != nil {
			return fmt.Errorf("sqlite: inserting interest for tag %s: %w", tagID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing interests: %w", err)
	}
	return nil
}
