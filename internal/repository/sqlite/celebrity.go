package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/model"
	"github.com/ykazlou/afisha/internal/repository"
)

var _ repository.CelebrityRepository = (*DB)(nil)

// CreateCelebrity inserts a new celebrity profile.
func (db *DB) CreateCelebrity(ctx context.Context, celebrity *model.Celebrity) error {
	celebrity.ID = xid.New().String()
	celebrity.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO celebrities (id, name, description, image_url, is_verified, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		celebrity.ID,
		celebrity.Name,
		celebrity.Description,
		celebrity.ImageURL,
		celebrity.IsVerified,
		celebrity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating celebrity: %w", err)
	}
	return nil
}

// GetCelebrityByID retrieves a celebrity profile.
func (db *DB) GetCelebrityByID(ctx context.Context, id string) (*model.Celebrity, error) {
	var c model.Celebrity
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, image_url, is_verified, created_at
		 FROM celebrities WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.IsVerified, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("celebrity", id)
		}
		return nil, fmt.Errorf("sqlite: getting celebrity %s: %w", id, err)
	}
	return &c, nil
}

// ListCelebrities returns all celebrity profiles, alphabetically.
func (db *DB) ListCelebrities(ctx context.Context) ([]model.Celebrity, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, image_url, is_verified, created_at
		 FROM celebrities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing celebrities: %w", err)
	}
	defer rows.Close()

	var celebrities []model.Celebrity
	for rows.Next() {
		var c model.Celebrity
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.IsVerified, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning celebrity row: %w", err)
		}
		celebrities = append(celebrities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating celebrities: %w", err)
	}
	return celebrities, nil
}

// AttachCelebrity links a celebrity to an event. The composite primary key
// on (event_id, celebrity_id) rejects double-attachment.
func (db *DB) AttachCelebrity(ctx context.Context, eventID, celebrityID, role string) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO event_celebrities (event_id, celebrity_id, role)
		 VALUES (?, ?, ?)`,
		eventID, celebrityID, role,
	)
	if err != nil {
		if isUniqueViolation(err, "event_celebrities") {
			return apperror.Conflict("celebrity", "already attached to this event")
		}
		return fmt.Errorf("sqlite: attaching celebrity %s: %w", celebrityID, err)
	}
	return nil
}

// EventLineup returns the event's celebrities with profile data joined in.
func (db *DB) EventLineup(ctx context.Context, eventID string) ([]model.EventCelebrity, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT ec.event_id, ec.celebrity_id, c.name, c.image_url, ec.role
		 FROM event_celebrities ec
		 JOIN celebrities c ON c.id = ec.celebrity_id
		 WHERE ec.event_id = ?
		 ORDER BY c.name`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing event lineup: %w", err)
	}
	defer rows.Close()

	var lineup []model.EventCelebrity
	for rows.Next() {
		var ec model.EventCelebrity
		if err := rows.Scan(&ec.EventID, &ec.CelebrityID, &ec.Name, &ec.ImageURL, &ec.Role); err != nil {
			return nil, fmt.Errorf("sqlite: scanning lineup row: %w", err)
		}
		lineup = append(lineup, ec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating lineup: %w", err)
	}
	return lineup, nil
}
