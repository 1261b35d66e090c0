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

var _ repository.EventRepository = (*DB)(nil)

const eventColumns = `id, title, description, organizer_id, format, location,
	starts_at, duration, image_url, lat, lng, category, is_active, created_at`

// CreateEvent inserts the event and its tag links in a single transaction so a
// failed link insert never leaves a half-tagged event behind.
func (db *DB) CreateEvent(ctx context.Context, event *model.Event, tagIDs []string) error {
	event.ID = xid.New().String()
	event.CreatedAt = time.Now()
	event.IsActive = true

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning event tx: %w", err)
	}
	// Rollback is a no-op after a successful Commit.
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, title, description, organizer_id, format, location,
		                     starts_at, duration, image_url, lat, lng, category, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Title,
		event.Description,
		event.OrganizerID,
		event.Format,
		event.Location,
		event.StartsAt,
		event.Duration,
		event.ImageURL,
		nullFloat(event.Lat),
		nullFloat(event.Lng),
		event.Category,
		event.IsActive,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating event: %w", err)
	}

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_tags (event_id, tag_id) VALUES (?, ?)`,
			event.ID, tagID,
		); err != nil {
			return fmt.Errorf("sqlite: linking event tag %s: %w", tagID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing event: %w", err)
	}
	return nil
}

// GetEventByID retrieves a single event. Inactive events are still fetchable by
// ID — only listings exclude them.
func (db *DB) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)

	event, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("event", id)
		}
		return nil, fmt.Errorf("sqlite: getting event %s: %w", id, err)
	}
	return event, nil
}

// ListActiveEvents returns every active event, soonest start first.
func (db *DB) ListActiveEvents(ctx context.Context) ([]model.Event, error) {
	return db.listEvents(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE is_active = 1
		 ORDER BY starts_at ASC`)
}

// ListActiveEventsByTag returns active events linked to tagID, soonest start
// first. An unknown tagID simply matches nothing.
func (db *DB) ListActiveEventsByTag(ctx context.Context, tagID string) ([]model.Event, error) {
	return db.listEvents(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 JOIN event_tags ON event_tags.event_id = events.id
		 WHERE is_active = 1 AND event_tags.tag_id = ?
		 ORDER BY starts_at ASC`,
		tagID)
}

// ListEventsByOrganizer returns the organizer's active events, newest start time
// first — the order of the profile page.
func (db *DB) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	return db.listEvents(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE is_active = 1 AND organizer_id = ?
		 ORDER BY starts_at DESC`,
		organizerID)
}

// TagsForEvent returns the tags linked to an event, alphabetically.
func (db *DB) TagsForEvent(ctx context.Context, eventID string) ([]model.Tag, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT tags.id, tags.name
		 FROM tags
		 JOIN event_tags ON event_tags.tag_id = tags.id
		 WHERE event_tags.event_id = ?
		 ORDER BY tags.name`,
		eventID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags for event %s: %w", eventID, err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning event tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating event tags: %w", err)
	}
	return tags, nil
}

func (db *DB) listEvents(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing events: %w", err)
	}
	defer rows.Close()

	events := make([]model.Event, 0, 16)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning event row: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating events: %w", err)
	}
	return events, nil
}

// rowScanner covers both *sql.Row and *sql.Rows so one scan helper serves
// single- and multi-row queries.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var (
		e        model.Event
		lat, lng sql.NullFloat64
	)
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.OrganizerID,
		&e.Format,
		&e.Location,
		&e.StartsAt,
		&e.Duration,
		&e.ImageURL,
		&lat,
		&lng,
		&e.Category,
		&e.IsActive,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		e.Lat = &lat.Float64
	}
	if lng.Valid {
		e.Lng = &lng.Float64
	}
	return &e, nil
}

// nullFloat converts an optional coordinate to its SQL representation.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
