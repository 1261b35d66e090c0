// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// SQLite — works everywhere Go works.
//
// SCHEMA NOTES:
// Every uniqueness rule of the domain lives here as a constraint, not as an
// application-level existence check:
//   - users.username / users.email        → UNIQUE
//   - tags.name                           → UNIQUE
//   - event_reviews (event_id, user_id)   → UNIQUE (one review per pair)
//   - organizer_reviews (organizer_id, reviewer_id) → UNIQUE
//   - subscriptions (user_id, organizer_id) → UNIQUE
//   - user_interests (user_id, tag_id)    → PRIMARY KEY
//   - event_tags / event_celebrities      → composite PRIMARY KEY
// Concurrent requests racing through check-then-write paths therefore cannot
// produce duplicate rows; the second writer hits the constraint.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements all repository
// interfaces declared in the repository package.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — a web
	// server hits the DB from many requests at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite for backwards compatibility.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'participant',
			is_admin      INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS tags (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			organizer_id TEXT NOT NULL REFERENCES users(id),
			format       TEXT NOT NULL DEFAULT 'offline',
			location     TEXT NOT NULL DEFAULT '',
			starts_at    DATETIME NOT NULL,
			duration     INTEGER NOT NULL DEFAULT 0,
			image_url    TEXT NOT NULL DEFAULT '',
			lat          REAL,
			lng          REAL,
			category     TEXT NOT NULL DEFAULT '',
			is_active    INTEGER NOT NULL DEFAULT 1,
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_organizer ON events(organizer_id)`,

		`CREATE TABLE IF NOT EXISTS event_tags (
			event_id TEXT NOT NULL REFERENCES events(id),
			tag_id   TEXT NOT NULL REFERENCES tags(id),
			PRIMARY KEY (event_id, tag_id)
		)`,

		`CREATE TABLE IF NOT EXISTS subscriptions (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(id),
			organizer_id TEXT NOT NULL REFERENCES users(id),
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, organizer_id)
		)`,

		`CREATE TABLE IF NOT EXISTS event_reviews (
			id         TEXT PRIMARY KEY,
			event_id   TEXT NOT NULL REFERENCES events(id),
			user_id    TEXT NOT NULL REFERENCES users(id),
			rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment    TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (event_id, user_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_event_reviews_event ON event_reviews(event_id)`,

		`CREATE TABLE IF NOT EXISTS organizer_reviews (
			id           TEXT PRIMARY KEY,
			organizer_id TEXT NOT NULL REFERENCES users(id),
			reviewer_id  TEXT NOT NULL REFERENCES users(id),
			rating       INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment      TEXT NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (organizer_id, reviewer_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_organizer_reviews_organizer ON organizer_reviews(organizer_id)`,

		`CREATE TABLE IF NOT EXISTS user_interests (
			user_id        TEXT NOT NULL REFERENCES users(id),
			tag_id         TEXT NOT NULL REFERENCES tags(id),
			interest_level INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, tag_id)
		)`,

		`CREATE TABLE IF NOT EXISTS celebrities (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url   TEXT NOT NULL DEFAULT '',
			is_verified INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS event_celebrities (
			event_id     TEXT NOT NULL REFERENCES events(id),
			celebrity_id TEXT NOT NULL REFERENCES celebrities(id),
			role         TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (event_id, celebrity_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure,
// optionally on a specific column ("users.username"). The modernc driver
// surfaces constraint violations only through the error text, so string
// matching is the available check.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return column == "" || strings.Contains(msg, column)
}
