package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"
	"github.com/ykazlou/afisha/internal/apperror"
	"github.com/ykazlou/afisha/internal/model"
	"github.com/ykazlou/afisha/internal/repository"
)

var _ repository.TagRepository = (*DB)(nil)

// CreateTag inserts a tag. The UNIQUE constraint on tags.name makes
// duplicate creation a conflict rather than a silent no-op.
func (db *DB) CreateTag(ctx context.Context, tag *model.Tag) error {
	tag.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tags (id, name) VALUES (?, ?)`,
		tag.ID, tag.Name,
	)
	if err != nil {
		if isUniqueViolation(err, "tags.name") {
			return apperror.Conflict("tag", fmt.Sprintf("tag %q already exists", tag.Name))
		}
		return fmt.Errorf("sqlite: creating tag: %w", err)
	}
	return nil
}

// GetTagByName resolves a tag by its exact name.
func (db *DB) GetTagByName(ctx context.Context, name string) (*model.Tag, error) {
	var t model.Tag
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE name = ?`, name,
	).Scan(&t.ID, &t.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("tag", name)
		}
		return nil, fmt.Errorf("sqlite: getting tag %q: %w", name, err)
	}
	return &t, nil
}

// ListTags returns the full tag vocabulary, alphabetically.
func (db *DB) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tags: %w", err)
	}
	return tags, nil
}
