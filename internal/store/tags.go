// ABOUTME: Tag catalog operations and entry-tag junction maintenance
// ABOUTME: Replace-set semantics with transactional delete-then-insert

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const tagColumns = `id, name, category, color, predefined, created_at`

// ListTags returns the full tag catalog.
func (s *SQLiteStore) ListTags(ctx context.Context) ([]*Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanTags(rows)
}

// AddTag inserts a user-defined tag.
func (s *SQLiteStore) AddTag(ctx context.Context, tag *Tag) error {
	if tag.Name == "" {
		return fmt.Errorf("%w: tag name required", ErrInvalidInput)
	}

	tag.CreatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name, category, color, predefined, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, tag.Name, tag.Category, tag.Color, tag.Predefined, formatTime(tag.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting tag: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading tag id: %w", err)
	}
	tag.ID = id
	return nil
}

// DeleteTag removes a user-defined tag. Tags still referenced by any
// entry, and predefined catalog tags, refuse deletion with ErrInUse.
func (s *SQLiteStore) DeleteTag(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: tag id %d", ErrInvalidInput, id)
	}

	var predefined bool
	err := s.db.QueryRowContext(ctx, `SELECT predefined FROM tags WHERE id = ?`, id).Scan(&predefined)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking tag: %w", err)
	}
	if predefined {
		return fmt.Errorf("%w: predefined tag", ErrInUse)
	}

	var refs int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entry_tags WHERE tag_id = ?`, id).Scan(&refs); err != nil {
		return fmt.Errorf("checking tag references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: tag referenced by %d entries", ErrInUse, refs)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	return nil
}

// SetEntryTags replaces all tag assignments for an entry atomically with
// delete-then-insert semantics inside one transaction. Duplicate ids in
// the input are not deduplicated here; that is the caller's
// responsibility.
func (s *SQLiteStore) SetEntryTags(ctx context.Context, entryID int64, tagIDs []int64) error {
	if entryID <= 0 {
		return fmt.Errorf("%w: entry id %d", ErrInvalidInput, entryID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = ?`, entryID); err != nil {
		return fmt.Errorf("clearing entry tags: %w", err)
	}

	for _, tagID := range tagIDs {
		if tagID <= 0 {
			return fmt.Errorf("%w: tag id %d", ErrInvalidInput, tagID)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entry_tags (entry_id, tag_id) VALUES (?, ?)
		`, entryID, tagID); err != nil {
			return fmt.Errorf("inserting entry tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entry tags: %w", err)
	}

	s.logger.Debug("set entry tags", "entry", entryID, "tags", len(tagIDs))
	return nil
}

// GetTagsForEntry resolves the entry's junction rows to full tag
// records, in assignment order. An entry with no tags yields an empty
// slice.
func (s *SQLiteStore) GetTagsForEntry(ctx context.Context, entryID int64) ([]*Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.category, t.color, t.predefined, t.created_at
		FROM tags t
		JOIN entry_tags et ON et.tag_id = t.id
		WHERE et.entry_id = ?
		ORDER BY et.id
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("getting entry tags: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanTags(rows)
}

func scanTag(row rowScanner) (*Tag, error) {
	var t Tag
	var category, color sql.NullString
	var createdAt string
	err := row.Scan(&t.ID, &t.Name, &category, &color, &t.Predefined, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning tag: %w", err)
	}
	t.Category = category.String
	t.Color = color.String
	t.CreatedAt = parseTime(createdAt)
	return &t, nil
}

func scanTags(rows *sql.Rows) ([]*Tag, error) {
	var tags []*Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
