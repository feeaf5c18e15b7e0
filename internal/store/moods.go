// ABOUTME: Mood catalog operations and entry-mood junction maintenance
// ABOUTME: Enforces one Primary and at most two Secondary moods per entry

package store

import (
	"context"
	"database/sql"
	"fmt"
)

const moodColumns = `id, name, category, emoji, predefined`

// ListMoods returns the full mood catalog.
func (s *SQLiteStore) ListMoods(ctx context.Context) ([]*Mood, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+moodColumns+` FROM moods ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing moods: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanMoods(rows)
}

// AddMood inserts a user-defined mood. The category must be one of the
// three known buckets.
func (s *SQLiteStore) AddMood(ctx context.Context, mood *Mood) error {
	if mood.Name == "" {
		return fmt.Errorf("%w: mood name required", ErrInvalidInput)
	}
	if !mood.Category.Valid() {
		return fmt.Errorf("%w: unknown mood category %q", ErrInvalidInput, mood.Category)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO moods (name, category, emoji, predefined)
		VALUES (?, ?, ?, ?)
	`, mood.Name, string(mood.Category), mood.Emoji, mood.Predefined)
	if err != nil {
		return fmt.Errorf("inserting mood: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading mood id: %w", err)
	}
	mood.ID = id
	return nil
}

// DeleteMood removes a user-defined mood. Moods still referenced by any
// entry, and predefined catalog moods, refuse deletion with ErrInUse.
func (s *SQLiteStore) DeleteMood(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: mood id %d", ErrInvalidInput, id)
	}

	var predefined bool
	err := s.db.QueryRowContext(ctx, `SELECT predefined FROM moods WHERE id = ?`, id).Scan(&predefined)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking mood: %w", err)
	}
	if predefined {
		return fmt.Errorf("%w: predefined mood", ErrInUse)
	}

	var refs int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entry_moods WHERE mood_id = ?`, id).Scan(&refs); err != nil {
		return fmt.Errorf("checking mood references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: mood referenced by %d entries", ErrInUse, refs)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM moods WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting mood: %w", err)
	}
	return nil
}

// SetEntryMoods replaces all mood assignments for an entry atomically:
// the old junction rows are deleted and the new set inserted in one
// transaction, so a concurrent reader sees all-old or all-new, never a
// mix. Exactly one Primary row is written; only the first two secondary
// ids are kept, extras dropped without error.
func (s *SQLiteStore) SetEntryMoods(ctx context.Context, entryID, primaryMoodID int64, secondaryMoodIDs []int64) error {
	if entryID <= 0 {
		return fmt.Errorf("%w: entry id %d", ErrInvalidInput, entryID)
	}
	if primaryMoodID <= 0 {
		return fmt.Errorf("%w: primary mood id %d", ErrInvalidInput, primaryMoodID)
	}

	if len(secondaryMoodIDs) > MaxSecondaryMoods {
		secondaryMoodIDs = secondaryMoodIDs[:MaxSecondaryMoods]
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_moods WHERE entry_id = ?`, entryID); err != nil {
		return fmt.Errorf("clearing entry moods: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO entry_moods (entry_id, mood_id, role) VALUES (?, ?, ?)
	`, entryID, primaryMoodID, string(RolePrimary)); err != nil {
		return fmt.Errorf("inserting primary mood: %w", err)
	}

	for _, moodID := range secondaryMoodIDs {
		if moodID <= 0 {
			return fmt.Errorf("%w: secondary mood id %d", ErrInvalidInput, moodID)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entry_moods (entry_id, mood_id, role) VALUES (?, ?, ?)
		`, entryID, moodID, string(RoleSecondary)); err != nil {
			return fmt.Errorf("inserting secondary mood: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entry moods: %w", err)
	}

	s.logger.Debug("set entry moods", "entry", entryID, "primary", primaryMoodID,
		"secondary", len(secondaryMoodIDs))
	return nil
}

// GetPrimaryMood resolves the entry's Primary junction row to its mood
// record. An entry with no primary mood set yields (nil, nil), not an
// error.
func (s *SQLiteStore) GetPrimaryMood(ctx context.Context, entryID int64) (*Mood, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT m.id, m.name, m.category, m.emoji, m.predefined
		FROM moods m
		JOIN entry_moods em ON em.mood_id = m.id
		WHERE em.entry_id = ? AND em.role = ?
	`, entryID, string(RolePrimary))

	mood, err := scanMood(row)
	if err == ErrNotFound {
		return nil, nil
	}
	return mood, err
}

// GetSecondaryMoods resolves the entry's Secondary junction rows to mood
// records, in assignment order.
func (s *SQLiteStore) GetSecondaryMoods(ctx context.Context, entryID int64) ([]*Mood, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.category, m.emoji, m.predefined
		FROM moods m
		JOIN entry_moods em ON em.mood_id = m.id
		WHERE em.entry_id = ? AND em.role = ?
		ORDER BY em.id
	`, entryID, string(RoleSecondary))
	if err != nil {
		return nil, fmt.Errorf("getting secondary moods: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanMoods(rows)
}

// GetMoodsForEntry resolves every mood attached to the entry, primary
// first.
func (s *SQLiteStore) GetMoodsForEntry(ctx context.Context, entryID int64) ([]*Mood, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.category, m.emoji, m.predefined
		FROM moods m
		JOIN entry_moods em ON em.mood_id = m.id
		WHERE em.entry_id = ?
		ORDER BY em.role = 'Secondary', em.id
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("getting entry moods: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanMoods(rows)
}

func scanMood(row rowScanner) (*Mood, error) {
	var m Mood
	var category string
	var emoji sql.NullString
	err := row.Scan(&m.ID, &m.Name, &category, &emoji, &m.Predefined)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning mood: %w", err)
	}
	m.Category = MoodCategory(category)
	m.Emoji = emoji.String
	return &m, nil
}

func scanMoods(rows *sql.Rows) ([]*Mood, error) {
	var moods []*Mood
	for rows.Next() {
		m, err := scanMood(rows)
		if err != nil {
			return nil, err
		}
		moods = append(moods, m)
	}
	return moods, rows.Err()
}
