// ABOUTME: Journal entry CRUD and query operations for SQLiteStore
// ABOUTME: Enforces the one-entry-per-day rule and cascades junction deletes

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const entryColumns = `id, user_id, entry_date, title, content, word_count, created_at, updated_at`

// CreateEntry persists a new journal entry. At most one entry may exist
// per (user, calendar day); a second attempt fails with a
// *DuplicateEntryError for the offending date. The store assigns the id
// and sets both timestamps to now. A zero UserID is resolved to the
// default user.
func (s *SQLiteStore) CreateEntry(ctx context.Context, entry *Entry) error {
	if entry.UserID < 0 {
		return fmt.Errorf("%w: negative user id %d", ErrInvalidInput, entry.UserID)
	}
	if entry.UserID == 0 {
		user, err := s.GetDefaultUser(ctx)
		if err != nil {
			return fmt.Errorf("resolving default user: %w", err)
		}
		entry.UserID = user.ID
	}

	day := Day(entry.Date)

	// Pre-check so the caller gets the offending date rather than a bare
	// constraint error. The unique index still backs this under races.
	existing, err := s.GetEntryByDate(ctx, entry.UserID, day)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking existing entry: %w", err)
	}
	if existing != nil {
		return &DuplicateEntryError{Date: day}
	}

	now := time.Now()
	entry.Date = day
	entry.CreatedAt = now
	entry.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (user_id, entry_date, title, content, word_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.UserID, day.Format(DayFormat), entry.Title, entry.Content, entry.WordCount,
		formatTime(now), formatTime(now))
	if err != nil {
		if isConstraintViolation(err) {
			return &DuplicateEntryError{Date: day}
		}
		return fmt.Errorf("inserting entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading entry id: %w", err)
	}
	entry.ID = id

	s.logger.Info("created entry", "id", id, "date", day.Format(DayFormat))
	return nil
}

// UpdateEntry overwrites an existing entry verbatim (no partial-patch
// semantics; callers supply the full record) and refreshes updated_at.
// Returns ErrNotFound if the id does not exist.
func (s *SQLiteStore) UpdateEntry(ctx context.Context, entry *Entry) error {
	if entry.ID <= 0 {
		return fmt.Errorf("%w: entry id %d", ErrInvalidInput, entry.ID)
	}

	entry.UpdatedAt = time.Now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE journal_entries
		SET user_id = ?, entry_date = ?, title = ?, content = ?, word_count = ?, updated_at = ?
		WHERE id = ?
	`, entry.UserID, Day(entry.Date).Format(DayFormat), entry.Title, entry.Content,
		entry.WordCount, formatTime(entry.UpdatedAt), entry.ID)
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	s.logger.Info("updated entry", "id", entry.ID)
	return nil
}

// DeleteEntry removes an entry and all junction rows referencing it, as
// a single transaction: junction rows first, then the entry, so no
// orphan mood/tag rows can survive. Returns ErrNotFound if the id is
// absent.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: entry id %d", ErrInvalidInput, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM journal_entries WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_moods WHERE entry_id = ?`, id); err != nil {
		return fmt.Errorf("deleting entry moods: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE entry_id = ?`, id); err != nil {
		return fmt.Errorf("deleting entry tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	s.logger.Info("deleted entry", "id", id)
	return nil
}

// GetEntryByID retrieves an entry by id.
// Returns ErrNotFound if the entry doesn't exist.
func (s *SQLiteStore) GetEntryByID(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE id = ?`, id)
	return scanEntry(row)
}

// GetEntryByDate retrieves the user's entry for the given calendar day.
// The date is truncated to day boundaries before lookup.
// Returns ErrNotFound if no entry exists for that day.
func (s *SQLiteStore) GetEntryByDate(ctx context.Context, userID int64, date time.Time) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE user_id = ? AND entry_date = ?`,
		userID, Day(date).Format(DayFormat))
	return scanEntry(row)
}

// ListAllEntries returns every entry ordered by date descending,
// most recent first.
func (s *SQLiteStore) ListAllEntries(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM journal_entries ORDER BY entry_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// ListEntriesInRange returns entries whose day falls within
// [start, end], both bounds inclusive, ordered by date descending.
func (s *SQLiteStore) ListEntriesInRange(ctx context.Context, start, end time.Time) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM journal_entries
		WHERE entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date DESC, id DESC
	`, Day(start).Format(DayFormat), Day(end).Format(DayFormat))
	if err != nil {
		return nil, fmt.Errorf("listing entries in range: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// SearchEntries returns entries whose title or content contains the term,
// case-insensitively. A blank term returns the full unfiltered list.
func (s *SQLiteStore) SearchEntries(ctx context.Context, term string) ([]*Entry, error) {
	if strings.TrimSpace(term) == "" {
		return s.ListAllEntries(ctx)
	}

	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM journal_entries
		WHERE lower(title) LIKE ? ESCAPE '\' OR lower(content) LIKE ? ESCAPE '\'
		ORDER BY entry_date DESC, id DESC
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// FilterEntries intersects a date-range filter, a mood filter (entry has
// any junction row with a mood id in MoodIDs) and a tag filter (same for
// TagIDs). Omitted filters impose no constraint. Results are ordered by
// date descending.
func (s *SQLiteStore) FilterEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	var args []any

	if filter.Start != nil {
		query += ` AND entry_date >= ?`
		args = append(args, Day(*filter.Start).Format(DayFormat))
	}
	if filter.End != nil {
		query += ` AND entry_date <= ?`
		args = append(args, Day(*filter.End).Format(DayFormat))
	}
	if len(filter.MoodIDs) > 0 {
		query += ` AND id IN (SELECT entry_id FROM entry_moods WHERE mood_id IN (` +
			placeholders(len(filter.MoodIDs)) + `))`
		for _, id := range filter.MoodIDs {
			args = append(args, id)
		}
	}
	if len(filter.TagIDs) > 0 {
		query += ` AND id IN (SELECT entry_id FROM entry_tags WHERE tag_id IN (` +
			placeholders(len(filter.TagIDs)) + `))`
		for _, id := range filter.TagIDs {
			args = append(args, id)
		}
	}

	query += ` ORDER BY entry_date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtering entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanEntries(rows)
}

// CountEntries returns the total number of journal entries.
func (s *SQLiteStore) CountEntries(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// escapeLike escapes LIKE wildcards so the term matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var dateStr, createdAt, updatedAt string
	err := row.Scan(&e.ID, &e.UserID, &dateStr, &e.Title, &e.Content, &e.WordCount, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entry: %w", err)
	}
	e.Date = parseDay(dateStr)
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
