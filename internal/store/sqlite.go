// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides journal persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Ensure SQLiteStore implements the Store interface.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

var (
	sharedOnce  sync.Once
	sharedStore *SQLiteStore
	sharedErr   error
)

// OpenShared returns the process-wide store handle, opening it on first
// call. The open/schema-create/seed sequence runs at most once even when
// many callers race the initializer; later calls get the cached handle
// (or the cached open error). The path of the first caller wins.
func OpenShared(path string) (*SQLiteStore, error) {
	sharedOnce.Do(func() {
		s, err := NewSQLiteStore(path)
		if err != nil {
			sharedErr = err
			return
		}

		ctx := context.Background()
		if err := s.SeedDefaultMoods(ctx); err != nil {
			s.Close()
			sharedErr = fmt.Errorf("seeding moods: %w", err)
			return
		}
		if err := s.SeedDefaultTags(ctx); err != nil {
			s.Close()
			sharedErr = fmt.Errorf("seeding tags: %w", err)
			return
		}
		if err := s.EnsureDefaultUser(ctx); err != nil {
			s.Close()
			sharedErr = fmt.Errorf("ensuring default user: %w", err)
			return
		}

		sharedStore = s
	})
	return sharedStore, sharedErr
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			email      TEXT,
			theme      TEXT NOT NULL DEFAULT 'light',
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS journal_entries (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL,
			entry_date TEXT NOT NULL,
			title      TEXT NOT NULL DEFAULT '',
			content    TEXT NOT NULL DEFAULT '',
			word_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_user_date
			ON journal_entries(user_id, entry_date);
		CREATE INDEX IF NOT EXISTS idx_entries_date
			ON journal_entries(entry_date DESC);

		CREATE TABLE IF NOT EXISTS moods (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			category   TEXT NOT NULL DEFAULT 'Neutral',
			emoji      TEXT,
			predefined INTEGER NOT NULL DEFAULT 0,

			CHECK (category IN ('Positive', 'Neutral', 'Negative'))
		);

		CREATE TABLE IF NOT EXISTS tags (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			category   TEXT,
			color      TEXT,
			predefined INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS entry_moods (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id INTEGER NOT NULL,
			mood_id  INTEGER NOT NULL,
			role     TEXT NOT NULL DEFAULT 'Primary',

			CHECK (role IN ('Primary', 'Secondary'))
		);

		CREATE INDEX IF NOT EXISTS idx_entry_moods_entry ON entry_moods(entry_id);
		CREATE INDEX IF NOT EXISTS idx_entry_moods_mood ON entry_moods(mood_id);

		CREATE TABLE IF NOT EXISTS entry_tags (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id INTEGER NOT NULL,
			tag_id   INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_entry_tags_entry ON entry_tags(entry_id);
		CREATE INDEX IF NOT EXISTS idx_entry_tags_tag ON entry_tags(tag_id);

		CREATE TABLE IF NOT EXISTS security_settings (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id         INTEGER NOT NULL UNIQUE,
			pin_hash        TEXT,
			enabled         INTEGER NOT NULL DEFAULT 0,
			failed_attempts INTEGER NOT NULL DEFAULT 0,
			updated_at      TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// isConstraintViolation checks if the error is a SQLite UNIQUE constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

// parseDay parses a stored YYYY-MM-DD value. Invalid values come back as
// the zero time rather than failing the whole scan.
func parseDay(s string) time.Time {
	t, _ := time.Parse(DayFormat, s)
	return t
}

// parseTime parses a stored RFC3339 timestamp, tolerating bad values.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
