// ABOUTME: Security settings persistence for the PIN lock
// ABOUTME: One row per user, upserted on save; hashing lives in the auth package

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GetSecuritySettings returns the user's PIN lock settings.
// Returns ErrNotFound when the user has never saved any.
func (s *SQLiteStore) GetSecuritySettings(ctx context.Context, userID int64) (*SecuritySettings, error) {
	var set SecuritySettings
	var pinHash sql.NullString
	var updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, pin_hash, enabled, failed_attempts, updated_at
		FROM security_settings WHERE user_id = ?
	`, userID).Scan(&set.ID, &set.UserID, &pinHash, &set.Enabled, &set.FailedAttempts, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting security settings: %w", err)
	}

	set.PINHash = pinHash.String
	set.UpdatedAt = parseTime(updatedAt)
	return &set, nil
}

// SaveSecuritySettings upserts the user's PIN lock settings, refreshing
// updated_at.
func (s *SQLiteStore) SaveSecuritySettings(ctx context.Context, settings *SecuritySettings) error {
	if settings.UserID <= 0 {
		return fmt.Errorf("%w: user id %d", ErrInvalidInput, settings.UserID)
	}

	settings.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO security_settings (user_id, pin_hash, enabled, failed_attempts, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			pin_hash = excluded.pin_hash,
			enabled = excluded.enabled,
			failed_attempts = excluded.failed_attempts,
			updated_at = excluded.updated_at
	`, settings.UserID, settings.PINHash, settings.Enabled, settings.FailedAttempts,
		formatTime(settings.UpdatedAt))
	if err != nil {
		return fmt.Errorf("saving security settings: %w", err)
	}

	if settings.ID == 0 {
		if id, err := res.LastInsertId(); err == nil {
			settings.ID = id
		}
	}
	return nil
}
