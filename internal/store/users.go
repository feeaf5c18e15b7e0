// ABOUTME: User record operations for SQLiteStore
// ABOUTME: Single-tenant in practice with an idempotent default-user bootstrap

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const userColumns = `id, name, email, theme, created_at`

// EnsureDefaultUser creates a single default user, but only when the
// users table is empty. Safe to call on every startup.
func (s *SQLiteStore) EnsureDefaultUser(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, theme, created_at) VALUES (?, 'light', ?)
	`, "Default User", formatTime(time.Now())); err != nil {
		return fmt.Errorf("creating default user: %w", err)
	}

	s.logger.Info("created default user")
	return nil
}

// GetDefaultUser returns the first user, the journal's owner.
// Returns ErrNotFound when no user exists yet.
func (s *SQLiteStore) GetDefaultUser(ctx context.Context) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT 1`)
	return scanUser(row)
}

// GetUser retrieves a user by id.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// UpdateUser overwrites the user's profile fields.
// Returns ErrNotFound if the id does not exist.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *User) error {
	if user.ID <= 0 {
		return fmt.Errorf("%w: user id %d", ErrInvalidInput, user.ID)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, theme = ? WHERE id = ?
	`, user.Name, user.Email, user.Theme, user.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	var email sql.NullString
	var createdAt string
	err := row.Scan(&u.ID, &u.Name, &email, &u.Theme, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.Email = email.String
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}
