// ABOUTME: Tests for the PIN lock service and session tokens
// ABOUTME: Uses a real temporary SQLite store for settings persistence

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/journal/internal/store"
)

func setupService(t *testing.T) (*Service, *store.SQLiteStore) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return NewService(s, []byte("test-secret")), s
}

func TestService_SetAndUnlock(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	enabled, err := svc.LockEnabled(ctx, 1)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, svc.SetPIN(ctx, 1, "1234"))

	enabled, err = svc.LockEnabled(ctx, 1)
	require.NoError(t, err)
	assert.True(t, enabled)

	token, err := svc.Unlock(ctx, 1, "1234")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	gate := svc.Session(token)
	assert.True(t, gate.IsAuthorized(ctx))
}

func TestService_SetPIN_TooShort(t *testing.T) {
	svc, _ := setupService(t)

	err := svc.SetPIN(context.Background(), 1, "123")
	assert.ErrorIs(t, err, ErrPINTooShort)
}

func TestService_Unlock_WrongPIN(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPIN(ctx, 1, "1234"))

	_, err := svc.Unlock(ctx, 1, "9999")
	assert.ErrorIs(t, err, ErrInvalidPIN)
	_, err = svc.Unlock(ctx, 1, "0000")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	settings, err := s.GetSecuritySettings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, settings.FailedAttempts)

	// A successful unlock resets the counter
	_, err = svc.Unlock(ctx, 1, "1234")
	require.NoError(t, err)

	settings, err = s.GetSecuritySettings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, settings.FailedAttempts)
}

func TestService_Unlock_NoPIN(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Unlock(context.Background(), 1, "1234")
	assert.ErrorIs(t, err, ErrPINNotSet)
}

func TestService_ChangePIN(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPIN(ctx, 1, "1234"))

	err := svc.ChangePIN(ctx, 1, "wrong", "5678")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	require.NoError(t, svc.ChangePIN(ctx, 1, "1234", "5678"))

	_, err = svc.Unlock(ctx, 1, "1234")
	assert.ErrorIs(t, err, ErrInvalidPIN)
	_, err = svc.Unlock(ctx, 1, "5678")
	assert.NoError(t, err)
}

func TestService_DisableLock(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetPIN(ctx, 1, "1234"))
	require.NoError(t, svc.DisableLock(ctx, 1))

	enabled, err := svc.LockEnabled(ctx, 1)
	require.NoError(t, err)
	assert.False(t, enabled)

	_, err = svc.Unlock(ctx, 1, "1234")
	assert.ErrorIs(t, err, ErrPINNotSet)
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"))

	token, err := issuer.Issue(7)
	require.NoError(t, err)

	userID, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"))
	other := NewTokenIssuer([]byte("different"))

	token, err := issuer.Issue(7)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"))
	issuer.ttl = -time.Minute

	token, err := issuer.Issue(7)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAllowAll(t *testing.T) {
	assert.True(t, AllowAll{}.IsAuthorized(context.Background()))
}
