// ABOUTME: PIN lock service gating mutating journal operations
// ABOUTME: bcrypt hashing with failed-attempt tracking persisted via the store

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/2389/journal/internal/store"
)

// PIN errors
var (
	ErrPINTooShort = errors.New("pin must be at least 4 characters")
	ErrInvalidPIN  = errors.New("invalid pin")
	ErrPINNotSet   = errors.New("no pin configured")
)

// MinPINLength is the minimum accepted PIN length.
const MinPINLength = 4

// dummyHash is compared against when no PIN exists, keeping unlock
// timing constant whether or not a hash is stored.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// SettingsStore is the slice of the journal store the auth service
// needs. The service never touches entries or catalogs.
type SettingsStore interface {
	GetSecuritySettings(ctx context.Context, userID int64) (*store.SecuritySettings, error)
	SaveSecuritySettings(ctx context.Context, settings *store.SecuritySettings) error
}

// Authorizer answers whether the caller may invoke mutating operations.
// The journal core consults this gate and nothing else; it never
// inspects credentials itself.
type Authorizer interface {
	IsAuthorized(ctx context.Context) bool
}

// Service manages the PIN lock and issues session tokens on unlock.
type Service struct {
	settings SettingsStore
	tokens   *TokenIssuer
	logger   *slog.Logger
}

// NewService creates a PIN lock service. The secret signs session
// tokens; see NewTokenIssuer.
func NewService(settings SettingsStore, secret []byte) *Service {
	return &Service{
		settings: settings,
		tokens:   NewTokenIssuer(secret),
		logger:   slog.Default().With("component", "auth"),
	}
}

// LockEnabled reports whether the user has an active PIN lock.
func (s *Service) LockEnabled(ctx context.Context, userID int64) (bool, error) {
	settings, err := s.settings.GetSecuritySettings(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return settings.Enabled && settings.PINHash != "", nil
}

// SetPIN hashes and stores a new PIN, enabling the lock.
func (s *Service) SetPIN(ctx context.Context, userID int64, pin string) error {
	if len(pin) < MinPINLength {
		return ErrPINTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing pin: %w", err)
	}

	settings, err := s.settings.GetSecuritySettings(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		settings = &store.SecuritySettings{UserID: userID}
	} else if err != nil {
		return err
	}

	settings.PINHash = string(hash)
	settings.Enabled = true
	settings.FailedAttempts = 0
	if err := s.settings.SaveSecuritySettings(ctx, settings); err != nil {
		return err
	}

	s.logger.Info("pin lock enabled", "user", userID)
	return nil
}

// ChangePIN replaces the PIN after verifying the current one.
func (s *Service) ChangePIN(ctx context.Context, userID int64, oldPIN, newPIN string) error {
	if _, err := s.Unlock(ctx, userID, oldPIN); err != nil {
		return err
	}
	return s.SetPIN(ctx, userID, newPIN)
}

// DisableLock turns the PIN lock off and clears the stored hash.
func (s *Service) DisableLock(ctx context.Context, userID int64) error {
	settings, err := s.settings.GetSecuritySettings(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	settings.PINHash = ""
	settings.Enabled = false
	settings.FailedAttempts = 0
	if err := s.settings.SaveSecuritySettings(ctx, settings); err != nil {
		return err
	}

	s.logger.Info("pin lock disabled", "user", userID)
	return nil
}

// Unlock verifies the PIN and returns a signed session token. Failed
// attempts are counted and persisted; a successful unlock resets the
// counter.
func (s *Service) Unlock(ctx context.Context, userID int64, pin string) (string, error) {
	settings, err := s.settings.GetSecuritySettings(ctx, userID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && settings.PINHash == "") {
		// Dummy bcrypt comparison to maintain constant timing
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(pin))
		return "", ErrPINNotSet
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(settings.PINHash), []byte(pin)); err != nil {
		settings.FailedAttempts++
		if saveErr := s.settings.SaveSecuritySettings(ctx, settings); saveErr != nil {
			s.logger.Error("recording failed attempt", "error", saveErr)
		}
		s.logger.Warn("pin rejected", "user", userID, "failed_attempts", settings.FailedAttempts)
		return "", ErrInvalidPIN
	}

	if settings.FailedAttempts != 0 {
		settings.FailedAttempts = 0
		if err := s.settings.SaveSecuritySettings(ctx, settings); err != nil {
			return "", err
		}
	}

	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", err
	}

	s.logger.Info("unlocked", "user", userID)
	return token, nil
}

// Session wraps a token into an Authorizer consulted by the CLI before
// any mutating store call.
func (s *Service) Session(token string) Authorizer {
	return &session{tokens: s.tokens, token: token}
}

type session struct {
	tokens *TokenIssuer
	token  string
}

func (g *session) IsAuthorized(ctx context.Context) bool {
	_, err := g.tokens.Verify(g.token)
	return err == nil
}

// AllowAll is the Authorizer used when no PIN lock is configured.
type AllowAll struct{}

func (AllowAll) IsAuthorized(ctx context.Context) bool { return true }
