// Package auth implements the PIN lock gating mutating journal
// operations.
//
// The journal core never inspects credentials; it consults the
// Authorizer interface and nothing else. This package supplies the
// implementations: Service manages bcrypt-hashed PINs persisted through
// the store's security settings, Unlock exchanges a correct PIN for an
// HS256 session token, and Session wraps such a token into an
// Authorizer. AllowAll serves journals with no lock configured.
//
// Failed unlock attempts are counted and persisted; PIN comparison runs
// against a dummy hash when no PIN is set, keeping timing constant.
package auth
