package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

var (
	// ErrEncryptionKeyNotSet is returned by CredentialStore operations when
	// SCHOOLPORTAL_SECRET_KEY has not been configured.
	ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set SCHOOLPORTAL_SECRET_KEY")

	// ErrNoSessionID is returned by Save when ctx carries no browser session.
	ErrNoSessionID = errors.New("no browser session in context")

	// ErrSessionExpired is matched by every error returned after the backend
	// rejected the session and it could not be refreshed.
	ErrSessionExpired = errors.New("session expired")
)

type sessionIDKey struct{}

// WithSessionID returns a context scoped to the browser session id. Every
// CredentialStore call made with it reads and writes that session's tokens.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFrom returns the browser session id carried by ctx.
func SessionIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok && id != ""
}

// CredentialStore defines the driven port for durable session token persistence.
// Each browser session owns one pair of tokens, selected by the session id
// in the call's context (see WithSessionID). The adapter layer is responsible
// for encryption at rest; this interface operates on plaintext values at the
// domain boundary. A missing token, or a context without a session id, is a
// normal state and is never reported as an error by Read.
type CredentialStore interface {
	// Save persists both tokens, overwriting any previous values. No
	// validation of token structure is performed. Returns ErrNoSessionID
	// when ctx carries no session id.
	Save(ctx context.Context, session model.Session) error

	// Read returns the stored tokens. Absent tokens are empty strings.
	Read(ctx context.Context) (model.Session, error)

	// SetAccessToken replaces only the access token. It is a no-op when no
	// refresh token is stored, so a refresh that completes after a logout
	// cannot resurrect the session.
	SetAccessToken(ctx context.Context, token string) error

	// Clear removes both tokens.
	Clear(ctx context.Context) error
}
