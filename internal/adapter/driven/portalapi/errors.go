package portalapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

var (
	// ErrSessionExpired is matched by every error returned after the session
	// could not be recovered. Callers use it to decide to send the user to the
	// login page.
	ErrSessionExpired = driven.ErrSessionExpired

	// ErrNoRefreshToken is returned by the refresh routine when the store holds
	// no refresh token.
	ErrNoRefreshToken = errors.New("no refresh token stored")

	// ErrRefreshRejected is returned by the refresh routine when the backend
	// did not issue a new access token.
	ErrRefreshRejected = errors.New("refresh token rejected")
)

// SessionExpiredError reports a request that failed with 401 and whose
// session could not be refreshed. Cause is the refresh failure.
type SessionExpiredError struct {
	StatusCode int
	Cause      error
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired (status %d): %v", e.StatusCode, e.Cause)
}

// Is makes errors.Is(err, ErrSessionExpired) hold for any SessionExpiredError.
func (e *SessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

func (e *SessionExpiredError) Unwrap() error {
	return e.Cause
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal api: status %d: %s", e.StatusCode, e.Message)
}

// newAPIError builds an APIError from a response, taking the message from the
// backend's detail, error or message field when the body is a JSON object.
func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	message := http.StatusText(resp.StatusCode)
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"detail", "error", "message"} {
			if v, ok := payload[key].(string); ok && v != "" {
				message = v
				break
			}
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		message = text
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
