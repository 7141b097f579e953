package driven

import "context"

// LoginRedirector is notified when the session cannot be recovered and the
// user must sign in again. route is the login entry point (e.g. "/admin-login").
// Implementations must not block.
type LoginRedirector interface {
	RedirectToLogin(ctx context.Context, route string)
}
