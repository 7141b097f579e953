package portalapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// Middleware wraps a RoundTripper with additional behaviour.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain wraps base with the given middleware. The first middleware is the
// outermost: it sees the request first and the response last.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// TokenRefresher obtains a new access token from the stored refresh token and
// writes it to the credential store.
type TokenRefresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Authenticate attaches "Authorization: Bearer <access token>" to every request
// while an access token is stored. Without one the request is sent unchanged.
func Authenticate(store driven.CredentialStore) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			session, err := store.Read(req.Context())
			if err != nil {
				if req.Body != nil {
					_ = req.Body.Close()
				}
				return nil, fmt.Errorf("read credentials: %w", err)
			}
			if !session.HasAccessToken() {
				return next.RoundTrip(req)
			}

			// RoundTrippers must not modify the caller's request.
			authed := req.Clone(req.Context())
			authed.Header.Set("Authorization", "Bearer "+session.AccessToken)
			return next.RoundTrip(authed)
		})
	}
}

// RecoverConfig holds the collaborators of the Recover middleware.
type RecoverConfig struct {
	Refresher  TokenRefresher
	Store      driven.CredentialStore
	Redirector driven.LoginRedirector
	LoginRoute string
	Logger     *slog.Logger
}

// Recover handles 401 responses. A request rejected with 401 is refreshed and
// reissued once; the retried outcome is returned as is. When the refresh
// fails the store is cleared, the redirector is told to send the user to the
// login route, and the request fails with a *SessionExpiredError. Every other
// response and every transport error passes through untouched.
func Recover(cfg RecoverConfig) Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return &recoverer{next: next, cfg: cfg}
	}
}

type recoverer struct {
	next http.RoundTripper
	cfg  RecoverConfig
}

func (r *recoverer) RoundTrip(req *http.Request) (*http.Response, error) {
	pending, err := NewPendingRequest(req)
	if err != nil {
		return nil, err
	}
	return r.send(req.Context(), pending)
}

func (r *recoverer) send(ctx context.Context, pending PendingRequest) (*http.Response, error) {
	out, err := pending.Request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := r.next.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || !pending.CanRetry() {
		return resp, nil
	}

	retry := pending.Retry()
	drainAndClose(resp.Body)

	if _, err := r.cfg.Refresher.Refresh(ctx); err != nil {
		// A caller that gave up says nothing about the session. The shared
		// refresh keeps running and stores its token for the next request.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: refresh interrupted: %w", pending.Method, pending.URL.Path, ctxErr)
		}
		r.expire(ctx, pending, err)
		return nil, &SessionExpiredError{StatusCode: http.StatusUnauthorized, Cause: err}
	}

	r.cfg.Logger.Debug("retrying request with refreshed token",
		"request_id", retry.ID, "method", retry.Method, "path", retry.URL.Path, "attempt", retry.Attempt)
	return r.send(ctx, retry)
}

// expire clears the stored session and requests the login redirect. The
// clear runs even when ctx has been cancelled so a dead session never lingers.
func (r *recoverer) expire(ctx context.Context, pending PendingRequest, cause error) {
	r.cfg.Logger.Warn("session could not be refreshed",
		"request_id", pending.ID, "method", pending.Method, "path", pending.URL.Path, "error", cause)

	if err := r.cfg.Store.Clear(context.WithoutCancel(ctx)); err != nil {
		r.cfg.Logger.Error("failed to clear session", "error", err)
	}
	if r.cfg.Redirector != nil {
		r.cfg.Redirector.RedirectToLogin(ctx, r.cfg.LoginRoute)
	}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
