package web

import (
	"context"
	"net/http"
	"sync"

	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LoginRedirector = (*LoginRedirector)(nil)

type redirectKey struct{}

// redirectSlot records the login route requested while a page was being
// served. The API client may call RedirectToLogin from any goroutine.
type redirectSlot struct {
	mu    sync.Mutex
	route string
}

func (s *redirectSlot) set(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = route
}

func (s *redirectSlot) get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route, s.route != ""
}

// LoginRedirector sends the browser to the login page once the API client
// has given up on the stored session. It only records the request; the page
// handler issues the redirect when it sees the failure.
type LoginRedirector struct{}

// RedirectToLogin marks the current page request for a redirect to route.
// Outside a page request it does nothing.
func (LoginRedirector) RedirectToLogin(ctx context.Context, route string) {
	if slot, ok := ctx.Value(redirectKey{}).(*redirectSlot); ok {
		slot.set(route)
	}
}

// trackLoginRedirects gives every request a redirect slot for the API client
// to write to.
func trackLoginRedirects(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), redirectKey{}, &redirectSlot{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loginRedirect returns the route recorded for r, if any.
func loginRedirect(r *http.Request) (string, bool) {
	slot, ok := r.Context().Value(redirectKey{}).(*redirectSlot)
	if !ok {
		return "", false
	}
	return slot.get()
}
