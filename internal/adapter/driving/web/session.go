package web

import (
	"crypto/rand"
	"net/http"

	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

const (
	sessionCookieName = "portal_session"
	sessionMaxAge     = 30 * 24 * 60 * 60
	sessionIDLength   = 26 // rand.Text output
)

// BindSession scopes each request to the browser session named by its
// cookie, so the credential store serves that browser's tokens only. Requests
// without a well-formed cookie carry no session and read an empty store.
func BindSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookieName); err == nil && validSessionID(c.Value) {
			r = r.WithContext(driven.WithSessionID(r.Context(), c.Value))
		}
		next.ServeHTTP(w, r)
	})
}

// newSession returns a fresh session id and a request scoped to it. The id
// reaches the browser only through issueSession, after sign-in succeeds.
func newSession(r *http.Request) (string, *http.Request) {
	id := rand.Text()
	return id, r.WithContext(driven.WithSessionID(r.Context(), id))
}

func issueSession(w http.ResponseWriter, r *http.Request, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

func endSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

func validSessionID(id string) bool {
	if len(id) != sessionIDLength {
		return false
	}
	for _, c := range id {
		if (c < 'A' || c > 'Z') && (c < '2' || c > '7') {
			return false
		}
	}
	return true
}
