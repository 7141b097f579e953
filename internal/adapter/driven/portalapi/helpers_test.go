package portalapi_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ericfisherdev/schoolportal/internal/adapter/driven/portalapi"
	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

// memoryStore is an in-memory CredentialStore with the same SetAccessToken
// guard as the SQLite implementation.
type memoryStore struct {
	mu      sync.Mutex
	session model.Session
	clears  int
}

func newMemoryStore(access, refresh string) *memoryStore {
	return &memoryStore{session: model.Session{AccessToken: access, RefreshToken: refresh}}
}

func (s *memoryStore) Save(_ context.Context, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

func (s *memoryStore) Read(_ context.Context) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

func (s *memoryStore) SetAccessToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.RefreshToken == "" {
		return nil
	}
	s.session.AccessToken = token
	return nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = model.Session{}
	s.clears++
	return nil
}

func (s *memoryStore) snapshot() (model.Session, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.clears
}

// recordingRedirector records every login redirect.
type recordingRedirector struct {
	mu     sync.Mutex
	routes []string
}

func (r *recordingRedirector) RedirectToLogin(_ context.Context, route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *recordingRedirector) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient creates a Client whose base URL is <server>/api.
func newTestClient(t *testing.T, handler http.Handler, store *memoryStore) (*portalapi.Client, *recordingRedirector) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	redirector := &recordingRedirector{}
	client := portalapi.NewClient(server.URL+"/api", store, redirector,
		portalapi.WithTransport(server.Client().Transport),
		portalapi.WithLoginRoute("/admin-login"),
		portalapi.WithLogger(discardLogger()),
	)
	return client, redirector
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}
