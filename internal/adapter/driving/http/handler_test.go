package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/schoolportal/internal/adapter/driving/http"
	"github.com/ericfisherdev/schoolportal/internal/application"
	"github.com/ericfisherdev/schoolportal/internal/domain/model"
	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockStore struct {
	session model.Session
}

func (m *mockStore) Save(_ context.Context, s model.Session) error {
	m.session = s
	return nil
}
func (m *mockStore) Read(_ context.Context) (model.Session, error) {
	return m.session, nil
}
func (m *mockStore) SetAccessToken(_ context.Context, token string) error {
	if m.session.RefreshToken != "" {
		m.session.AccessToken = token
	}
	return nil
}
func (m *mockStore) Clear(_ context.Context) error {
	m.session = model.Session{}
	return nil
}

// mockAdminAPI embeds the port so only the methods under test need bodies.
type mockAdminAPI struct {
	driven.AdminAPI
	summary model.AttendanceSummary
	err     error
	// onCall runs before every call, e.g. to clear the store like an expired session would.
	onCall func()
	calls  int
}

func (m *mockAdminAPI) AttendanceSummary(_ context.Context, _ string) (model.AttendanceSummary, error) {
	m.calls++
	if m.onCall != nil {
		m.onCall()
	}
	return m.summary, m.err
}

type mockDrafts struct {
	drafts []model.AttendanceDraft
}

func (m *mockDrafts) Add(_ context.Context, d model.AttendanceDraft) (model.AttendanceDraft, error) {
	return d, nil
}
func (m *mockDrafts) ListByDivision(_ context.Context, _ string) ([]model.AttendanceDraft, error) {
	return m.drafts, nil
}
func (m *mockDrafts) DeleteByDivision(_ context.Context, _ string) error { return nil }

func setupMux(store *mockStore, api *mockAdminAPI, drafts *mockDrafts) http.Handler {
	session := application.NewSessionService(nil, api, nil, store, slog.Default())
	attendance := application.NewAttendanceService(api, drafts, slog.Default())
	h := httphandler.NewHandler(session, attendance, slog.Default())
	return httphandler.NewServeMux(h, slog.Default())
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	err := json.NewDecoder(rec.Body).Decode(v)
	require.NoError(t, err)
}

func serve(mux http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHealth(t *testing.T) {
	mux := setupMux(&mockStore{}, &mockAdminAPI{}, &mockDrafts{})

	rec := serve(mux, "/api/v1/health")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["time"])
}

func TestSession(t *testing.T) {
	exp := time.Date(2031, time.March, 4, 5, 6, 7, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		session model.Session
		want    map[string]any
	}{
		{
			name:    "signed out",
			session: model.Session{},
			want:    map[string]any{"logged_in": false},
		},
		{
			name:    "signed in with jwt",
			session: model.Session{AccessToken: signed, RefreshToken: "R1"},
			want:    map[string]any{"logged_in": true, "expires_at": "2031-03-04T05:06:07Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockStore{session: tt.session}, &mockAdminAPI{}, &mockDrafts{})

			rec := serve(mux, "/api/v1/session")

			require.Equal(t, http.StatusOK, rec.Code)
			var resp map[string]any
			decodeJSON(t, rec, &resp)
			assert.Equal(t, tt.want, resp)
			assert.NotContains(t, rec.Body.String(), "R1")
		})
	}
}

func TestAttendanceSummary(t *testing.T) {
	api := &mockAdminAPI{summary: model.AttendanceSummary{
		Weekly: []model.AttendancePoint{{Label: "Mon", Present: 30, Absent: 2}},
	}}
	mux := setupMux(&mockStore{session: model.Session{AccessToken: "A", RefreshToken: "R"}}, api, &mockDrafts{})

	rec := serve(mux, "/api/v1/attendance/summary?division=10A")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Weekly  []map[string]any `json:"weekly"`
		Monthly []map[string]any `json:"monthly"`
	}
	decodeJSON(t, rec, &resp)
	require.Len(t, resp.Weekly, 1)
	assert.Equal(t, "Mon", resp.Weekly[0]["label"])
	assert.InDelta(t, 30, resp.Weekly[0]["present"], 0)
	assert.Len(t, resp.Monthly, 5)
}

func TestAttendanceSummary_Errors(t *testing.T) {
	expired := fmt.Errorf("GET /attendance/summary/: %w", application.ErrSessionExpired)

	tests := []struct {
		name       string
		target     string
		session    model.Session
		api        func(store *mockStore) *mockAdminAPI
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "unknown division",
			target:     "/api/v1/attendance/summary?division=12Q",
			session:    model.Session{AccessToken: "A", RefreshToken: "R"},
			api:        func(*mockStore) *mockAdminAPI { return &mockAdminAPI{} },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "signed out",
			target:     "/api/v1/attendance/summary",
			api:        func(*mockStore) *mockAdminAPI { return &mockAdminAPI{} },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "session expired",
			target:  "/api/v1/attendance/summary",
			session: model.Session{AccessToken: "A", RefreshToken: "R"},
			api: func(store *mockStore) *mockAdminAPI {
				return &mockAdminAPI{err: expired, onCall: func() { store.session = model.Session{} }}
			},
			wantStatus: http.StatusUnauthorized,
			wantCalled: true,
		},
		{
			name:       "backend failure",
			target:     "/api/v1/attendance/summary",
			session:    model.Session{AccessToken: "A", RefreshToken: "R"},
			api:        func(*mockStore) *mockAdminAPI { return &mockAdminAPI{err: errors.New("502 from backend")} },
			wantStatus: http.StatusBadGateway,
			wantCalled: true,
		},
		{
			// Another request signing out concurrently does not turn an
			// unrelated upstream failure into a 401.
			name:    "backend failure after concurrent sign-out",
			target:  "/api/v1/attendance/summary",
			session: model.Session{AccessToken: "A", RefreshToken: "R"},
			api: func(store *mockStore) *mockAdminAPI {
				return &mockAdminAPI{err: errors.New("503 from backend"), onCall: func() { store.session = model.Session{} }}
			},
			wantStatus: http.StatusBadGateway,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{session: tt.session}
			api := tt.api(store)
			mux := setupMux(store, api, &mockDrafts{})

			rec := serve(mux, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, api.calls > 0)
			var resp map[string]string
			decodeJSON(t, rec, &resp)
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestAttendanceDrafts(t *testing.T) {
	created := time.Date(2025, time.June, 2, 8, 30, 0, 0, time.UTC)
	drafts := &mockDrafts{drafts: []model.AttendanceDraft{{
		ID:        3,
		Division:  "9A",
		Entry:     model.AttendanceEntry{StudentName: "Anu", RollNumber: 4, Year: "2025", Status: model.AttendancePresent},
		CreatedAt: created,
	}}}
	mux := setupMux(&mockStore{session: model.Session{AccessToken: "A", RefreshToken: "R"}}, &mockAdminAPI{}, drafts)

	rec := serve(mux, "/api/v1/attendance/drafts?division=9A")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []map[string]any
	decodeJSON(t, rec, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "Anu", resp[0]["student_name"])
	assert.Equal(t, "Present", resp[0]["status"])
	assert.Equal(t, "2025-06-02T08:30:00Z", resp[0]["created_at"])
}

func TestAttendanceDrafts_RequiresDivision(t *testing.T) {
	mux := setupMux(&mockStore{session: model.Session{AccessToken: "A", RefreshToken: "R"}}, &mockAdminAPI{}, &mockDrafts{})

	rec := serve(mux, "/api/v1/attendance/drafts")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceDrafts_RequiresSession(t *testing.T) {
	drafts := &mockDrafts{drafts: []model.AttendanceDraft{{ID: 1, Division: "9A"}}}
	mux := setupMux(&mockStore{}, &mockAdminAPI{}, drafts)

	rec := serve(mux, "/api/v1/attendance/drafts?division=9A")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "9A")
}

func TestRecoveryMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	mux.HandleFunc("GET /results", func(http.ResponseWriter, *http.Request) { panic("boom") })
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	t.Run("api path answers json", func(t *testing.T) {
		rec := serve(handler, "/api/v1/boom")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp map[string]string
		decodeJSON(t, rec, &resp)
		assert.Equal(t, "internal server error", resp["error"])
	})

	t.Run("page answers text", func(t *testing.T) {
		rec := serve(handler, "/results")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, rec.Body.String(), "Something went wrong")
	})
}
