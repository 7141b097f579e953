package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ericfisherdev/schoolportal/internal/application"
	"github.com/ericfisherdev/schoolportal/internal/domain/model"
	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

const testCSRF = "test-csrf-token"

var errBackend = errors.New("backend unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePortal implements the portal ports the services depend on. When
// expireSession is set, admin calls behave like the API client after a failed
// refresh: they ask for the login page and fail.
type fakePortal struct {
	mu sync.Mutex

	loginErr      error
	expireSession bool
	profile       model.AdminProfile
	posts         []model.EventPost
	records       []model.AttendanceRecord

	batches      []model.AttendanceBatch
	deletedPosts []int64
	submitted    []model.Admission
	savedMarks   []model.StudentMark
	clearFilter  model.MarkFilter
	clearedAll   bool
}

func (f *fakePortal) expire(ctx context.Context) error {
	if f.expireSession {
		LoginRedirector{}.RedirectToLogin(ctx, "/admin-login")
		return errors.New("session expired")
	}
	return nil
}

func (f *fakePortal) Login(_ context.Context, username, password string) (model.Session, error) {
	if f.loginErr != nil {
		return model.Session{}, f.loginErr
	}
	return model.Session{AccessToken: "A-" + username, RefreshToken: "R-" + password}, nil
}

func (f *fakePortal) AdminDashboard(ctx context.Context) (model.AdminProfile, error) {
	if err := f.expire(ctx); err != nil {
		return model.AdminProfile{}, err
	}
	return f.profile, nil
}

func (f *fakePortal) AttendanceSummary(ctx context.Context, _ string) (model.AttendanceSummary, error) {
	if err := f.expire(ctx); err != nil {
		return model.AttendanceSummary{}, err
	}
	return model.AttendanceSummary{
		Weekly: []model.AttendancePoint{{Label: "Mon", Present: 20, Absent: 5}},
	}, nil
}

func (f *fakePortal) SaveAttendance(ctx context.Context, batch model.AttendanceBatch) error {
	if err := f.expire(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakePortal) ListAttendance(ctx context.Context, _, _ string) ([]model.AttendanceRecord, error) {
	if err := f.expire(ctx); err != nil {
		return nil, err
	}
	return f.records, nil
}

func (f *fakePortal) ListMarks(ctx context.Context, _ model.MarkFilter) ([]model.StudentMark, error) {
	if err := f.expire(ctx); err != nil {
		return nil, err
	}
	mark := 88
	return []model.StudentMark{{
		RollNo:      "7",
		StudentName: "Meera",
		Marks:       []model.SubjectMark{{Subject: "maths", Mark: &mark}, {Subject: "physics"}},
	}}, nil
}

func (f *fakePortal) SaveMarks(ctx context.Context, mark model.StudentMark) error {
	if err := f.expire(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedMarks = append(f.savedMarks, mark)
	return nil
}

func (f *fakePortal) ClearDivisionMarks(ctx context.Context, filter model.MarkFilter) (string, error) {
	if err := f.expire(ctx); err != nil {
		return "", err
	}
	f.clearFilter = filter
	return "Marks cleared for " + filter.Division, nil
}

func (f *fakePortal) ClearAllMarks(ctx context.Context) (string, error) {
	if err := f.expire(ctx); err != nil {
		return "", err
	}
	f.clearedAll = true
	return "All marks cleared", nil
}

func (f *fakePortal) ListAdmissions(ctx context.Context) ([]model.Admission, error) {
	if err := f.expire(ctx); err != nil {
		return nil, err
	}
	return []model.Admission{
		{ID: 1, StudentName: "Ravi", PhoneNum: "9876543210", CreatedAt: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)},
	}, nil
}

func (f *fakePortal) DeletePost(ctx context.Context, id int64) error {
	if err := f.expire(ctx); err != nil {
		return err
	}
	f.deletedPosts = append(f.deletedPosts, id)
	return nil
}

func (f *fakePortal) ResetPassword(_ context.Context, _, _ string) error { return nil }

func (f *fakePortal) ListPosts(_ context.Context) ([]model.EventPost, error) {
	return f.posts, nil
}

func (f *fakePortal) ListShorts(_ context.Context) ([]model.Short, error) {
	return nil, errBackend
}

func (f *fakePortal) SubmitAdmission(_ context.Context, admission model.Admission) error {
	f.submitted = append(f.submitted, admission)
	return nil
}

func (f *fakePortal) SendOTP(_ context.Context, _ string) error { return nil }

func (f *fakePortal) VerifyOTP(_ context.Context, _, _ string) error { return nil }

// memoryStore implements driven.CredentialStore, keyed by the browser
// session id in the context like the SQLite store.
type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: map[string]model.Session{}}
}

func (s *memoryStore) Save(ctx context.Context, session model.Session) error {
	id, ok := driven.SessionIDFrom(ctx)
	if !ok {
		return driven.ErrNoSessionID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = session
	return nil
}

func (s *memoryStore) Read(ctx context.Context) (model.Session, error) {
	id, _ := driven.SessionIDFrom(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id], nil
}

func (s *memoryStore) SetAccessToken(ctx context.Context, token string) error {
	id, _ := driven.SessionIDFrom(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok && session.RefreshToken != "" {
		session.AccessToken = token
		s.sessions[id] = session
	}
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	id, _ := driven.SessionIDFrom(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memoryStore) get(id string) model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// memoryDrafts implements driven.AttendanceDraftStore.
type memoryDrafts struct {
	mu     sync.Mutex
	drafts []model.AttendanceDraft
}

func (d *memoryDrafts) Add(_ context.Context, draft model.AttendanceDraft) (model.AttendanceDraft, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	draft.ID = int64(len(d.drafts) + 1)
	d.drafts = append(d.drafts, draft)
	return draft, nil
}

func (d *memoryDrafts) ListByDivision(_ context.Context, division string) ([]model.AttendanceDraft, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []model.AttendanceDraft{}
	for _, draft := range d.drafts {
		if draft.Division == division {
			out = append(out, draft)
		}
	}
	return out, nil
}

func (d *memoryDrafts) DeleteByDivision(_ context.Context, division string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.drafts[:0]
	for _, draft := range d.drafts {
		if draft.Division != division {
			kept = append(kept, draft)
		}
	}
	d.drafts = kept
	return nil
}

// signedInSession is the browser session of environments created signed in.
const signedInSession = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// testEnv is one browser talking to the web handler. It keeps the session
// cookie the handler issues, as a browser would.
type testEnv struct {
	portal    *fakePortal
	store     *memoryStore
	drafts    *memoryDrafts
	mux       *http.ServeMux
	sessionID string
}

// newTestEnv wires the real services to in-memory ports.
func newTestEnv(t *testing.T, loggedIn bool) *testEnv {
	t.Helper()

	env := &testEnv{
		portal: &fakePortal{profile: model.AdminProfile{Username: "principal", Email: "principal@school.test"}},
		store:  newMemoryStore(),
		drafts: &memoryDrafts{},
		mux:    http.NewServeMux(),
	}
	if loggedIn {
		env.sessionID = signedInSession
		env.store.sessions[signedInSession] = model.Session{AccessToken: "A1", RefreshToken: "R1"}
	}

	logger := discardLogger()
	h := NewHandler(
		application.NewSessionService(env.portal, env.portal, env.portal, env.store, logger),
		application.NewAttendanceService(env.portal, env.drafts, logger),
		application.NewAdmissionService(env.portal, env.portal, time.UTC),
		application.NewResultService(env.portal),
		application.NewPostService(env.portal, env.portal),
		"/admin-login",
		logger,
	)
	h.loc = time.UTC
	RegisterRoutes(env.mux, h)
	return env
}

// session returns the tokens stored for this browser.
func (e *testEnv) session() model.Session {
	return e.store.get(e.sessionID)
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.serve(httptest.NewRequest(http.MethodGet, target, nil))
}

// post submits form with a matching CSRF cookie and field.
func (e *testEnv) post(target string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(csrfFormField, testCSRF)
	return e.postRaw(target, form, testCSRF)
}

func (e *testEnv) postRaw(target string, form url.Values, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: cookie})
	}
	return e.serve(req)
}

// serve attaches the session cookie and records any new one from the response.
func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	if e.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: e.sessionID})
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name != sessionCookieName {
			continue
		}
		if c.MaxAge < 0 {
			e.sessionID = ""
		} else {
			e.sessionID = c.Value
		}
	}
	return rec
}
