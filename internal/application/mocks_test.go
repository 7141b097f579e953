package application

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockAdminAPI implements driven.AdminAPI and driven.PublicAPI with canned
// responses; calls are recorded for assertions.
type mockAdminAPI struct {
	profile    model.AdminProfile
	summary    model.AttendanceSummary
	records    []model.AttendanceRecord
	marks      []model.StudentMark
	admissions []model.Admission
	posts      []model.EventPost
	shorts     []model.Short
	err        error
	saveErr    error

	savedBatches  []model.AttendanceBatch
	savedMarks    []model.StudentMark
	markFilter    model.MarkFilter
	clearFilter   model.MarkFilter
	deletedPosts  []int64
	summaryCalled bool
	clearedAll    bool
	submitted     []model.Admission
	otpEmails     []string
	resetEmails   []string
}

func (m *mockAdminAPI) AdminDashboard(_ context.Context) (model.AdminProfile, error) {
	return m.profile, m.err
}

func (m *mockAdminAPI) AttendanceSummary(_ context.Context, _ string) (model.AttendanceSummary, error) {
	m.summaryCalled = true
	return m.summary, m.err
}

func (m *mockAdminAPI) SaveAttendance(_ context.Context, batch model.AttendanceBatch) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedBatches = append(m.savedBatches, batch)
	return nil
}

func (m *mockAdminAPI) ListAttendance(_ context.Context, _, _ string) ([]model.AttendanceRecord, error) {
	return m.records, m.err
}

func (m *mockAdminAPI) ListMarks(_ context.Context, filter model.MarkFilter) ([]model.StudentMark, error) {
	m.markFilter = filter
	return m.marks, m.err
}

func (m *mockAdminAPI) SaveMarks(_ context.Context, mark model.StudentMark) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedMarks = append(m.savedMarks, mark)
	return nil
}

func (m *mockAdminAPI) ClearDivisionMarks(_ context.Context, filter model.MarkFilter) (string, error) {
	m.clearFilter = filter
	return "cleared", m.err
}

func (m *mockAdminAPI) ClearAllMarks(_ context.Context) (string, error) {
	m.clearedAll = true
	return "cleared all", m.err
}

func (m *mockAdminAPI) ListAdmissions(_ context.Context) ([]model.Admission, error) {
	out := make([]model.Admission, len(m.admissions))
	copy(out, m.admissions)
	return out, m.err
}

func (m *mockAdminAPI) DeletePost(_ context.Context, id int64) error {
	m.deletedPosts = append(m.deletedPosts, id)
	return m.err
}

func (m *mockAdminAPI) ResetPassword(_ context.Context, email, _ string) error {
	m.resetEmails = append(m.resetEmails, email)
	return m.err
}

func (m *mockAdminAPI) ListPosts(_ context.Context) ([]model.EventPost, error) {
	out := make([]model.EventPost, len(m.posts))
	copy(out, m.posts)
	return out, m.err
}

func (m *mockAdminAPI) ListShorts(_ context.Context) ([]model.Short, error) {
	out := make([]model.Short, len(m.shorts))
	copy(out, m.shorts)
	return out, m.err
}

func (m *mockAdminAPI) SubmitAdmission(_ context.Context, admission model.Admission) error {
	m.submitted = append(m.submitted, admission)
	return m.err
}

func (m *mockAdminAPI) SendOTP(_ context.Context, email string) error {
	m.otpEmails = append(m.otpEmails, email)
	return m.err
}

func (m *mockAdminAPI) VerifyOTP(_ context.Context, _, _ string) error {
	return m.err
}

// mockAuth implements driven.PortalAuth.
type mockAuth struct {
	session model.Session
	err     error
	calls   int
}

func (m *mockAuth) Login(_ context.Context, _, _ string) (model.Session, error) {
	m.calls++
	return m.session, m.err
}

// mockCredentialStore implements driven.CredentialStore in memory.
type mockCredentialStore struct {
	mu      sync.Mutex
	session model.Session
	err     error
}

func (m *mockCredentialStore) Save(_ context.Context, session model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.session = session
	return nil
}

func (m *mockCredentialStore) Read(_ context.Context) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.err
}

func (m *mockCredentialStore) SetAccessToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.RefreshToken != "" {
		m.session.AccessToken = token
	}
	return m.err
}

func (m *mockCredentialStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = model.Session{}
	return m.err
}

// mockDraftStore implements driven.AttendanceDraftStore in memory.
type mockDraftStore struct {
	drafts    []model.AttendanceDraft
	nextID    int64
	deleteErr error
}

func (m *mockDraftStore) Add(_ context.Context, draft model.AttendanceDraft) (model.AttendanceDraft, error) {
	m.nextID++
	draft.ID = m.nextID
	m.drafts = append(m.drafts, draft)
	return draft, nil
}

func (m *mockDraftStore) ListByDivision(_ context.Context, division string) ([]model.AttendanceDraft, error) {
	out := []model.AttendanceDraft{}
	for _, d := range m.drafts {
		if d.Division == division {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDraftStore) DeleteByDivision(_ context.Context, division string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	kept := m.drafts[:0]
	for _, d := range m.drafts {
		if d.Division != division {
			kept = append(kept, d)
		}
	}
	m.drafts = kept
	return nil
}
