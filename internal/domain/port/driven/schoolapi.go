package driven

import (
	"context"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

// PortalAuth exchanges administrator credentials for a session.
type PortalAuth interface {
	Login(ctx context.Context, username, password string) (model.Session, error)
}

// AdminAPI defines the driven port for the protected endpoints of the school
// backend. Calls carry the stored access token and transparently recover from
// an expired one; an unrecoverable session surfaces as an error.
type AdminAPI interface {
	AdminDashboard(ctx context.Context) (model.AdminProfile, error)
	AttendanceSummary(ctx context.Context, division string) (model.AttendanceSummary, error)
	SaveAttendance(ctx context.Context, batch model.AttendanceBatch) error
	ListAttendance(ctx context.Context, division, date string) ([]model.AttendanceRecord, error)
	ListMarks(ctx context.Context, filter model.MarkFilter) ([]model.StudentMark, error)
	SaveMarks(ctx context.Context, mark model.StudentMark) error
	ClearDivisionMarks(ctx context.Context, filter model.MarkFilter) (string, error)
	ClearAllMarks(ctx context.Context) (string, error)
	ListAdmissions(ctx context.Context) ([]model.Admission, error)
	DeletePost(ctx context.Context, id int64) error
	ResetPassword(ctx context.Context, email, password string) error
}

// PublicAPI defines the driven port for the unauthenticated endpoints of the
// school backend.
type PublicAPI interface {
	ListPosts(ctx context.Context) ([]model.EventPost, error)
	ListShorts(ctx context.Context) ([]model.Short, error)
	SubmitAdmission(ctx context.Context, admission model.Admission) error
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
}
