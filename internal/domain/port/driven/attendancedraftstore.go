package driven

import (
	"context"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

// AttendanceDraftStore defines the driven port for attendance entries that
// have been recorded locally but not yet sent to the backend.
type AttendanceDraftStore interface {
	// Add stores a draft and returns it with ID and CreatedAt populated.
	Add(ctx context.Context, draft model.AttendanceDraft) (model.AttendanceDraft, error)

	// ListByDivision returns the drafts of a division ordered by roll number.
	ListByDivision(ctx context.Context, division string) ([]model.AttendanceDraft, error)

	// DeleteByDivision removes every draft of a division.
	DeleteByDivision(ctx context.Context, division string) error
}
