package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// Chart labels used when the backend omits a label or returns an empty series.
var (
	weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	monthLabels   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// placeholderMonths is how many months an empty monthly series is padded to.
const placeholderMonths = 5

// AttendanceService reads attendance charts and records a division's
// attendance through local drafts that are submitted as one batch.
type AttendanceService struct {
	api    driven.AdminAPI
	drafts driven.AttendanceDraftStore
	logger *slog.Logger
}

// NewAttendanceService creates a new AttendanceService with the required dependencies.
func NewAttendanceService(api driven.AdminAPI, drafts driven.AttendanceDraftStore, logger *slog.Logger) *AttendanceService {
	return &AttendanceService{
		api:    api,
		drafts: drafts,
		logger: logger,
	}
}

// Summary returns the attendance charts for a division, or the whole school
// when division is empty. Empty series are replaced by zero-count rows
// (Mon to Fri, Jan to May) so charts always have axes.
func (s *AttendanceService) Summary(ctx context.Context, division string) (model.AttendanceSummary, error) {
	if division != "" && !model.IsDivision(division) {
		return model.AttendanceSummary{}, fmt.Errorf("%w: unknown division %q", ErrInvalidInput, division)
	}

	summary, err := s.api.AttendanceSummary(ctx, division)
	if err != nil {
		return model.AttendanceSummary{}, fmt.Errorf("attendance summary: %w", err)
	}

	return model.AttendanceSummary{
		Weekly:  normalizeSeries(summary.Weekly, weekdayLabels, len(weekdayLabels)),
		Monthly: normalizeSeries(summary.Monthly, monthLabels, placeholderMonths),
	}, nil
}

// normalizeSeries fills missing labels by position and pads an empty series
// with zero-count placeholder rows.
func normalizeSeries(points []model.AttendancePoint, labels []string, placeholders int) []model.AttendancePoint {
	if len(points) == 0 {
		out := make([]model.AttendancePoint, placeholders)
		for i := range out {
			out[i].Label = labels[i]
		}
		return out
	}

	out := make([]model.AttendancePoint, len(points))
	for i, p := range points {
		if p.Label == "" && i < len(labels) {
			p.Label = labels[i]
		}
		out[i] = p
	}
	return out
}

// Records returns stored attendance for a division on a date.
func (s *AttendanceService) Records(ctx context.Context, division, date string) ([]model.AttendanceRecord, error) {
	if division != "" && !model.IsDivision(division) {
		return nil, fmt.Errorf("%w: unknown division %q", ErrInvalidInput, division)
	}
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	return s.api.ListAttendance(ctx, division, date)
}

// AddDraft validates an entry and records it as a draft for division.
func (s *AttendanceService) AddDraft(ctx context.Context, division string, entry model.AttendanceEntry) (model.AttendanceDraft, error) {
	if !model.IsDivision(division) {
		return model.AttendanceDraft{}, fmt.Errorf("%w: unknown division %q", ErrInvalidInput, division)
	}
	entry.StudentName = strings.TrimSpace(entry.StudentName)
	entry.Year = strings.TrimSpace(entry.Year)
	switch {
	case entry.StudentName == "":
		return model.AttendanceDraft{}, fmt.Errorf("%w: student name is required", ErrInvalidInput)
	case entry.RollNumber <= 0:
		return model.AttendanceDraft{}, fmt.Errorf("%w: roll number must be positive", ErrInvalidInput)
	case !entry.Status.Valid():
		return model.AttendanceDraft{}, fmt.Errorf("%w: status must be Present or Absent", ErrInvalidInput)
	}

	draft, err := s.drafts.Add(ctx, model.AttendanceDraft{Division: division, Entry: entry})
	if err != nil {
		return model.AttendanceDraft{}, fmt.Errorf("add draft: %w", err)
	}
	return draft, nil
}

// ListDrafts returns the pending drafts of a division.
func (s *AttendanceService) ListDrafts(ctx context.Context, division string) ([]model.AttendanceDraft, error) {
	if !model.IsDivision(division) {
		return nil, fmt.Errorf("%w: unknown division %q", ErrInvalidInput, division)
	}
	return s.drafts.ListByDivision(ctx, division)
}

// SubmitDrafts sends every draft of a division as one attendance batch for
// date and returns how many entries were sent. Drafts are removed only after
// the backend accepted the batch, so a failed submit can be retried.
func (s *AttendanceService) SubmitDrafts(ctx context.Context, date, division string) (int, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return 0, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	drafts, err := s.ListDrafts(ctx, division)
	if err != nil {
		return 0, err
	}
	if len(drafts) == 0 {
		return 0, ErrNoDrafts
	}

	batch := model.AttendanceBatch{
		Date:     date,
		Division: division,
		Students: make([]model.AttendanceEntry, 0, len(drafts)),
	}
	for _, d := range drafts {
		batch.Students = append(batch.Students, d.Entry)
	}

	if err := s.api.SaveAttendance(ctx, batch); err != nil {
		return 0, fmt.Errorf("submit attendance for %s on %s: %w", division, date, err)
	}

	if err := s.drafts.DeleteByDivision(ctx, division); err != nil {
		// The batch is stored remotely at this point.
		s.logger.Error("failed to clear submitted drafts", "division", division, "error", err)
		return len(batch.Students), fmt.Errorf("clear submitted drafts: %w", err)
	}

	s.logger.Info("attendance submitted", "division", division, "date", date, "students", len(batch.Students))
	return len(batch.Students), nil
}

// DiscardDrafts removes the drafts of a division without sending them.
func (s *AttendanceService) DiscardDrafts(ctx context.Context, division string) error {
	if !model.IsDivision(division) {
		return fmt.Errorf("%w: unknown division %q", ErrInvalidInput, division)
	}
	return s.drafts.DeleteByDivision(ctx, division)
}
