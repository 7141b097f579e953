package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AttendanceDraftStore = (*DraftRepo)(nil)

// DraftRepo is the SQLite implementation of the AttendanceDraftStore port.
type DraftRepo struct {
	db *DB
}

// NewDraftRepo creates a new DraftRepo.
func NewDraftRepo(db *DB) *DraftRepo {
	return &DraftRepo{db: db}
}

// Add stores a draft and returns it with ID and CreatedAt populated.
func (r *DraftRepo) Add(ctx context.Context, draft model.AttendanceDraft) (model.AttendanceDraft, error) {
	const query = `INSERT INTO attendance_drafts (division, student_name, roll_number, year, status)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at`

	var createdAt string
	err := r.db.Writer.QueryRowContext(ctx, query,
		draft.Division,
		draft.Entry.StudentName,
		draft.Entry.RollNumber,
		draft.Entry.Year,
		string(draft.Entry.Status),
	).Scan(&draft.ID, &createdAt)
	if err != nil {
		return model.AttendanceDraft{}, fmt.Errorf("add attendance draft for %s: %w", draft.Division, err)
	}

	draft.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.AttendanceDraft{}, fmt.Errorf("parse created_at for draft %d: %w", draft.ID, err)
	}
	return draft, nil
}

// ListByDivision returns the drafts of a division ordered by roll number, then insertion.
func (r *DraftRepo) ListByDivision(ctx context.Context, division string) ([]model.AttendanceDraft, error) {
	const query = `SELECT id, division, student_name, roll_number, year, status, created_at
		FROM attendance_drafts
		WHERE division = ?
		ORDER BY roll_number, id`

	rows, err := r.db.Reader.QueryContext(ctx, query, division)
	if err != nil {
		return nil, fmt.Errorf("list attendance drafts for %s: %w", division, err)
	}
	defer rows.Close()

	drafts := []model.AttendanceDraft{}
	for rows.Next() {
		var d model.AttendanceDraft
		var status, createdAt string
		if err := rows.Scan(&d.ID, &d.Division, &d.Entry.StudentName, &d.Entry.RollNumber, &d.Entry.Year, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attendance draft: %w", err)
		}
		d.Entry.Status = model.AttendanceStatus(status)

		d.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for draft %d: %w", d.ID, err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance drafts: %w", err)
	}

	return drafts, nil
}

// DeleteByDivision removes every draft of a division.
func (r *DraftRepo) DeleteByDivision(ctx context.Context, division string) error {
	const query = `DELETE FROM attendance_drafts WHERE division = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, division); err != nil {
		return fmt.Errorf("delete attendance drafts for %s: %w", division, err)
	}
	return nil
}
