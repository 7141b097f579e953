package application

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
	"github.com/ericfisherdev/schoolportal/internal/domain/port/driven"
)

// maxSubjectMark is the full mark of a single subject.
const maxSubjectMark = 100

// SubjectResult is one graded row of a result sheet.
type SubjectResult struct {
	Subject string
	Mark    int
	Absent  bool
	Grade   string
}

// ResultSheet is a student's graded mark sheet.
type ResultSheet struct {
	Student    model.StudentMark
	Subjects   []SubjectResult
	Total      int
	MaxTotal   int
	Percentage float64 // rounded to two decimals
	Grade      string
}

// ResultService lists mark sheets and grades them.
type ResultService struct {
	api driven.AdminAPI
}

// NewResultService creates a new ResultService with the required dependencies.
func NewResultService(api driven.AdminAPI) *ResultService {
	return &ResultService{api: api}
}

// Sheets returns a graded result sheet for every student matching filter.
func (s *ResultService) Sheets(ctx context.Context, filter model.MarkFilter) ([]ResultSheet, error) {
	if filter.Division != "" && !model.IsDivision(filter.Division) {
		return nil, fmt.Errorf("%w: unknown division %q", ErrInvalidInput, filter.Division)
	}

	marks, err := s.api.ListMarks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list marks: %w", err)
	}

	sheets := make([]ResultSheet, 0, len(marks))
	for _, m := range marks {
		sheets = append(sheets, Sheet(m))
	}
	return sheets, nil
}

// AddMarks stores a new mark sheet. A roll number may appear only once per
// division, year and exam; a repeat fails with ErrDuplicateRollNumber.
func (s *ResultService) AddMarks(ctx context.Context, mark model.StudentMark) error {
	mark.RollNo = strings.TrimSpace(mark.RollNo)
	mark.StudentName = strings.TrimSpace(mark.StudentName)
	if err := validateMarks(mark); err != nil {
		return err
	}

	existing, err := s.api.ListMarks(ctx, model.MarkFilter{Division: mark.Division, Year: mark.Year, Exam: mark.Exam})
	if err != nil {
		return fmt.Errorf("list marks: %w", err)
	}
	for _, m := range existing {
		if strings.TrimSpace(m.RollNo) == mark.RollNo {
			return fmt.Errorf("%w: roll %s in %s (%s, %d)", ErrDuplicateRollNumber, mark.RollNo, mark.Division, mark.Exam, mark.Year)
		}
	}

	if err := s.api.SaveMarks(ctx, mark); err != nil {
		return fmt.Errorf("save marks: %w", err)
	}
	return nil
}

func validateMarks(mark model.StudentMark) error {
	switch {
	case !model.IsDivision(mark.Division):
		return fmt.Errorf("%w: unknown division %q", ErrInvalidInput, mark.Division)
	case mark.RollNo == "":
		return fmt.Errorf("%w: roll number is required", ErrInvalidInput)
	case mark.StudentName == "":
		return fmt.Errorf("%w: student name is required", ErrInvalidInput)
	case mark.Year <= 0:
		return fmt.Errorf("%w: year is required", ErrInvalidInput)
	case !mark.Exam.Valid():
		return fmt.Errorf("%w: unknown exam %q", ErrInvalidInput, mark.Exam)
	}
	for _, sm := range mark.Marks {
		if !slices.Contains(model.Subjects, sm.Subject) {
			return fmt.Errorf("%w: unknown subject %q", ErrInvalidInput, sm.Subject)
		}
		if sm.Mark != nil && (*sm.Mark < 0 || *sm.Mark > maxSubjectMark) {
			return fmt.Errorf("%w: %s mark must be between 0 and %d", ErrInvalidInput, sm.Subject, maxSubjectMark)
		}
	}
	return nil
}

// ClearDivision deletes the marks of filter.Division, narrowed by year and exam.
func (s *ResultService) ClearDivision(ctx context.Context, filter model.MarkFilter) (string, error) {
	if !model.IsDivision(filter.Division) {
		return "", fmt.Errorf("%w: unknown division %q", ErrInvalidInput, filter.Division)
	}
	return s.api.ClearDivisionMarks(ctx, filter)
}

// ClearAll deletes every mark sheet in the school.
func (s *ResultService) ClearAll(ctx context.Context) (string, error) {
	return s.api.ClearAllMarks(ctx)
}

// Sheet grades a mark sheet. A subject without a mark counts as 0 out of 100.
func Sheet(mark model.StudentMark) ResultSheet {
	sheet := ResultSheet{
		Student:  mark,
		Subjects: make([]SubjectResult, 0, len(mark.Marks)),
		MaxTotal: len(mark.Marks) * maxSubjectMark,
	}

	for _, sm := range mark.Marks {
		row := SubjectResult{Subject: sm.Subject, Absent: sm.Mark == nil}
		if sm.Mark != nil {
			row.Mark = *sm.Mark
		}
		row.Grade = Grade(float64(row.Mark))
		sheet.Total += row.Mark
		sheet.Subjects = append(sheet.Subjects, row)
	}

	if sheet.MaxTotal > 0 {
		pct := float64(sheet.Total) / float64(sheet.MaxTotal) * 100
		sheet.Percentage = math.Round(pct*100) / 100
	}
	sheet.Grade = Grade(sheet.Percentage)
	return sheet
}

// Grade maps a mark or percentage to a letter grade.
func Grade(score float64) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}
