package model

// Subjects lists the mark-sheet subjects in display order. The keys match the
// backend's field names.
var Subjects = []string{
	"maths",
	"physics",
	"chemistry",
	"english",
	"malayalam",
	"ss",
	"ed",
	"workshop",
	"eye",
	"ge",
	"tradeTheory",
}

// SubjectMark is a student's mark in one subject. Mark is nil when no mark
// has been entered.
type SubjectMark struct {
	Subject string
	Mark    *int
}

// StudentMark is one student's mark sheet for an exam.
type StudentMark struct {
	ID          int64
	Division    string
	RollNo      string
	StudentName string
	Year        int
	Exam        Exam
	Marks       []SubjectMark
}

// MarkFilter narrows mark-list queries. Zero values are not applied.
type MarkFilter struct {
	Division string
	Year     int
	Exam     Exam
}
