package model

// AttendanceStatus is the recorded presence of a student on a given day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
)

// Valid reports whether s is one of the statuses the backend accepts.
func (s AttendanceStatus) Valid() bool {
	return s == AttendancePresent || s == AttendanceAbsent
}

// Exam identifies the examination a mark list belongs to.
type Exam string

const (
	ExamFirstTerm  Exam = "First Term"
	ExamSecondTerm Exam = "Second Term"
	ExamAnnual     Exam = "Annual Exam"
)

// Exams lists the examinations in term order.
var Exams = []Exam{ExamFirstTerm, ExamSecondTerm, ExamAnnual}

// Valid reports whether e is one of the examinations the backend accepts.
func (e Exam) Valid() bool {
	return e == ExamFirstTerm || e == ExamSecondTerm || e == ExamAnnual
}

// Divisions lists the class divisions the backend accepts for bulk mark operations.
var Divisions = []string{"10A", "10B", "9A", "9B", "8A", "8B"}

// IsDivision reports whether d is a known class division.
func IsDivision(d string) bool {
	for _, known := range Divisions {
		if known == d {
			return true
		}
	}
	return false
}
