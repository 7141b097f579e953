package model

import "time"

// AttendancePoint is one bar of an attendance chart: a label (weekday or month
// abbreviation) with present and absent counts.
type AttendancePoint struct {
	Label   string
	Present int
	Absent  int
}

// AttendanceSummary holds the weekly and monthly attendance series for a division.
type AttendanceSummary struct {
	Weekly  []AttendancePoint
	Monthly []AttendancePoint
}

// AttendanceRecord is a single stored attendance row.
type AttendanceRecord struct {
	ID          int64
	Date        string // YYYY-MM-DD
	Division    string
	Year        string
	RollNumber  int
	StudentName string
	Status      AttendanceStatus
}

// AttendanceEntry is one student's status within an attendance batch.
type AttendanceEntry struct {
	StudentName string
	RollNumber  int
	Year        string
	Status      AttendanceStatus
}

// AttendanceBatch is the set of entries saved for one division on one date.
type AttendanceBatch struct {
	Date     string // YYYY-MM-DD
	Division string
	Students []AttendanceEntry
}

// AttendanceDraft is an attendance entry recorded locally and not yet sent to
// the backend.
type AttendanceDraft struct {
	ID        int64
	Division  string
	Entry     AttendanceEntry
	CreatedAt time.Time
}
