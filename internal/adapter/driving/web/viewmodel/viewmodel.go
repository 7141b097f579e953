// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// Page holds the fields every page needs.
type Page struct {
	Title     string
	CSRFToken string
	LoggedIn  bool
	Notice    string
	Error     string
	// Errors maps form field names to validation messages.
	Errors map[string]string
}

// LoginPage is the administrator sign-in form.
type LoginPage struct {
	Page
	Username string
}

// ChartBar is one bar of an attendance chart. The percentages are relative to
// the tallest bar in the series, for CSS heights.
type ChartBar struct {
	Label      string
	Present    int
	Absent     int
	PresentPct int
	AbsentPct  int
}

// DashboardPage shows the signed-in administrator and attendance charts.
type DashboardPage struct {
	Page
	Username       string
	Email          string
	Division       string
	Divisions      []string
	Weekly         []ChartBar
	Monthly        []ChartBar
	SessionExpires string // empty when unknown
}

// AdmissionRow is one admission enquiry in the admin table.
type AdmissionRow struct {
	StudentName string
	PhoneNum    string
	Address     string
	Submitted   string
}

// AdmissionsPage lists admission enquiries with year, month and date filters.
type AdmissionsPage struct {
	Page
	Year   string
	Month  string
	Date   string
	Months []string
	Rows   []AdmissionRow
}

// AdmissionFormPage is the public admission enquiry form.
type AdmissionFormPage struct {
	Page
	StudentName string
	PhoneNum    string
	Address     string
}

// ResultRow is one student's graded mark sheet.
type ResultRow struct {
	RollNo     string
	Name       string
	Marks      []string // one per subject, "AB" when absent
	Total      string
	Percentage string
	Grade      string
}

// MarkEntry holds the values of the mark entry form.
type MarkEntry struct {
	Division    string
	RollNo      string
	StudentName string
	Year        string
	Exam        string
	Marks       map[string]string // by subject
	Errors      map[string]string
}

// ResultsPage shows graded mark sheets for a division and exam.
type ResultsPage struct {
	Page
	Division  string
	Year      string
	Exam      string
	Divisions []string
	Exams     []string
	Subjects  []string
	Rows      []ResultRow
	Entry     MarkEntry
}

// DraftRow is a locally recorded attendance entry awaiting submission.
type DraftRow struct {
	StudentName string
	RollNumber  int
	Year        string
	Status      string
}

// RecordRow is a stored attendance record.
type RecordRow struct {
	StudentName string
	RollNumber  int
	Year        string
	Status      string
}

// AttendancePage records drafts for a division and shows stored records.
type AttendancePage struct {
	Page
	Division  string
	Date      string
	Divisions []string
	Drafts    []DraftRow
	Records   []RecordRow
}

// EventCard is one event post.
type EventCard struct {
	ID              int64
	Posted          string
	DescriptionHTML string // sanitized
	FileURL         string
	DeletePath      string
}

// ShortCard is one showcase video.
type ShortCard struct {
	Title    string
	Caption  string
	VideoURL string
}

// EventsPage is the event feed. Delete buttons appear only when signed in.
type EventsPage struct {
	Page
	Events []EventCard
	Shorts []ShortCard
}

// Password reset steps.
const (
	ResetStepEmail    = "email"
	ResetStepCode     = "code"
	ResetStepPassword = "password"
)

// PasswordResetPage walks the administrator through the emailed-code reset.
type PasswordResetPage struct {
	Page
	Step  string
	Email string
}
