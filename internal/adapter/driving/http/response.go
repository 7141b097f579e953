package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/schoolportal/internal/application"
	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// SessionResponse describes the stored session. Tokens are never exposed.
type SessionResponse struct {
	LoggedIn  bool   `json:"logged_in"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// AttendancePointResponse is one bar of an attendance chart.
type AttendancePointResponse struct {
	Label   string `json:"label"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// AttendanceSummaryResponse holds the weekly and monthly attendance series.
type AttendanceSummaryResponse struct {
	Weekly  []AttendancePointResponse `json:"weekly"`
	Monthly []AttendancePointResponse `json:"monthly"`
}

// DraftResponse is an attendance entry awaiting submission.
type DraftResponse struct {
	ID          int64  `json:"id"`
	Division    string `json:"division"`
	StudentName string `json:"student_name"`
	RollNumber  int    `json:"roll_number"`
	Year        string `json:"year"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

func toSessionResponse(s application.SessionStatus) SessionResponse {
	resp := SessionResponse{LoggedIn: s.LoggedIn}
	if !s.ExpiresAt.IsZero() {
		resp.ExpiresAt = s.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toAttendancePoints(points []model.AttendancePoint) []AttendancePointResponse {
	out := make([]AttendancePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, AttendancePointResponse{Label: p.Label, Present: p.Present, Absent: p.Absent})
	}
	return out
}

func toAttendanceSummaryResponse(s model.AttendanceSummary) AttendanceSummaryResponse {
	return AttendanceSummaryResponse{
		Weekly:  toAttendancePoints(s.Weekly),
		Monthly: toAttendancePoints(s.Monthly),
	}
}

func toDraftResponse(d model.AttendanceDraft) DraftResponse {
	return DraftResponse{
		ID:          d.ID,
		Division:    d.Division,
		StudentName: d.Entry.StudentName,
		RollNumber:  d.Entry.RollNumber,
		Year:        d.Entry.Year,
		Status:      string(d.Entry.Status),
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
