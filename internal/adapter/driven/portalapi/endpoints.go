package portalapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

const (
	pathLogin             = "/admin-login/"
	pathAdminDashboard    = "/admin-dashboard/"
	pathSendOTP           = "/admin-send-otp/"
	pathVerifyOTP         = "/admin-verify-otp/"
	pathResetPassword     = "/admin-reset-password/"
	pathAttendanceSave    = "/attendance/save/"
	pathAttendanceGet     = "/attendance/get/"
	pathAttendanceSummary = "/attendance/summary/"
	pathMarks             = "/marks/"
	pathClearAllMarks     = "/marks/clear_all/"
	pathAdmission         = "/admission/"
	pathAdmissionData     = "/admissiondata/"
	pathPosts             = "/posts/"
	pathShorts            = "/shorts/"
)

// apiTime accepts the timestamp forms the backend emits: RFC 3339 with or
// without a zone, and bare dates.
type apiTime struct {
	time.Time
}

var apiTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func (t *apiTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	for _, layout := range apiTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type attendanceParams struct {
	Division string `url:"division,omitempty"`
	Date     string `url:"date,omitempty"`
}

type markParams struct {
	Division string `url:"division,omitempty"`
	Year     int    `url:"year,omitempty"`
	Exam     string `url:"exam,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type dashboardResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// summaryPoint matches both "Present" and "present": encoding/json matches
// field names case-insensitively.
type summaryPoint struct {
	Day     string `json:"day"`
	Month   string `json:"month"`
	Present int    `json:"Present"`
	Absent  int    `json:"Absent"`
}

type summaryResponse struct {
	Weekly  []summaryPoint `json:"weekly"`
	Monthly []summaryPoint `json:"monthly"`
}

type attendanceStudentJSON struct {
	StudentName string `json:"student_name"`
	Status      string `json:"status"`
	RollNumber  int    `json:"roll_number"`
	Year        string `json:"year"`
}

type attendanceBatchJSON struct {
	Date     string                  `json:"date"`
	Division string                  `json:"division"`
	Students []attendanceStudentJSON `json:"students"`
}

type attendanceRecordJSON struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Division    string `json:"division"`
	Year        string `json:"year"`
	RollNumber  int    `json:"roll_number"`
	StudentName string `json:"student_name"`
	Status      string `json:"status"`
}

// markJSON is one row of the marks endpoint. Subject columns are decoded
// separately so the set of subjects is defined once, in model.Subjects.
type markJSON struct {
	ID          int64  `json:"id"`
	Division    string `json:"division"`
	RollNo      string `json:"roll_no"`
	StudentName string `json:"student_name"`
	Year        int    `json:"year"`
	Exam        string `json:"exam"`

	subjects []model.SubjectMark
}

func (m *markJSON) UnmarshalJSON(b []byte) error {
	type head markJSON
	var h head
	if err := json.Unmarshal(b, &h); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	h.subjects = make([]model.SubjectMark, 0, len(model.Subjects))
	for _, subject := range model.Subjects {
		sm := model.SubjectMark{Subject: subject}
		if v, ok := raw[subject]; ok && string(v) != "null" {
			var mark int
			if err := json.Unmarshal(v, &mark); err != nil {
				return fmt.Errorf("mark %s for roll %s: %w", subject, h.RollNo, err)
			}
			sm.Mark = &mark
		}
		h.subjects = append(h.subjects, sm)
	}

	*m = markJSON(h)
	return nil
}

// MarshalJSON flattens the subjects back into columns. A subject without a
// mark is sent as null.
func (m markJSON) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"division":     m.Division,
		"roll_no":      m.RollNo,
		"student_name": m.StudentName,
		"year":         m.Year,
		"exam":         m.Exam,
	}
	for _, subject := range model.Subjects {
		out[subject] = nil
	}
	for _, sm := range m.subjects {
		if sm.Mark != nil {
			out[sm.Subject] = *sm.Mark
		}
	}
	return json.Marshal(out)
}

type admissionJSON struct {
	ID          int64   `json:"id"`
	StudentName string  `json:"student_name"`
	PhoneNum    string  `json:"phone_num"`
	Address     string  `json:"address"`
	CreatedAt   apiTime `json:"created_at"`
}

type admissionRequest struct {
	StudentName string `json:"student_name"`
	PhoneNum    string `json:"phone_num"`
	Address     string `json:"address"`
}

type postJSON struct {
	ID          int64   `json:"id"`
	File        *string `json:"file"`
	Description string  `json:"description"`
	CreatedAt   apiTime `json:"created_at"`
}

type shortJSON struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Caption   string  `json:"caption"`
	Video     string  `json:"video"`
	CreatedAt apiTime `json:"created_at"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminDashboard returns the identity of the signed-in administrator.
func (c *Client) AdminDashboard(ctx context.Context) (model.AdminProfile, error) {
	var resp dashboardResponse
	if err := c.do(ctx, c.admin, http.MethodGet, pathAdminDashboard, nil, nil, &resp); err != nil {
		return model.AdminProfile{}, err
	}
	return model.AdminProfile{Username: resp.Username, Email: resp.Email}, nil
}

// AttendanceSummary returns the weekly and monthly attendance series. An empty
// division covers the whole school.
func (c *Client) AttendanceSummary(ctx context.Context, division string) (model.AttendanceSummary, error) {
	q, err := query.Values(attendanceParams{Division: division})
	if err != nil {
		return model.AttendanceSummary{}, fmt.Errorf("encode attendance summary query: %w", err)
	}

	var resp summaryResponse
	if err := c.do(ctx, c.admin, http.MethodGet, pathAttendanceSummary, q, nil, &resp); err != nil {
		return model.AttendanceSummary{}, err
	}

	summary := model.AttendanceSummary{
		Weekly:  make([]model.AttendancePoint, 0, len(resp.Weekly)),
		Monthly: make([]model.AttendancePoint, 0, len(resp.Monthly)),
	}
	for _, p := range resp.Weekly {
		summary.Weekly = append(summary.Weekly, model.AttendancePoint{Label: p.Day, Present: p.Present, Absent: p.Absent})
	}
	for _, p := range resp.Monthly {
		summary.Monthly = append(summary.Monthly, model.AttendancePoint{Label: p.Month, Present: p.Present, Absent: p.Absent})
	}
	return summary, nil
}

// SaveAttendance stores one day's attendance for a division.
func (c *Client) SaveAttendance(ctx context.Context, batch model.AttendanceBatch) error {
	body := attendanceBatchJSON{
		Date:     batch.Date,
		Division: batch.Division,
		Students: make([]attendanceStudentJSON, 0, len(batch.Students)),
	}
	for _, s := range batch.Students {
		body.Students = append(body.Students, attendanceStudentJSON{
			StudentName: s.StudentName,
			Status:      string(s.Status),
			RollNumber:  s.RollNumber,
			Year:        s.Year,
		})
	}
	return c.do(ctx, c.admin, http.MethodPost, pathAttendanceSave, nil, body, nil)
}

// ListAttendance returns stored attendance rows. Empty arguments are not
// applied as filters.
func (c *Client) ListAttendance(ctx context.Context, division, date string) ([]model.AttendanceRecord, error) {
	q, err := query.Values(attendanceParams{Division: division, Date: date})
	if err != nil {
		return nil, fmt.Errorf("encode attendance query: %w", err)
	}

	var resp []attendanceRecordJSON
	if err := c.do(ctx, c.admin, http.MethodGet, pathAttendanceGet, q, nil, &resp); err != nil {
		return nil, err
	}

	records := make([]model.AttendanceRecord, 0, len(resp))
	for _, r := range resp {
		records = append(records, model.AttendanceRecord{
			ID:          r.ID,
			Date:        r.Date,
			Division:    r.Division,
			Year:        r.Year,
			RollNumber:  r.RollNumber,
			StudentName: r.StudentName,
			Status:      model.AttendanceStatus(r.Status),
		})
	}
	return records, nil
}

// ListMarks returns mark sheets ordered by roll number.
func (c *Client) ListMarks(ctx context.Context, filter model.MarkFilter) ([]model.StudentMark, error) {
	q, err := query.Values(newMarkParams(filter))
	if err != nil {
		return nil, fmt.Errorf("encode marks query: %w", err)
	}

	var resp []markJSON
	if err := c.do(ctx, c.admin, http.MethodGet, pathMarks, q, nil, &resp); err != nil {
		return nil, err
	}

	marks := make([]model.StudentMark, 0, len(resp))
	for _, m := range resp {
		marks = append(marks, model.StudentMark{
			ID:          m.ID,
			Division:    m.Division,
			RollNo:      m.RollNo,
			StudentName: m.StudentName,
			Year:        m.Year,
			Exam:        model.Exam(m.Exam),
			Marks:       m.subjects,
		})
	}
	return marks, nil
}

// SaveMarks stores one student's mark sheet. The backend assigns the id.
func (c *Client) SaveMarks(ctx context.Context, mark model.StudentMark) error {
	body := markJSON{
		Division:    mark.Division,
		RollNo:      mark.RollNo,
		StudentName: mark.StudentName,
		Year:        mark.Year,
		Exam:        string(mark.Exam),
		subjects:    mark.Marks,
	}
	return c.do(ctx, c.admin, http.MethodPost, pathMarks, nil, body, nil)
}

// ClearDivisionMarks deletes the marks of filter.Division, narrowed by year
// and exam when set, and returns the backend's confirmation message.
func (c *Client) ClearDivisionMarks(ctx context.Context, filter model.MarkFilter) (string, error) {
	if filter.Division == "" {
		return "", errors.New("clear division marks: division is required")
	}
	params := newMarkParams(filter)
	params.Division = ""
	q, err := query.Values(params)
	if err != nil {
		return "", fmt.Errorf("encode clear marks query: %w", err)
	}

	path := "/marks/clear_division/" + url.PathEscape(filter.Division) + "/"
	var resp messageResponse
	if err := c.do(ctx, c.admin, http.MethodDelete, path, q, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ClearAllMarks deletes every mark sheet.
func (c *Client) ClearAllMarks(ctx context.Context) (string, error) {
	var resp messageResponse
	if err := c.do(ctx, c.admin, http.MethodDelete, pathClearAllMarks, nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListAdmissions returns every admission enquiry, newest first.
func (c *Client) ListAdmissions(ctx context.Context) ([]model.Admission, error) {
	var resp []admissionJSON
	if err := c.do(ctx, c.admin, http.MethodGet, pathAdmissionData, nil, nil, &resp); err != nil {
		return nil, err
	}

	admissions := make([]model.Admission, 0, len(resp))
	for _, a := range resp {
		admissions = append(admissions, model.Admission{
			ID:          a.ID,
			StudentName: a.StudentName,
			PhoneNum:    a.PhoneNum,
			Address:     a.Address,
			CreatedAt:   a.CreatedAt.Time,
		})
	}
	return admissions, nil
}

// DeletePost removes an event post.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	path := pathPosts + strconv.FormatInt(id, 10) + "/"
	return c.do(ctx, c.admin, http.MethodDelete, path, nil, nil, nil)
}

// ResetPassword sets a new password for the administrator with the given email.
func (c *Client) ResetPassword(ctx context.Context, email, password string) error {
	return c.do(ctx, c.admin, http.MethodPost, pathResetPassword, nil, resetPasswordRequest{Email: email, Password: password}, nil)
}

// ListPosts returns the public event posts.
func (c *Client) ListPosts(ctx context.Context) ([]model.EventPost, error) {
	var resp []postJSON
	if err := c.do(ctx, c.public, http.MethodGet, pathPosts, nil, nil, &resp); err != nil {
		return nil, err
	}

	posts := make([]model.EventPost, 0, len(resp))
	for _, p := range resp {
		post := model.EventPost{ID: p.ID, Description: p.Description, CreatedAt: p.CreatedAt.Time}
		if p.File != nil {
			post.FileURL = *p.File
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// ListShorts returns the public showcase videos.
func (c *Client) ListShorts(ctx context.Context) ([]model.Short, error) {
	var resp []shortJSON
	if err := c.do(ctx, c.public, http.MethodGet, pathShorts, nil, nil, &resp); err != nil {
		return nil, err
	}

	shorts := make([]model.Short, 0, len(resp))
	for _, s := range resp {
		shorts = append(shorts, model.Short{
			ID:        s.ID,
			Title:     s.Title,
			Caption:   s.Caption,
			VideoURL:  s.Video,
			CreatedAt: s.CreatedAt.Time,
		})
	}
	return shorts, nil
}

// SubmitAdmission sends an admission enquiry from the public site.
func (c *Client) SubmitAdmission(ctx context.Context, admission model.Admission) error {
	body := admissionRequest{
		StudentName: admission.StudentName,
		PhoneNum:    admission.PhoneNum,
		Address:     admission.Address,
	}
	return c.do(ctx, c.public, http.MethodPost, pathAdmission, nil, body, nil)
}

// SendOTP asks the backend to email a password reset code.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, c.public, http.MethodPost, pathSendOTP, nil, emailRequest{Email: email}, nil)
}

// VerifyOTP checks a password reset code.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.do(ctx, c.public, http.MethodPost, pathVerifyOTP, nil, otpRequest{Email: email, OTP: otp}, nil)
}

func newMarkParams(filter model.MarkFilter) markParams {
	return markParams{
		Division: filter.Division,
		Year:     filter.Year,
		Exam:     string(filter.Exam),
	}
}
