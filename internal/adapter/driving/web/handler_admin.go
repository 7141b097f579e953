package web

import (
	"cmp"
	"errors"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/schoolportal/internal/application"
	"github.com/ericfisherdev/schoolportal/internal/domain/model"
)

// divisionOrDefault returns d, or the first division when d is empty.
func divisionOrDefault(d string) string {
	if d == "" {
		return model.Divisions[0]
	}
	return d
}

// Dashboard renders the administrator profile and attendance charts.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := h.page(w, r, "Dashboard")
	division := divisionOrDefault(r.URL.Query().Get("division"))

	profile, err := h.session.Profile(ctx)
	if err != nil {
		h.fail(w, r, p, nil, err, "load your profile")
		return
	}
	summary, err := h.attendance.Summary(ctx, division)
	if err != nil {
		h.fail(w, r, p, nil, err, "load the attendance summary")
		return
	}

	page := vm.DashboardPage{
		Page:      p,
		Username:  profile.Username,
		Email:     profile.Email,
		Division:  division,
		Divisions: model.Divisions,
		Weekly:    toChartBars(summary.Weekly),
		Monthly:   toChartBars(summary.Monthly),
	}
	if status, err := h.session.Status(ctx); err == nil && !status.ExpiresAt.IsZero() {
		page.SessionExpires = status.ExpiresAt.In(h.loc).Format("02 Jan 2006 15:04")
	}
	h.render(w, r, http.StatusOK, p, templates.Dashboard(page))
}

// Admissions lists admission enquiries filtered by year, month and date.
func (h *Handler) Admissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := h.page(w, r, "Admissions")
	page := vm.AdmissionsPage{
		Page:  p,
		Year:  strings.TrimSpace(q.Get("year")),
		Month: q.Get("month"),
		Date:  q.Get("date"),
	}

	filter := application.AdmissionFilter{Month: page.Month, Date: page.Date}
	if page.Year != "" {
		year, err := strconv.Atoi(page.Year)
		if err != nil {
			h.invalid(w, r, p, fieldErrors{"year": "year must be a number"}, func(p vm.Page) templ.Component {
				page.Page = p
				return templates.Admissions(page)
			})
			return
		}
		filter.Year = year
	}

	list, err := h.admissions.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, p, nil, err, "load admissions")
		return
	}

	page.Months = list.Months
	page.Rows = toAdmissionRows(list.Admissions, h.loc)
	h.render(w, r, http.StatusOK, p, templates.Admissions(page))
}

// Results renders graded mark sheets.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.renderResults(w, r, q.Get("division"), strings.TrimSpace(q.Get("year")), q.Get("exam"), http.StatusOK, vm.MarkEntry{})
}

func (h *Handler) renderResults(w http.ResponseWriter, r *http.Request, division, year, exam string, status int, entry vm.MarkEntry) {
	p := h.page(w, r, "Results")
	page := vm.ResultsPage{
		Page:      p,
		Division:  division,
		Year:      year,
		Exam:      exam,
		Divisions: model.Divisions,
		Exams:     exams,
		Subjects:  model.Subjects,
		Entry:     entry,
	}
	if page.Entry.Division == "" {
		page.Entry.Division = divisionOrDefault(division)
	}
	if page.Entry.Exam == "" {
		page.Entry.Exam = cmp.Or(exam, exams[0])
	}
	if page.Entry.Year == "" {
		page.Entry.Year = cmp.Or(year, strconv.Itoa(time.Now().In(h.loc).Year()))
	}

	filter := model.MarkFilter{Division: division, Exam: model.Exam(exam)}
	if n, err := strconv.Atoi(year); err == nil {
		filter.Year = n
	}

	sheets, err := h.results.Sheets(r.Context(), filter)
	if err != nil {
		h.fail(w, r, p, nil, err, "load results")
		return
	}

	page.Rows = toResultRows(sheets)
	h.render(w, r, status, p, templates.Results(page))
}

// AddMarks enters one student's mark sheet.
func (h *Handler) AddMarks(w http.ResponseWriter, r *http.Request) {
	form := marksForm{
		Division:    r.PostFormValue("division"),
		RollNo:      strings.TrimSpace(r.PostFormValue("roll_no")),
		StudentName: strings.TrimSpace(r.PostFormValue("student_name")),
		Year:        formInt(r, "year"),
		Exam:        r.PostFormValue("exam"),
	}
	entry := vm.MarkEntry{
		Division:    form.Division,
		RollNo:      form.RollNo,
		StudentName: form.StudentName,
		Year:        strings.TrimSpace(r.PostFormValue("year")),
		Exam:        form.Exam,
		Marks:       make(map[string]string, len(model.Subjects)),
	}
	for _, subject := range model.Subjects {
		entry.Marks[subject] = strings.TrimSpace(r.PostFormValue(subject))
	}
	reshow := func(status int, errs fieldErrors) {
		entry.Errors = errs
		h.renderResults(w, r, form.Division, entry.Year, form.Exam, status, entry)
	}

	marks, errs := subjectMarks(r)
	if formErrs := validateForm(form); formErrs != nil {
		if errs == nil {
			errs = fieldErrors{}
		}
		maps.Copy(errs, formErrs)
	}
	if errs != nil {
		reshow(http.StatusUnprocessableEntity, errs)
		return
	}

	err := h.results.AddMarks(r.Context(), model.StudentMark{
		Division:    form.Division,
		RollNo:      form.RollNo,
		StudentName: form.StudentName,
		Year:        form.Year,
		Exam:        model.Exam(form.Exam),
		Marks:       marks,
	})
	if errors.Is(err, application.ErrDuplicateRollNumber) {
		reshow(http.StatusConflict, fieldErrors{"roll_no": err.Error()})
		return
	}
	if err != nil {
		h.fail(w, r, h.page(w, r, "Results"), nil, err, "save marks")
		return
	}

	redirectWith(w, r, "/results", map[string]string{
		"division": form.Division,
		"year":     strconv.Itoa(form.Year),
		"exam":     form.Exam,
		"notice":   "Marks saved for " + form.StudentName + ".",
	})
}

// ClearResults deletes the marks of one division.
func (h *Handler) ClearResults(w http.ResponseWriter, r *http.Request) {
	form := clearMarksForm{
		Division: r.PostFormValue("division"),
		Year:     formInt(r, "year"),
		Exam:     r.PostFormValue("exam"),
	}
	p := h.page(w, r, "Results")
	if errs := validateForm(form); errs != nil {
		p.Error = errs.summary()
		h.render(w, r, http.StatusUnprocessableEntity, p, templates.ErrorPage())
		return
	}

	msg, err := h.results.ClearDivision(r.Context(), model.MarkFilter{
		Division: form.Division,
		Year:     form.Year,
		Exam:     model.Exam(form.Exam),
	})
	if err != nil {
		h.fail(w, r, p, nil, err, "clear marks")
		return
	}

	redirectWith(w, r, "/results", map[string]string{"division": form.Division, "notice": msg})
}

// ClearAllResults deletes every mark sheet.
func (h *Handler) ClearAllResults(w http.ResponseWriter, r *http.Request) {
	msg, err := h.results.ClearAll(r.Context())
	if err != nil {
		h.fail(w, r, h.page(w, r, "Results"), nil, err, "clear marks")
		return
	}
	redirectWith(w, r, "/results", map[string]string{"notice": msg})
}

// Attendance renders the attendance drafts and stored records of a division.
func (h *Handler) Attendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.renderAttendance(w, r, q.Get("division"), q.Get("date"), http.StatusOK, nil)
}

func (h *Handler) renderAttendance(w http.ResponseWriter, r *http.Request, division, date string, status int, errs fieldErrors) {
	ctx := r.Context()
	p := h.page(w, r, "Attendance")
	p.Errors = errs
	division = divisionOrDefault(division)
	if date == "" {
		date = time.Now().In(h.loc).Format(time.DateOnly)
	}

	drafts, err := h.attendance.ListDrafts(ctx, division)
	if err != nil {
		h.fail(w, r, p, nil, err, "load attendance drafts")
		return
	}
	records, err := h.attendance.Records(ctx, division, date)
	if err != nil {
		h.fail(w, r, p, nil, err, "load attendance records")
		return
	}

	h.render(w, r, status, p, templates.Attendance(vm.AttendancePage{
		Page:      p,
		Division:  division,
		Date:      date,
		Divisions: model.Divisions,
		Drafts:    toDraftRows(drafts),
		Records:   toRecordRows(records),
	}))
}

// AddAttendanceDraft records one student's attendance locally.
func (h *Handler) AddAttendanceDraft(w http.ResponseWriter, r *http.Request) {
	form := draftForm{
		Division:    r.PostFormValue("division"),
		StudentName: strings.TrimSpace(r.PostFormValue("student_name")),
		RollNumber:  formInt(r, "roll_number"),
		Year:        strings.TrimSpace(r.PostFormValue("year")),
		Status:      r.PostFormValue("status"),
	}
	if errs := validateForm(form); errs != nil {
		h.renderAttendance(w, r, form.Division, "", http.StatusUnprocessableEntity, errs)
		return
	}

	_, err := h.attendance.AddDraft(r.Context(), form.Division, model.AttendanceEntry{
		StudentName: form.StudentName,
		RollNumber:  form.RollNumber,
		Year:        form.Year,
		Status:      model.AttendanceStatus(form.Status),
	})
	if err != nil {
		h.fail(w, r, h.page(w, r, "Attendance"), nil, err, "save the attendance entry")
		return
	}

	redirectWith(w, r, "/attendance", map[string]string{"division": form.Division})
}

// SubmitAttendance sends the division's drafts to the backend as one batch.
func (h *Handler) SubmitAttendance(w http.ResponseWriter, r *http.Request) {
	form := submitAttendanceForm{
		Division: r.PostFormValue("division"),
		Date:     r.PostFormValue("date"),
	}
	if errs := validateForm(form); errs != nil {
		h.renderAttendance(w, r, form.Division, "", http.StatusUnprocessableEntity, errs)
		return
	}

	n, err := h.attendance.SubmitDrafts(r.Context(), form.Date, form.Division)
	if err != nil {
		h.fail(w, r, h.page(w, r, "Attendance"), nil, err, "submit attendance")
		return
	}

	redirectWith(w, r, "/attendance", map[string]string{
		"division": form.Division,
		"date":     form.Date,
		"notice":   "Attendance saved for " + strconv.Itoa(n) + " students.",
	})
}

// DiscardAttendance drops the division's drafts.
func (h *Handler) DiscardAttendance(w http.ResponseWriter, r *http.Request) {
	division := r.PostFormValue("division")
	if err := h.attendance.DiscardDrafts(r.Context(), division); err != nil {
		h.fail(w, r, h.page(w, r, "Attendance"), nil, err, "discard attendance")
		return
	}
	redirectWith(w, r, "/attendance", map[string]string{"division": division, "notice": "Drafts discarded."})
}
