package templates

import (
	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/viewmodel"
)

// Admissions renders the admission enquiry table with its filters.
func Admissions(p vm.AdmissionsPage) templ.Component {
	return component(func(m *markup) {
		m.raw(`<form class="filters" method="get" action="/admission-data">`)
		m.input("Year", "number", "year", p.Year, p.Errors)
		m.selectBox("Month", "month", p.Month, "All months", p.Months)
		m.input("Date", "date", "date", p.Date, p.Errors)
		m.raw(`<button type="submit">Filter</button></form>`)

		if len(p.Rows) == 0 {
			m.raw(`<p class="empty">No admissions found.</p>`)
			return
		}
		m.raw(`<table><thead><tr><th>Student</th><th>Phone</th><th>Address</th><th>Submitted</th></tr></thead><tbody>`)
		for _, row := range p.Rows {
			m.raw(`<tr><td>`)
			m.text(row.StudentName)
			m.raw(`</td><td>`)
			m.text(row.PhoneNum)
			m.raw(`</td><td>`)
			m.text(row.Address)
			m.raw(`</td><td>`)
			m.text(row.Submitted)
			m.raw(`</td></tr>`)
		}
		m.raw(`</tbody></table>`)
	})
}

// AdmissionForm renders the public admission enquiry form.
func AdmissionForm(p vm.AdmissionFormPage) templ.Component {
	return component(func(m *markup) {
		m.raw(`<form class="card narrow" method="post" action="/admission">`)
		m.csrfField(p.CSRFToken)
		m.input("Student name", "text", "student_name", p.StudentName, p.Errors)
		m.input("Phone number", "tel", "phone_num", p.PhoneNum, p.Errors)
		m.input("Address", "text", "address", p.Address, p.Errors)
		m.raw(`<button type="submit">Submit enquiry</button></form>`)
	})
}

// Results renders graded mark sheets and the clear-marks controls.
func Results(p vm.ResultsPage) templ.Component {
	return component(func(m *markup) {
		m.raw(`<form class="filters" method="get" action="/results">`)
		m.selectBox("Division", "division", p.Division, "All divisions", p.Divisions)
		m.input("Year", "number", "year", p.Year, p.Errors)
		m.selectBox("Exam", "exam", p.Exam, "All exams", p.Exams)
		m.raw(`<button type="submit">Show</button></form>`)

		if len(p.Rows) == 0 {
			m.raw(`<p class="empty">No results found.</p>`)
		} else {
			m.raw(`<table><thead><tr><th>Roll</th><th>Student</th>`)
			for _, s := range p.Subjects {
				m.raw(`<th>`)
				m.text(s)
				m.raw(`</th>`)
			}
			m.raw(`<th>Total</th><th>%</th><th>Grade</th></tr></thead><tbody>`)
			for _, row := range p.Rows {
				m.raw(`<tr><td>`)
				m.text(row.RollNo)
				m.raw(`</td><td>`)
				m.text(row.Name)
				m.raw(`</td>`)
				for _, mark := range row.Marks {
					m.raw(`<td>`)
					m.text(mark)
					m.raw(`</td>`)
				}
				m.raw(`<td>`)
				m.text(row.Total)
				m.raw(`</td><td>`)
				m.text(row.Percentage)
				m.raw(`</td><td>`)
				m.text(row.Grade)
				m.raw(`</td></tr>`)
			}
			m.raw(`</tbody></table>`)
		}

		e := p.Entry
		m.raw(`<section class="card"><h2>Enter marks</h2>`)
		m.raw(`<form method="post" action="/results">`)
		m.csrfField(p.CSRFToken)
		m.selectBox("Division", "division", e.Division, "", p.Divisions)
		m.fieldError(e.Errors, "division")
		m.input("Year", "number", "year", e.Year, e.Errors)
		m.selectBox("Exam", "exam", e.Exam, "", p.Exams)
		m.fieldError(e.Errors, "exam")
		m.input("Roll number", "text", "roll_no", e.RollNo, e.Errors)
		m.input("Student name", "text", "student_name", e.StudentName, e.Errors)
		for _, s := range p.Subjects {
			m.input(s, "number", s, e.Marks[s], e.Errors)
		}
		m.raw(`<button type="submit">Save marks</button></form></section>`)

		m.raw(`<section class="card danger"><h2>Clear marks</h2>`)
		m.raw(`<form method="post" action="/results/clear">`)
		m.csrfField(p.CSRFToken)
		m.selectBox("Division", "division", p.Division, "", p.Divisions)
		m.input("Year", "number", "year", p.Year, p.Errors)
		m.selectBox("Exam", "exam", p.Exam, "All exams", p.Exams)
		m.raw(`<button type="submit">Clear division</button></form>`)
		m.raw(`<form method="post" action="/results/clear-all">`)
		m.csrfField(p.CSRFToken)
		m.raw(`<button type="submit">Clear all marks</button></form></section>`)
	})
}

// Attendance renders the draft form, pending drafts and stored records.
func Attendance(p vm.AttendancePage) templ.Component {
	return component(func(m *markup) {
		m.raw(`<form class="filters" method="get" action="/attendance">`)
		m.selectBox("Division", "division", p.Division, "", p.Divisions)
		m.input("Date", "date", "date", p.Date, nil)
		m.raw(`<button type="submit">Show</button></form>`)

		m.raw(`<section class="card"><h2>Record attendance</h2>`)
		m.raw(`<form method="post" action="/attendance/drafts">`)
		m.csrfField(p.CSRFToken)
		m.raw(`<input type="hidden" name="division"`)
		m.attr("value", p.Division)
		m.raw(`>`)
		m.input("Student name", "text", "student_name", "", p.Errors)
		m.input("Roll number", "number", "roll_number", "", p.Errors)
		m.input("Year", "text", "year", "", p.Errors)
		m.selectBox("Status", "status", "Present", "", []string{"Present", "Absent"})
		m.fieldError(p.Errors, "status")
		m.raw(`<button type="submit">Add</button></form>`)

		m.raw(`<h3>Pending (`)
		m.num(len(p.Drafts))
		m.raw(`)</h3>`)
		if len(p.Drafts) > 0 {
			m.raw(`<table><thead><tr><th>Roll</th><th>Student</th><th>Year</th><th>Status</th></tr></thead><tbody>`)
			for _, d := range p.Drafts {
				m.raw(`<tr><td>`)
				m.num(d.RollNumber)
				m.raw(`</td><td>`)
				m.text(d.StudentName)
				m.raw(`</td><td>`)
				m.text(d.Year)
				m.raw(`</td><td>`)
				m.text(d.Status)
				m.raw(`</td></tr>`)
			}
			m.raw(`</tbody></table>`)

			m.raw(`<form method="post" action="/attendance/submit">`)
			m.csrfField(p.CSRFToken)
			m.raw(`<input type="hidden" name="division"`)
			m.attr("value", p.Division)
			m.raw(`>`)
			m.input("Date", "date", "date", p.Date, p.Errors)
			m.raw(`<button type="submit">Submit attendance</button></form>`)

			m.raw(`<form method="post" action="/attendance/discard">`)
			m.csrfField(p.CSRFToken)
			m.raw(`<input type="hidden" name="division"`)
			m.attr("value", p.Division)
			m.raw(`><button type="submit">Discard</button></form>`)
		}
		m.raw(`</section>`)

		m.raw(`<section class="card"><h2>Saved records</h2>`)
		if len(p.Records) == 0 {
			m.raw(`<p class="empty">No records for this date.</p>`)
		} else {
			m.raw(`<table><thead><tr><th>Roll</th><th>Student</th><th>Year</th><th>Status</th></tr></thead><tbody>`)
			for _, r := range p.Records {
				m.raw(`<tr><td>`)
				m.num(r.RollNumber)
				m.raw(`</td><td>`)
				m.text(r.StudentName)
				m.raw(`</td><td>`)
				m.text(r.Year)
				m.raw(`</td><td>`)
				m.text(r.Status)
				m.raw(`</td></tr>`)
			}
			m.raw(`</tbody></table>`)
		}
		m.raw(`</section>`)
	})
}
