package templates

import (
	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/viewmodel"
)

// Layout wraps a page body in the shared document shell and navigation.
func Layout(p vm.Page, body templ.Component) templ.Component {
	return component(func(m *markup) {
		m.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.raw(`<title>`)
		m.text(p.Title)
		m.raw(` | School Portal</title><link rel="stylesheet" href="/static/style.css"></head><body>`)

		m.raw(`<nav class="topbar"><a class="brand" href="/events">School Portal</a><ul>`)
		m.raw(`<li><a href="/events">Events</a></li><li><a href="/admission">Admission</a></li>`)
		if p.LoggedIn {
			m.raw(`<li><a href="/admin-dashboard">Dashboard</a></li>`)
			m.raw(`<li><a href="/attendance">Attendance</a></li>`)
			m.raw(`<li><a href="/results">Results</a></li>`)
			m.raw(`<li><a href="/admission-data">Admissions</a></li>`)
			m.raw(`<li><form method="post" action="/logout">`)
			m.csrfField(p.CSRFToken)
			m.raw(`<button type="submit">Log out</button></form></li>`)
		} else {
			m.raw(`<li><a href="/admin-login">Admin</a></li>`)
		}
		m.raw(`</ul></nav><main>`)

		m.raw(`<h1>`)
		m.text(p.Title)
		m.raw(`</h1>`)
		if p.Notice != "" {
			m.raw(`<p class="notice">`)
			m.text(p.Notice)
			m.raw(`</p>`)
		}
		if p.Error != "" {
			m.raw(`<p class="error" role="alert">`)
			m.text(p.Error)
			m.raw(`</p>`)
		}

		m.render(body)
		m.raw(`</main></body></html>`)
	})
}

// ErrorPage renders a message-only page body.
func ErrorPage() templ.Component {
	return component(func(m *markup) {
		m.raw(`<p><a href="/events">Back to events</a></p>`)
	})
}
