package templates

import (
	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/viewmodel"
)

// Dashboard renders the administrator profile and attendance charts.
func Dashboard(p vm.DashboardPage) templ.Component {
	return component(func(m *markup) {
		m.raw(`<section class="card profile"><p>Signed in as <strong>`)
		m.text(p.Username)
		m.raw(`</strong> `)
		m.text(p.Email)
		m.raw(`</p>`)
		if p.SessionExpires != "" {
			m.raw(`<p class="muted">Access token valid until `)
			m.text(p.SessionExpires)
			m.raw(`</p>`)
		}
		m.raw(`</section>`)

		m.raw(`<form class="filters" method="get" action="/admin-dashboard">`)
		m.selectBox("Division", "division", p.Division, "", p.Divisions)
		m.raw(`<button type="submit">Show</button></form>`)

		chart(m, "This week", p.Weekly)
		chart(m, "By month", p.Monthly)
	})
}

func chart(m *markup, title string, bars []vm.ChartBar) {
	m.raw(`<section class="card"><h2>`)
	m.text(title)
	m.raw(`</h2><div class="chart">`)
	for _, b := range bars {
		m.raw(`<div class="bar-group"><div class="bars">`)
		m.raw(`<span class="bar present" style="height:`)
		m.num(b.PresentPct)
		m.raw(`%"`)
		m.attr("title", "Present")
		m.raw(`>`)
		m.num(b.Present)
		m.raw(`</span><span class="bar absent" style="height:`)
		m.num(b.AbsentPct)
		m.raw(`%"`)
		m.attr("title", "Absent")
		m.raw(`>`)
		m.num(b.Absent)
		m.raw(`</span></div><span class="bar-label">`)
		m.text(b.Label)
		m.raw(`</span></div>`)
	}
	m.raw(`</div></section>`)
}
