package templates

import (
	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/schoolportal/internal/adapter/driving/web/viewmodel"
)

// Events renders the event feed and showcase videos.
func Events(p vm.EventsPage) templ.Component {
	return component(func(m *markup) {
		if len(p.Events) == 0 {
			m.raw(`<p class="empty">No events yet.</p>`)
		}
		for _, e := range p.Events {
			m.raw(`<article class="card event"><p class="muted">`)
			m.text(e.Posted)
			m.raw(`</p><div class="markdown">`)
			m.render(templ.Raw(e.DescriptionHTML))
			m.raw(`</div>`)
			if e.FileURL != "" {
				m.raw(`<p><a`)
				m.href(e.FileURL)
				m.raw(` target="_blank" rel="noopener">Attachment</a></p>`)
			}
			if p.LoggedIn {
				m.raw(`<form method="post"`)
				m.attr("action", e.DeletePath)
				m.raw(`>`)
				m.csrfField(p.CSRFToken)
				m.raw(`<button type="submit">Delete</button></form>`)
			}
			m.raw(`</article>`)
		}

		if len(p.Shorts) == 0 {
			return
		}
		m.raw(`<h2>Shorts</h2><div class="shorts">`)
		for _, s := range p.Shorts {
			m.raw(`<figure class="card"><video controls preload="metadata"`)
			m.attr("src", string(templ.URL(s.VideoURL)))
			m.raw(`></video><figcaption><strong>`)
			m.text(s.Title)
			m.raw(`</strong> `)
			m.text(s.Caption)
			m.raw(`</figcaption></figure>`)
		}
		m.raw(`</div>`)
	})
}
