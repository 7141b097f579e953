// Package templates renders the portal's HTML pages as templ components.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// markup writes HTML and keeps the first write error, so components can emit
// a page without checking every call.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (m *markup) raw(s string) {
	if m.err == nil {
		_, m.err = io.WriteString(m.w, s)
	}
}

// text writes s HTML-escaped.
func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

func (m *markup) num(n int) {
	m.raw(strconv.Itoa(n))
}

// attr writes ` name="value"` with value escaped.
func (m *markup) attr(name, value string) {
	m.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// href writes an href attribute, replacing unsafe URL schemes.
func (m *markup) href(url string) {
	m.attr("href", string(templ.URL(url)))
}

func (m *markup) render(c templ.Component) {
	if m.err == nil {
		m.err = c.Render(m.ctx, m.w)
	}
}

// component adapts a markup-writing function to templ.Component.
func component(fn func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{ctx: ctx, w: w}
		fn(m)
		return m.err
	})
}

// csrfField writes the hidden CSRF input every POST form carries.
func (m *markup) csrfField(token string) {
	m.raw(`<input type="hidden" name="csrf_token"`)
	m.attr("value", token)
	m.raw(`>`)
}

// fieldError writes the validation message for field, if any.
func (m *markup) fieldError(errs map[string]string, field string) {
	if msg, ok := errs[field]; ok {
		m.raw(`<p class="field-error">`)
		m.text(msg)
		m.raw(`</p>`)
	}
}

// input writes a labelled input.
func (m *markup) input(label, typ, name, value string, errs map[string]string) {
	m.raw(`<label>`)
	m.text(label)
	m.raw(`<input`)
	m.attr("type", typ)
	m.attr("name", name)
	if typ != "password" {
		m.attr("value", value)
	}
	m.raw(`></label>`)
	m.fieldError(errs, name)
}

// selectBox writes a labelled select. An empty allLabel omits the "all" option.
func (m *markup) selectBox(label, name, selected, allLabel string, options []string) {
	m.raw(`<label>`)
	m.text(label)
	m.raw(`<select`)
	m.attr("name", name)
	m.raw(`>`)
	if allLabel != "" {
		m.raw(`<option value="">`)
		m.text(allLabel)
		m.raw(`</option>`)
	}
	for _, opt := range options {
		m.raw(`<option`)
		m.attr("value", opt)
		if opt == selected {
			m.raw(` selected`)
		}
		m.raw(`>`)
		m.text(opt)
		m.raw(`</option>`)
	}
	m.raw(`</select></label>`)
}
