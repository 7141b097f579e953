package web

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// maxDescriptionBytes caps how much of an event description is rendered.
const maxDescriptionBytes = 16 << 10

// eventMarkdown renders event descriptions. Staff type them like plain text,
// so single newlines become line breaks.
var eventMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
)

// eventPolicy is the user-generated-content policy with outbound links opened
// in a new tab and without a referrer.
var eventPolicy = newEventPolicy()

func newEventPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnFullyQualifiedLinks(true)
	return p
}

// RenderMarkdown converts an event description to sanitized HTML.
// Returns empty string for blank input.
func RenderMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	if len(src) > maxDescriptionBytes {
		src = src[:maxDescriptionBytes]
	}

	var buf bytes.Buffer
	if err := eventMarkdown.Convert([]byte(src), &buf); err != nil {
		return eventPolicy.Sanitize(src)
	}

	return eventPolicy.Sanitize(buf.String())
}
