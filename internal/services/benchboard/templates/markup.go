// Package templates renders the leaderboard page as templ components.
package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// markup writes HTML fragments and keeps the first write error.
type markup struct {
	w   io.Writer
	err error
}

func newMarkup(w io.Writer) *markup {
	return &markup{w: w}
}

// raw writes trusted markup as-is.
func (m *markup) raw(parts ...string) *markup {
	for _, part := range parts {
		if m.err != nil {
			return m
		}
		_, m.err = io.WriteString(m.w, part)
	}
	return m
}

// text writes escaped text.
func (m *markup) text(value string) *markup {
	return m.raw(templ.EscapeString(value))
}

// attr writes ` name="value"` with the value escaped.
func (m *markup) attr(name, value string) *markup {
	return m.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// url writes ` name="url"` with unsafe schemes replaced by templ's sanitizer.
func (m *markup) url(name, value string) *markup {
	return m.attr(name, string(templ.URL(strings.TrimSpace(value))))
}

// imgSrc writes an image source. Images cannot run script, so only script
// schemes and non-image data URLs go through templ's sanitizer.
func (m *markup) imgSrc(name, value string) *markup {
	value = strings.TrimSpace(value)
	switch scheme := urlScheme(value); scheme {
	case "javascript", "vbscript":
		return m.url(name, value)
	case "data":
		if !strings.HasPrefix(strings.ToLower(value), "data:image/") {
			return m.url(name, value)
		}
	}
	return m.attr(name, value)
}

// urlScheme returns the lowercased scheme of value, ignoring the control and
// space characters browsers drop while parsing. Relative URLs have none.
func urlScheme(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, value)
	end := strings.IndexAny(cleaned, ":/?#")
	if end <= 0 || cleaned[end] != ':' {
		return ""
	}
	return strings.ToLower(cleaned[:end])
}

// component renders c into the same writer.
func (m *markup) component(ctx context.Context, c templ.Component) *markup {
	if m.err != nil || c == nil {
		return m
	}
	m.err = c.Render(ctx, m.w)
	return m
}

// classes joins non-empty class names.
func classes(names ...string) string {
	kept := names[:0:0]
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			kept = append(kept, name)
		}
	}
	return strings.Join(kept, " ")
}
