package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"github.com/microcosm-cc/bluemonday"
)

// BlockOptions controls how content blocks render.
type BlockOptions struct {
	// Sanitizer, when set, filters rich-text markup before it is injected.
	Sanitizer *bluemonday.Policy
}

// NewBlockOptions returns options with the UGC policy enabled when sanitize is true.
func NewBlockOptions(sanitize bool) BlockOptions {
	if !sanitize {
		return BlockOptions{}
	}
	return BlockOptions{Sanitizer: bluemonday.UGCPolicy()}
}

// Block renders one content block.
func Block(block bundle.Block, opts BlockOptions) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return writeBlock(newMarkup(w), block, opts).err
	})
}

func writeBlock(m *markup, block bundle.Block, opts BlockOptions) *markup {
	switch b := block.(type) {
	case nil:
		return m
	case bundle.Omitted:
		return m
	case bundle.Image:
		return m.raw(`<div class="img-wrapper"><img`).imgSrc("src", b.URL).raw(` alt=""></div>`)
	case bundle.Text:
		return writeParagraph(m, b.Text)
	case bundle.RichText:
		html := b.HTML
		if opts.Sanitizer != nil {
			html = opts.Sanitizer.Sanitize(html)
		}
		return m.raw("<p>", html, "</p>")
	case bundle.Code:
		return m.raw(`<pre class="code-block"><code>`).text(b.Source).raw("</code></pre>")
	case bundle.Unknown:
		return writeParagraph(m, b.Content)
	default:
		content, ok := bundle.BlockContent(block)
		if !ok {
			return m
		}
		return writeParagraph(m, content)
	}
}

func writeParagraph(m *markup, text string) *markup {
	return m.raw("<p>").text(text).raw("</p>")
}

// Section renders a section's blocks inside the section layout.
func Section(section bundle.Section, opts BlockOptions) templ.Component {
	blocks := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)
		for _, block := range section.Content {
			writeBlock(m, block, opts)
		}
		return m.err
	})
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return SectionLayout(section.Title, section.Subtitle).Render(templ.WithChildren(ctx, blocks), w)
	})
}

// SectionLayout wraps its children with the section title row.
func SectionLayout(title, subtitle string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(w)
		m.raw(`<section class="section"><div class="section-title-row"><div class="section-title">`).text(title).raw("</div>")
		if subtitle != "" {
			m.raw(`<div class="section-subtitle">`).text(subtitle).raw("</div>")
		}
		m.raw(`</div><div class="section-content">`)
		m.component(ctx, templ.GetChildren(ctx))
		return m.raw("</div></section>").err
	})
}
