package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"github.com/louisbranch/benchboard/internal/platform/i18n"
)

// Badge is one header link rendered as a badge image.
type Badge struct {
	Title string
	Href  string
	Image string
}

// ParseBadges reads badges written as "title|href|image". Blank entries are
// skipped; an entry without an image is an error.
func ParseBadges(entries []string) ([]Badge, error) {
	var badges []Badge
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("badge %q: want title|href|image", entry)
		}
		badge := Badge{
			Title: strings.TrimSpace(parts[0]),
			Href:  strings.TrimSpace(parts[1]),
			Image: strings.TrimSpace(parts[2]),
		}
		if badge.Image == "" {
			return nil, fmt.Errorf("badge %q: image is required", entry)
		}
		badges = append(badges, badge)
	}
	return badges, nil
}

// Chrome holds the site-level copy around the leaderboard.
type Chrome struct {
	Title        string
	Subtitle     string
	Badges       []Badge
	FooterCredit string
	FooterURL    string
}

// PageModel is everything the full page needs to render.
type PageModel struct {
	Lang          string
	Chrome        Chrome
	Table         TableModel
	Sections      []bundle.Section
	Blocks        BlockOptions
	StylesheetURL string
	// ScriptURL is optional; tab links work without it.
	ScriptURL string
	// DataURL, when set, is advertised as an alternate JSON representation.
	DataURL string
	Loc     i18n.Localizer
}

// Page renders the whole document.
func Page(model PageModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := model.Lang
		if lang == "" {
			lang = "en"
		}
		m := newMarkup(w)
		m.raw("<!DOCTYPE html><html").attr("lang", lang).raw(`><head><meta charset="utf-8">`).
			raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`).
			raw("<title>").text(model.Chrome.Title).raw("</title>")
		if model.StylesheetURL != "" {
			m.raw(`<link rel="stylesheet"`).url("href", model.StylesheetURL).raw(">")
		}
		if model.DataURL != "" {
			m.raw(`<link rel="alternate" type="application/json"`).url("href", model.DataURL).raw(">")
		}
		if model.ScriptURL != "" {
			m.raw("<script defer").url("src", model.ScriptURL).raw("></script>")
		}
		m.raw("</head><body>")
		m.component(ctx, Header(model.Chrome))
		m.raw("<main>")
		table := model.Table
		if table.Loc == nil {
			table.Loc = model.Loc
		}
		m.component(ctx, LeaderboardTable(table))
		for _, section := range model.Sections {
			m.component(ctx, Section(section, model.Blocks))
		}
		m.raw("</main>")
		m.component(ctx, Footer(model.Chrome, model.Loc))
		return m.raw("</body></html>").err
	})
}

// Header renders the title block and badge links.
func Header(chrome Chrome) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)
		m.raw(`<header><div class="title">`).text(chrome.Title).raw("</div>")
		if chrome.Subtitle != "" {
			m.raw(`<div class="sub-title">`).text(chrome.Subtitle).raw("</div>")
		}
		if len(chrome.Badges) > 0 {
			m.raw(`<div class="desc-list">`)
			for _, badge := range chrome.Badges {
				m.raw(`<a class="desc-item"`)
				if badge.Href != "" {
					m.url("href", badge.Href).raw(` target="_blank" rel="noreferrer"`)
				}
				m.raw("><img").imgSrc("src", badge.Image).attr("alt", badge.Title).raw("></a>")
			}
			m.raw("</div>")
		}
		return m.raw("</header>").err
	})
}

// Footer renders the credit line. It renders nothing without a credit.
func Footer(chrome Chrome, loc i18n.Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if chrome.FooterCredit == "" {
			return nil
		}
		m := newMarkup(w)
		m.raw("<footer><div>").text(i18n.T(loc, "footer.made_by")).raw(" ")
		if chrome.FooterURL != "" {
			m.raw("<a").url("href", chrome.FooterURL).raw(` target="_blank" rel="noreferrer">`).text(chrome.FooterCredit).raw("</a>")
		} else {
			m.text(chrome.FooterCredit)
		}
		return m.raw("</div></footer>").err
	})
}
