package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
	"github.com/louisbranch/benchboard/internal/leaderboard/view"
	"github.com/louisbranch/benchboard/internal/platform/i18n"
)

// TableID is the element id swapped when a tab is selected.
const TableID = "leaderboard"

// TableModel is everything the tab table needs to render.
type TableModel struct {
	Tabs   []view.Tab
	Rows   []view.Row
	Metric bundle.Metric
	// TabURL links each tab to a page with that tab active.
	TabURL func(index int) string
	// FragmentURL, when set, lets the page script swap just the table.
	FragmentURL func(index int) string
	// LinkIconURL is the icon shown in site cells.
	LinkIconURL string
	Loc         i18n.Localizer
}

// NewTableModel derives the table model for the active tab of b.
func NewTableModel(b bundle.Bundle, tabs view.Tabs) TableModel {
	return TableModel{
		Tabs:   tabs.TabList(b.Leaderboard),
		Rows:   tabs.Rows(b.Leaderboard),
		Metric: b.MetricOrDefault(),
	}
}

func (m TableModel) metricLabelKey() string {
	if m.Metric == bundle.MetricScore {
		return "table.score"
	}
	return "table.resolved"
}

// LeaderboardTable renders the tab buttons and the active dataset's rows.
func LeaderboardTable(model TableModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		loc := model.Loc
		m := newMarkup(w)
		m.raw(`<section`).attr("id", TableID).raw(`><div class="table-wrapper"><div class="table-title"><div class="section-title">`).
			text(i18n.T(loc, "leaderboard.title")).raw(`</div><div class="bench-btns">`)
		for _, tab := range model.Tabs {
			writeTab(m, model, tab)
		}
		m.raw(`</div></div><div class="table-container"><table><thead><tr>`)
		for _, key := range []string{"table.rank", "table.method", "table.model", model.metricLabelKey(), "table.org", "table.site", "table.date"} {
			m.raw("<th>").text(i18n.T(loc, key)).raw("</th>")
		}
		m.raw("</tr></thead><tbody>")
		for _, row := range model.Rows {
			writeRow(m, model, row)
		}
		m.raw("</tbody></table>")
		if len(model.Rows) == 0 {
			m.raw(`<p class="table-empty">`).text(i18n.T(loc, "leaderboard.empty")).raw("</p>")
		}
		return m.raw("</div></div></section>").err
	})
}

func writeTab(m *markup, model TableModel, tab view.Tab) {
	active := ""
	if tab.Active {
		active = "bench-btn__active"
	}
	href := "?bench=" + strconv.Itoa(tab.Index)
	if model.TabURL != nil {
		href = model.TabURL(tab.Index)
	}
	m.raw("<a").attr("class", classes("bench-btn", active)).url("href", href)
	if model.FragmentURL != nil {
		m.url("data-fragment", model.FragmentURL(tab.Index))
	}
	m.attr("data-bench", strconv.Itoa(tab.Index))
	m.raw(">").text(tab.Name).raw("</a>")
}

func writeRow(m *markup, model TableModel, row view.Row) {
	rank := strconv.Itoa(row.Rank)
	m.raw(`<tr><td class="td-sm"><div`).attr("class", classes("rank-badge", "rank-"+rank)).raw(">").text(rank).raw("</div></td>")
	m.raw("<td>").text(row.Method).raw("</td>")
	m.raw("<td>").text(row.Model).raw("</td>")
	m.raw(`<td class="td-mid">`).text(row.Resolved).raw("</td>")

	m.raw(`<td class="td-sm">`)
	if row.HasOrg() {
		writeLinkImage(m, row.OrgURL, row.OrgURL, i18n.T(model.Loc, "link.org_logo"))
	} else {
		m.text(view.Placeholder)
	}
	m.raw("</td>")

	m.raw(`<td class="td-sm">`)
	if row.HasSite() {
		writeLinkImage(m, row.SiteURL, model.LinkIconURL, i18n.T(model.Loc, "link.visit_site"))
	} else {
		m.text(view.Placeholder)
	}
	m.raw("</td>")

	m.raw(`<td class="td-date">`).text(row.Date).raw("</td></tr>")
}

func writeLinkImage(m *markup, href, src, alt string) {
	m.raw(`<a class="cell-link"`).url("href", href).raw(` target="_blank" rel="noopener noreferrer"><img class="link-img"`).
		imgSrc("src", src).attr("alt", alt).raw("></a>")
}
