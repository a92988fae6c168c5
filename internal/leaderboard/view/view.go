// Package view derives display state for the leaderboard tab table.
package view

import (
	"strconv"
	"strings"

	"github.com/louisbranch/benchboard/internal/leaderboard/bundle"
)

// Placeholder is shown in link cells whose URL is empty.
const Placeholder = "--"

// Tabs tracks which dataset is active. The zero value selects the first one.
type Tabs struct {
	Active int
}

// Select makes dataset i active. Indices come from rendering the same
// dataset sequence, so no range check is applied here.
func (t *Tabs) Select(i int) {
	t.Active = i
}

// Tab is one tab button.
type Tab struct {
	Index  int
	Name   string
	Active bool
}

// Row is one rendered table row.
type Row struct {
	Rank     int
	Method   string
	Model    string
	Resolved string
	OrgURL   string
	SiteURL  string
	Date     string
}

// HasOrg reports whether the org cell renders a link.
func (r Row) HasOrg() bool { return r.OrgURL != "" }

// HasSite reports whether the site cell renders a link.
func (r Row) HasSite() bool { return r.SiteURL != "" }

// TabList returns one tab per dataset, marking the active one.
func (t Tabs) TabList(datasets []bundle.Dataset) []Tab {
	tabs := make([]Tab, 0, len(datasets))
	for i, dataset := range datasets {
		tabs = append(tabs, Tab{Index: i, Name: dataset.Name, Active: i == t.Active})
	}
	return tabs
}

// Rows returns the active dataset's entries in array order, ranked by
// position. An out-of-range active index yields no rows.
func (t Tabs) Rows(datasets []bundle.Dataset) []Row {
	if t.Active < 0 || t.Active >= len(datasets) {
		return nil
	}
	entries := datasets[t.Active].Data
	rows := make([]Row, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, Row{
			Rank:     i + 1,
			Method:   entry.Method,
			Model:    entry.Model,
			Resolved: bundle.FormatNumber(entry.Resolved),
			OrgURL:   strings.TrimSpace(entry.Org),
			SiteURL:  strings.TrimSpace(entry.Site),
			Date:     entry.Date,
		})
	}
	return rows
}

// ParseActive reads a tab index from a query value. Anything that is not an
// index into datasets selects the first tab.
func ParseActive(raw string, datasets []bundle.Dataset) Tabs {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || index < 0 || index >= len(datasets) {
		return Tabs{}
	}
	return Tabs{Active: index}
}
