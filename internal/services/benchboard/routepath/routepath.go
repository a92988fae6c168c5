// Package routepath owns the benchboard URL layout for both the served site
// and the static export.
package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Root                = "/"
	FragmentLeaderboard = "/fragments/leaderboard"
	Data                = "/data.json"
	StaticPrefix        = "/static/"
	Health              = "/up"

	// BenchParam selects the active dataset tab.
	BenchParam = "bench"
	// TokenParam carries the snapshot freshness token.
	TokenParam = "t"
)

// Page returns the served page URL with the given tab active.
func Page(bench int) string {
	if bench <= 0 {
		return Root
	}
	return Root + "?" + BenchParam + "=" + strconv.Itoa(bench)
}

// Fragment returns the table fragment URL for the given tab.
func Fragment(bench int) string {
	if bench < 0 {
		bench = 0
	}
	return FragmentLeaderboard + "?" + BenchParam + "=" + strconv.Itoa(bench)
}

// DataWithToken returns the bundle JSON URL tagged with a freshness token.
func DataWithToken(token string) string {
	return withToken(Data, token)
}

// Static returns the URL of an embedded asset, tagged with token when set.
func Static(name, token string) string {
	return withToken(StaticPrefix+strings.TrimLeft(name, "/"), token)
}

func withToken(path, token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return path
	}
	return path + "?" + TokenParam + "=" + url.QueryEscape(token)
}

// ExportPage returns the file name of the exported page for the given tab.
func ExportPage(bench int) string {
	if bench <= 0 {
		return "index.html"
	}
	return "bench-" + strconv.Itoa(bench) + ".html"
}

// ExportStatic returns the relative asset path used by exported pages.
func ExportStatic(name string) string {
	return "static/" + strings.TrimLeft(name, "/")
}

// ExportData is the relative bundle JSON path in an export.
const ExportData = "data.json"
