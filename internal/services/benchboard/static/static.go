package static

import "embed"

// FS exposes benchboard static assets for HTTP serving and export.
//
//go:embed *.css *.js *.svg
var FS embed.FS

// Asset names referenced by the page.
const (
	Stylesheet = "benchboard.css"
	Script     = "benchboard.js"
	LinkIcon   = "link.svg"
)
