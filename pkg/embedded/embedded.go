// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains all files embedded in the Go binary:
//   - templates/report.html - the static report page (html/template)
//   - content/methodology.md - scoring methodology shown under the picks
//
//go:embed templates content
var Files embed.FS

// Asset paths inside Files
const (
	ReportTemplate = "templates/report.html"
	Methodology    = "content/methodology.md"
)
