// Package web holds the embedded templates for the interactive surface.
package web

import "embed"

//go:embed templates/*.html
var TemplatesFS embed.FS
