package ui

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ringpost/ringpost/web"
)

var templates = template.Must(template.ParseFS(web.TemplatesFS, "templates/*.html"))

// Render executes the named page template. Render failures are logged
// and answered with a plain 500; they never panic.
func Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := templates.ExecuteTemplate(w, name, data)
	if err != nil {
		slog.Error("render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
