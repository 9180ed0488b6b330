package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recover converts panics in handlers into logged 500 responses so an
// unanticipated defect never takes down the interactive surface.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			slog.Error("panic recovered",
				"panic", rec,
				"path", r.URL.Path,
				"method", r.Method,
				"stack", string(debug.Stack()),
			)
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
