package middleware

import (
	"net/http"

	"github.com/ringpost/ringpost/internal/ctxkeys"
	"github.com/ringpost/ringpost/internal/service"
	"github.com/ringpost/ringpost/internal/session"
)

// Auth resolves the session cookie to a live session and adds it to the
// request context. Requests without a valid session continue unauthenticated.
func Auth(authService *service.AuthService, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookieValue, err := authService.SessionCookie(r)
			if err != nil {
				// No cookie, continue without auth
				next.ServeHTTP(w, r)
				return
			}

			sessionID, err := authService.VerifyJWT(cookieValue)
			if err != nil {
				// Invalid token, clear cookie and continue
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			sess := sessions.Get(sessionID)
			if sess == nil {
				// Session expired server-side
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the request carries a valid session
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := ctxkeys.Session(r.Context())
		if sess == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest ensures the request is not authenticated
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := ctxkeys.Session(r.Context())
		if sess != nil {
			http.Redirect(w, r, "/app", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
