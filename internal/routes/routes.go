package routes

import (
	"net/http"

	"github.com/ringpost/ringpost/internal/app"
	"github.com/ringpost/ringpost/internal/handler"
	"github.com/ringpost/ringpost/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(a.AuthService, a.Sessions)
	studio := handler.NewStudioHandler(a.CaptionService, a.StyleService, a.Sessions)

	mux := http.NewServeMux()

	// Password gate (rate limited)
	rateLimiter := middleware.RateLimitLogin()

	mux.HandleFunc("GET /{$}", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("POST /login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /logout", auth.Logout)

	// Studio (all gated behind the session)
	mux.HandleFunc("GET /app", middleware.RequireAuth(studio.StudioPage))
	mux.HandleFunc("GET /app/image", middleware.RequireAuth(studio.ServeImage))
	mux.HandleFunc("GET /app/preview", middleware.RequireAuth(studio.PreviewPage))
	mux.HandleFunc("POST /app/fetch", middleware.RequireAuth(studio.FetchImage))
	mux.HandleFunc("POST /app/generate", middleware.RequireAuth(studio.GenerateCaption))
	mux.HandleFunc("POST /app/style", middleware.RequireAuth(studio.SaveStyle))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.Config(a.Cfg), // Config must be first (CSRF and handlers read it)
		middleware.SecurityHeaders,
		middleware.Recover,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.Auth(a.AuthService, a.Sessions),
	)

	return h
}
