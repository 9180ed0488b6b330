package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ringpost/ringpost/internal/ctxkeys"
	"github.com/ringpost/ringpost/internal/service"
	"github.com/ringpost/ringpost/internal/session"
	"github.com/ringpost/ringpost/internal/ui"
)

type loginData struct {
	AppName   string
	CSRFToken string
	Error     string
}

type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
}

func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, "login.html", h.loginData(r, ""))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	password := r.FormValue("password")
	if password == "" {
		ui.Render(w, r, "login.html", h.loginData(r, "Password is required"))
		return
	}

	err := h.authService.Login(password)
	if err != nil {
		slog.Warn("login failed", "ip", r.RemoteAddr)
		ui.Render(w, r, "login.html", h.loginData(r, "Incorrect password"))
		return
	}

	sess := h.sessions.Create()

	token, err := h.authService.GenerateJWT(sess.ID)
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		h.sessions.Delete(sess.ID)
		ui.Render(w, r, "login.html", h.loginData(r, "An error occurred. Please try again."))
		return
	}

	h.authService.SetSessionCookie(w, token, time.Now().Add(h.authService.SessionExpiry()))

	slog.Info("user logged in", "session_id", sess.ID)
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := ctxkeys.Session(r.Context())
	if sess != nil {
		h.sessions.Delete(sess.ID)
	}
	h.authService.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) loginData(r *http.Request, errMsg string) loginData {
	appName := "Ringpost"
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		appName = cfg.AppName
	}
	return loginData{
		AppName:   appName,
		CSRFToken: ctxkeys.CSRFToken(r.Context()),
		Error:     errMsg,
	}
}
