package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringpost/ringpost/internal/ctxkeys"
	"github.com/ringpost/ringpost/internal/service"
	"github.com/ringpost/ringpost/internal/session"
)

func authFixtures(t *testing.T) (*service.AuthService, *session.Manager) {
	t.Helper()
	authService, err := service.NewAuthService("pw", "secret", false, time.Hour)
	require.NoError(t, err)
	return authService, session.NewManager(time.Hour)
}

func sessionProbe(got **session.Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = ctxkeys.Session(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthResolvesValidCookie(t *testing.T) {
	authService, sessions := authFixtures(t)
	sess := sessions.Create()

	token, err := authService.GenerateJWT(sess.ID)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	authService.SetSessionCookie(rec, token, time.Now().Add(time.Hour))
	cookie := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	req.AddCookie(cookie)

	var got *session.Session
	Auth(authService, sessions)(sessionProbe(&got)).ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, sess.ID, got.ID)
}

func TestAuthNoCookieContinuesUnauthenticated(t *testing.T) {
	authService, sessions := authFixtures(t)

	req := httptest.NewRequest(http.MethodGet, "/app", nil)

	var got *session.Session
	Auth(authService, sessions)(sessionProbe(&got)).ServeHTTP(httptest.NewRecorder(), req)

	assert.Nil(t, got)
}

func TestAuthBadTokenClearsCookie(t *testing.T) {
	authService, sessions := authFixtures(t)

	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "forged"})

	rec := httptest.NewRecorder()
	var got *session.Session
	Auth(authService, sessions)(sessionProbe(&got)).ServeHTTP(rec, req)

	assert.Nil(t, got)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}

func TestAuthUnknownSessionClearsCookie(t *testing.T) {
	authService, sessions := authFixtures(t)

	// Valid token, but the server-side session is gone.
	token, err := authService.GenerateJWT("no-such-session")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})

	rec := httptest.NewRecorder()
	var got *session.Session
	Auth(authService, sessions)(sessionProbe(&got)).ServeHTTP(rec, req)

	assert.Nil(t, got)
	require.Len(t, rec.Result().Cookies(), 1)
}

func TestRequireAuthRedirectsGuests(t *testing.T) {
	called := false
	handler := RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequireGuestRedirectsAuthenticated(t *testing.T) {
	_, sessions := authFixtures(t)
	sess := sessions.Create()

	called := false
	handler := RequireGuest(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ctxkeys.WithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/app", rec.Header().Get("Location"))
}
