package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPassword = errors.New("invalid password")

const sessionCookieName = "session_token"

// AuthService gates the interactive surface behind the shared secret.
// The configured password is hashed once at startup; logins compare
// against the hash, which is constant-time by construction. The
// authenticated state is an explicit session token in a signed cookie,
// never an ambient flag.
type AuthService struct {
	passwordHash  []byte
	sessionSecret string
	isProduction  bool
	sessionExpiry time.Duration
}

func NewAuthService(password, sessionSecret string, isProduction bool, sessionExpiry time.Duration) (*AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash app password: %w", err)
	}

	return &AuthService{
		passwordHash:  hash,
		sessionSecret: sessionSecret,
		isProduction:  isProduction,
		sessionExpiry: sessionExpiry,
	}, nil
}

// Login checks the submitted password against the configured secret.
func (s *AuthService) Login(password string) error {
	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// SessionExpiry returns how long issued sessions stay valid.
func (s *AuthService) SessionExpiry() time.Duration {
	return s.sessionExpiry
}

func (s *AuthService) GenerateJWT(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"exp":        time.Now().Add(s.sessionExpiry).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.sessionSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT validates the session cookie value and returns the session ID.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.sessionSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("token missing session id")
	}

	return sessionID, nil
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionCookie reads the raw session cookie value from a request.
func (s *AuthService) SessionCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
