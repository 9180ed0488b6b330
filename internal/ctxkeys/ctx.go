package ctxkeys

import (
	"context"

	"github.com/ringpost/ringpost/internal/config"
	"github.com/ringpost/ringpost/internal/session"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	SessionKey   contextKey = "session"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
)

func Session(ctx context.Context) *session.Session {
	s, _ := ctx.Value(SessionKey).(*session.Session)
	return s
}

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}
