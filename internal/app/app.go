package app

import (
	"context"
	"fmt"

	"github.com/ringpost/ringpost/internal/config"
	"github.com/ringpost/ringpost/internal/credential"
	"github.com/ringpost/ringpost/internal/gemini"
	"github.com/ringpost/ringpost/internal/service"
	"github.com/ringpost/ringpost/internal/session"
	"github.com/ringpost/ringpost/internal/source"
)

type App struct {
	Cfg            *config.Config
	CredStore      credential.Store
	Source         source.Source
	CaptionService *service.CaptionService
	StyleService   *service.StyleService
	AuthService    *service.AuthService
	Sessions       *session.Manager
}

// New wires the full dependency graph. The interactive pieces
// (AuthService, Sessions) are only populated when interactive is true;
// the one-shot CLI skips them.
func New(ctx context.Context, cfg *config.Config, interactive bool) (*App, error) {
	var store credential.Store
	if cfg.SourceProvider == "drive" {
		fileStore, err := credential.NewFileStoreFromClientSecret(cfg.TokenFile, cfg.ClientSecretFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize credential store: %w", err)
		}
		store = fileStore
	}

	src, err := source.New(ctx, cfg, store)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image source: %w", err)
	}

	generator := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, cfg.GeminiTimeout)

	styleService := service.NewStyleService(cfg.StyleFile)
	captionService := service.NewCaptionService(src, generator, styleService)

	a := &App{
		Cfg:            cfg,
		CredStore:      store,
		Source:         src,
		CaptionService: captionService,
		StyleService:   styleService,
	}

	if interactive {
		if err := cfg.ValidateInteractive(); err != nil {
			return nil, err
		}

		authService, err := service.NewAuthService(
			cfg.AppPassword,
			cfg.SessionSecret,
			cfg.IsProduction(),
			cfg.SessionExpiry,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize auth service: %w", err)
		}

		a.AuthService = authService
		a.Sessions = session.NewManager(cfg.SessionExpiry)
	}

	return a, nil
}
