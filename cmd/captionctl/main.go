// captionctl is the one-shot run: fetch the newest image from the
// configured folder, draft a caption, print it, exit. An empty folder
// prints a message and exits zero; hard failures exit non-zero.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ringpost/ringpost/internal/app"
	"github.com/ringpost/ringpost/internal/config"
	"github.com/ringpost/ringpost/internal/logger"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	ctx := context.Background()

	a, err := app.New(ctx, cfg, false)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}

	err = a.CaptionService.Run(ctx, os.Stdout)
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
