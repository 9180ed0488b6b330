package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ringpost/ringpost/internal/app"
	"github.com/ringpost/ringpost/internal/config"
	"github.com/ringpost/ringpost/internal/logger"
	"github.com/ringpost/ringpost/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	a, err := app.New(context.Background(), cfg, true)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		panic(err)
	}

	handler := routes.SetupRoutes(a)
	slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)

	err = http.ListenAndServe(":"+cfg.Port, handler)
	if err != nil {
		slog.Error("server failed", "error", err)
		panic(err)
	}
}
