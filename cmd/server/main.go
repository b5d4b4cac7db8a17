package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/utafrali/ReviewsGo/internal/app"
	"github.com/utafrali/ReviewsGo/internal/config"
	"github.com/utafrali/ReviewsGo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(config.ServiceName, cfg.LogLevel)

	application, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		log.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
