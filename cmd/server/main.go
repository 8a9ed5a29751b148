package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/simaogato/papertrade-backend/internal/app"
	"github.com/simaogato/papertrade-backend/internal/config"
	"github.com/simaogato/papertrade-backend/pkg/logger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New(logger.Config{Level: "info"})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Setup logging
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	// 3. Wire services
	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	log.Info().
		Str("http_addr", cfg.HTTPAddr).
		Str("grpc_addr", cfg.GRPCAddr).
		Str("quote_provider", cfg.QuoteProvider).
		Dur("quote_timeout", cfg.QuoteTimeout).
		Msg("Starting PaperTrade backend")

	// 4. Serve until SIGTERM or SIGINT
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		stop()
		os.Exit(1)
	}

	log.Info().Msg("Server stopped")
}
