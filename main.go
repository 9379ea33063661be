package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"search-analysis/config"
	"search-analysis/di"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	application, cleanup, err := di.InitApp(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialise application")
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := application.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Run failed")
		cleanup()
		os.Exit(1)
	}
}
