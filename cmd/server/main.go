package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/codex-payroll-clean-arch/internal/app"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/config"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	boot := logger.New(logger.Options{})
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot.Fatal().Err(err).Str("path", cfgPath).Msg("failed to load config")
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	a, err := app.New(ctx, cfg, nil, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer a.Close()

	log.Info().Str("backend", string(a.Backend.Mode)).Msg("payroll server starting")

	if err := a.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		stop()
		a.Close()
		os.Exit(1)
	}
}
