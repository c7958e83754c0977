package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taxi-report/internal/config"
	"taxi-report/internal/logging"
	"taxi-report/internal/pipeline"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("configuration failed")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run report
	summary, err := pipeline.Execute(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Msg("report failed")
		stop()
		os.Exit(1)
	}

	logging.Info().
		Str("run_id", summary.RunID).
		Int("artifacts", len(summary.Artifacts())).
		Msg("report written to " + cfg.Results.Dir)
}
