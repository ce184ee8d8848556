package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"galaxy-recommender/internal/di"
	"galaxy-recommender/internal/infrastructure/config"
	"galaxy-recommender/internal/infrastructure/env"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.String("config", "", "Optional YAML config file")
	every := pflag.Duration("every", 0, "Re-run ingestion at this interval (e.g. 1h); 0 runs once")
	pflag.Parse()

	if err := run(*configPath, *every); err != nil {
		fmt.Fprintf(os.Stderr, "Error %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, every time.Duration) error {
	cfg, err := config.Load(env.NewEnvService(), configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewIngestContainer(ctx, cfg, "ingest")
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close(context.Background())

	if every > 0 {
		container.Logger.Info("Periodic ingestion started", "every", every)
		return container.Ingest.RunPeriodic(ctx, every)
	}

	report, err := container.Ingest.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d of %d tools (%d failed, %d skipped) in %s\n",
		report.Upserted, report.Fetched, report.Failed, report.Skipped, report.Duration.Round(time.Millisecond))
	return nil
}
