package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"galaxy-recommender/internal/di"
	"galaxy-recommender/internal/infrastructure/config"
	"galaxy-recommender/internal/infrastructure/env"
	"galaxy-recommender/internal/infrastructure/httpapi"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.String("config", "", "Optional YAML config file")
	addr := pflag.String("addr", "", "Listen address (overrides HTTP_ADDR)")
	pflag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg, err := config.Load(env.NewEnvService(), configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewChatContainer(ctx, cfg, "server")
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close(context.Background())

	server := httpapi.NewServer(container.Chat, container.Logger, httpapi.Config{
		Addr:        cfg.Server.Addr,
		CORSOrigins: cfg.Server.CORSOrigins,
		ServiceName: cfg.Telemetry.ServiceName,
		AccessLog:   cfg.Server.AccessLog,
	}, container.EventHandler())

	return server.ListenAndServe(ctx)
}
