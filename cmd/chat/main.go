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
	"galaxy-recommender/internal/infrastructure/userinteraction"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

func main() {
	model := pflag.String("model", "", "Override the model name for the session")
	configPath := pflag.String("config", "", "Optional YAML config file")
	mono := pflag.Bool("mono", false, "Start without colors")
	pflag.Parse()

	if err := run(*model, *configPath, *mono); err != nil {
		fmt.Fprintf(os.Stderr, "Error %v\n", err)
		os.Exit(1)
	}
}

func run(model, configPath string, mono bool) error {
	cfg, err := config.Load(env.NewEnvService(), configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	container, err := di.NewChatContainer(ctx, cfg, "chat")
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close(context.Background())

	colored := !mono && term.IsTerminal(int(os.Stdout.Fd()))
	console := userinteraction.NewConsole(os.Stdout, colored)

	opts := []userinteraction.ShellOption{userinteraction.WithEventHandler(container.EventHandler())}
	if model != "" {
		opts = append(opts, userinteraction.WithModel(model))
	}

	container.Logger.Info("Chat session started", "model", cfg.LLM.Model, "override", model)
	shell := userinteraction.NewShell(container.Chat, console, userinteraction.NewStdinReader(), container.Logger, opts...)
	return shell.Run(ctx)
}
