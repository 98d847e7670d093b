package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/resama/internal/config"
	"github.com/example/resama/internal/logging"
)

func main() {
	bootstrap := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	cli := &commandLine{app: app, out: os.Stdout}
	runErr := cli.run(ctx, os.Args)
	if err := app.Close(); err != nil {
		logger.Error("failed to close storage", "error", err)
	}

	switch {
	case runErr == nil:
	case errors.Is(runErr, errHelp):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "erreur:", describeError(runErr))
		os.Exit(1)
	}
}
