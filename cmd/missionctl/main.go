package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mission-control/internal/cli"
	"mission-control/internal/shared/config"
	"mission-control/internal/shared/logger"
	"mission-control/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// stdout carries command output
	log := logger.New(os.Stderr, cfg.Logging)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &cli.Env{
		Config: cfg,
		OpenStore: func(ctx context.Context) (*storage.Store, error) {
			return storage.Open(ctx, cfg, log)
		},
		Out:    os.Stdout,
		Logger: log,
	}

	if err := cli.NewCommand(env).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
