package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mission-control/internal/dataset"
	"mission-control/internal/launch"
	"mission-control/internal/middleware"
	"mission-control/internal/planet"
	"mission-control/internal/server"
	"mission-control/internal/shared/config"
	"mission-control/internal/shared/logger"
	"mission-control/internal/spacex"
	"mission-control/internal/storage"

	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Init()

	if err := run(); err != nil {
		slog.Error("Mission control stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.GlobalConfig
	log := slog.With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting mission control",
		"environment", cfg.Server.Environment,
		"storage_driver", cfg.Storage.Driver,
		"api_prefix", cfg.Server.APIPrefix)

	store, err := storage.Open(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	source, err := dataset.Open(ctx, cfg.Dataset, slog.Default())
	if err != nil {
		return err
	}

	// The catalog must be loaded before the listener starts.
	stats, err := planet.NewLoader(source, store.Planets, slog.Default()).Load(ctx)
	if err != nil {
		return err
	}
	log.Info("Planet catalog ready",
		"rows", stats.Rows,
		"habitable", stats.Habitable,
		"inserted", stats.Inserted,
		"failed", stats.Failed)

	planetService := planet.NewService(store.Planets, slog.Default())
	launchService := launch.NewService(store.Launches, planetService, slog.Default())

	if cfg.Launches.SeedDefault {
		if err := launchService.SeedDefault(ctx); err != nil {
			return err
		}
	}

	if cfg.Launches.SpaceXImportEnabled {
		feed := spacex.NewClient(cfg.Launches.SpaceXAPIURL, cfg.Launches.SpaceXTimeout, slog.Default())
		if _, err := launchService.ImportHistory(ctx, feed); err != nil {
			// history is optional; the API still serves scheduled launches
			log.Warn("Launch history import failed", "error", err)
		}
	}

	routes := server.NewRoutes(server.RoutesConfig{
		APIPrefix:     cfg.Server.APIPrefix,
		PublicDir:     cfg.Server.PublicDir,
		Storage:       store,
		StorageDriver: store.Driver,
		PlanetService: planetService,
		LaunchService: launchService,
		OperatorAuth:  middleware.NewOperatorAuth(cfg.Auth),
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	handler := middleware.Chain(
		middleware.Metrics(routes.Setup()),
		middleware.RequestLogger(slog.Default()),
		middleware.NewCORS(cfg.Frontend).Middleware,
		rateLimiter.Middleware,
	)

	srv := server.New(cfg.Server, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rateLimiter.Cleanup(gctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		return server.Run(gctx, srv, cfg.Server.ShutdownTimeout, slog.Default())
	})

	return g.Wait()
}
