// Package storage selects the backing store for planets and launches.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"mission-control/internal/launch"
	"mission-control/internal/planet"
	"mission-control/internal/shared/config"
	"mission-control/internal/shared/database"
	sharedredis "mission-control/internal/shared/redis"
)

type Store struct {
	Driver   string
	Planets  planet.Repository
	Launches launch.Repository

	ping  func(ctx context.Context) error
	close func() error
}

// Open connects the driver named by cfg.Storage.Driver. The postgres driver
// applies pending migrations before returning.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	logger = logger.With("component", "storage", "operation", "open", "driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				logger.Error("Failed to close database after migration failure", "close_error", closeErr)
			}
			return nil, err
		}
		logger.Info("Storage ready")
		return &Store{
			Driver:   cfg.Storage.Driver,
			Planets:  planet.NewPostgresRepository(db, logger),
			Launches: launch.NewPostgresRepository(db, logger),
			ping:     db.Ping,
			close:    db.Close,
		}, nil

	case config.StorageDriverRedis:
		client, err := sharedredis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info("Storage ready")
		return NewRedis(client, logger), nil

	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return NewMemory(), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// NewRedis wraps an established client.
func NewRedis(client *sharedredis.Client, logger *slog.Logger) *Store {
	return &Store{
		Driver:   config.StorageDriverRedis,
		Planets:  planet.NewRedisRepository(client, logger),
		Launches: launch.NewRedisRepository(client, logger),
		ping:     client.Ping,
		close:    client.Close,
	}
}

func NewMemory() *Store {
	return &Store{
		Driver:   config.StorageDriverMemory,
		Planets:  planet.NewMemoryRepository(),
		Launches: launch.NewMemoryRepository(),
		ping:     func(context.Context) error { return nil },
		close:    func() error { return nil },
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Store) Close() error {
	return s.close()
}
