package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mission-control/internal/launch"
	"mission-control/internal/planet"
	"mission-control/internal/shared/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory},
	}, testLogger())
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, config.StorageDriverMemory, store.Driver)
	assert.NoError(t, store.Ping(context.Background()))
	assert.IsType(t, &planet.MemoryRepository{}, store.Planets)
	assert.IsType(t, &launch.MemoryRepository{}, store.Launches)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := Open(ctx, &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverRedis},
		Redis:   config.RedisConfig{URL: "redis://" + mr.Addr(), KeyPrefix: "mission"},
	}, testLogger())
	require.NoError(t, err)

	require.NoError(t, store.Ping(ctx))

	inserted, err := store.Planets.UpsertPlanet(ctx, planet.Planet{KeplerName: "Kepler-442 b"})
	require.NoError(t, err)
	assert.True(t, inserted)
	require.NoError(t, store.Launches.SaveLaunch(ctx, launch.Launch{FlightNumber: 100, Mission: "Kepler Exploration X"}))

	assert.True(t, mr.Exists("mission:launch:100"))

	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(ctx))
}

func TestOpenRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverRedis},
		Redis:   config.RedisConfig{URL: "redis://" + addr},
	}, testLogger())
	assert.Error(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{
		Storage: config.StorageConfig{Driver: "mongodb"},
	}, testLogger())
	assert.Error(t, err)
}
