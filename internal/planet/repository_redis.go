package planet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	sharedredis "mission-control/internal/shared/redis"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores each planet as a JSON document under
// <prefix>:planet:<name> and indexes names in the <prefix>:planets set.
type RedisRepository struct {
	client *sharedredis.Client
	logger *slog.Logger
}

func NewRedisRepository(client *sharedredis.Client, logger *slog.Logger) *RedisRepository {
	logger.Debug("Initializing redis planet repository")

	return &RedisRepository{
		client: client,
		logger: logger,
	}
}

func (r *RedisRepository) planetKey(name string) string {
	return r.client.Key("planet", name)
}

func (r *RedisRepository) indexKey() string {
	return r.client.Key("planets")
}

func (r *RedisRepository) UpsertPlanet(ctx context.Context, planet Planet) (bool, error) {
	data, err := json.Marshal(planet)
	if err != nil {
		return false, fmt.Errorf("failed to marshal planet: %w", err)
	}

	inserted, err := r.client.SetNX(ctx, r.planetKey(planet.KeplerName), data, 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to upsert planet: %w", err)
	}

	// index membership is idempotent, so re-adding repairs a half-written entry
	if err := r.client.SAdd(ctx, r.indexKey(), planet.KeplerName).Err(); err != nil {
		return false, fmt.Errorf("failed to index planet: %w", err)
	}

	r.logger.Debug("Planet upserted",
		"component", "planet_repository",
		"operation", "upsert_planet",
		"kepler_name", planet.KeplerName,
		"inserted", inserted)
	return inserted, nil
}

func (r *RedisRepository) FindByName(ctx context.Context, name string) (*Planet, error) {
	data, err := r.client.Get(ctx, r.planetKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find planet: %w", err)
	}

	var planet Planet
	if err := json.Unmarshal(data, &planet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal planet: %w", err)
	}
	return &planet, nil
}

func (r *RedisRepository) ListPlanets(ctx context.Context) ([]Planet, error) {
	names, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list planets: %w", err)
	}

	sort.Strings(names)
	planets := make([]Planet, 0, len(names))
	for _, name := range names {
		planets = append(planets, Planet{KeplerName: name})
	}
	return planets, nil
}
