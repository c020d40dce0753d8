package launch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	sharedredis "mission-control/internal/shared/redis"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores each launch as JSON under <prefix>:launch:<n> and
// orders flight numbers in the <prefix>:launches sorted set.
type RedisRepository struct {
	client *sharedredis.Client
	logger *slog.Logger
}

func NewRedisRepository(client *sharedredis.Client, logger *slog.Logger) *RedisRepository {
	logger.Debug("Initializing redis launch repository")

	return &RedisRepository{
		client: client,
		logger: logger,
	}
}

func (r *RedisRepository) launchKey(flightNumber int) string {
	return r.client.Key("launch", strconv.Itoa(flightNumber))
}

func (r *RedisRepository) indexKey() string {
	return r.client.Key("launches")
}

func (r *RedisRepository) FindByFlightNumber(ctx context.Context, flightNumber int) (*Launch, error) {
	data, err := r.client.Get(ctx, r.launchKey(flightNumber)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find launch: %w", err)
	}

	var launch Launch
	if err := json.Unmarshal(data, &launch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal launch: %w", err)
	}
	return &launch, nil
}

func (r *RedisRepository) ListLaunches(ctx context.Context, skip, limit int) ([]Launch, error) {
	start := int64(skip)
	stop := int64(-1)
	if limit > 0 {
		stop = start + int64(limit) - 1
	}

	members, err := r.client.ZRange(ctx, r.indexKey(), start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list launches: %w", err)
	}
	if len(members) == 0 {
		return []Launch{}, nil
	}

	keys := make([]string, 0, len(members))
	for _, member := range members {
		keys = append(keys, r.client.Key("launch", member))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load launches: %w", err)
	}

	launches := make([]Launch, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			r.logger.Warn("Launch indexed without a document",
				"component", "launch_repository",
				"operation", "list_launches",
				"key", keys[i])
			continue
		}

		var launch Launch
		if err := json.Unmarshal([]byte(raw), &launch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal launch %s: %w", keys[i], err)
		}
		launches = append(launches, launch)
	}

	return launches, nil
}

func (r *RedisRepository) LatestFlightNumber(ctx context.Context) (int, bool, error) {
	latest, err := r.client.ZRevRangeWithScores(ctx, r.indexKey(), 0, 0).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get latest flight number: %w", err)
	}
	if len(latest) == 0 {
		return 0, false, nil
	}
	return int(latest[0].Score), true, nil
}

func (r *RedisRepository) SaveLaunch(ctx context.Context, launch Launch) error {
	data, err := json.Marshal(launch)
	if err != nil {
		return fmt.Errorf("failed to marshal launch: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.launchKey(launch.FlightNumber), data, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{
			Score:  float64(launch.FlightNumber),
			Member: strconv.Itoa(launch.FlightNumber),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save launch: %w", err)
	}

	r.logger.Debug("Launch saved",
		"component", "launch_repository",
		"operation", "save_launch",
		"flight_number", launch.FlightNumber)
	return nil
}

func (r *RedisRepository) AbortLaunch(ctx context.Context, flightNumber int) (bool, error) {
	key := r.launchKey(flightNumber)
	modified := false

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var launch Launch
		if err := json.Unmarshal(data, &launch); err != nil {
			return fmt.Errorf("failed to unmarshal launch: %w", err)
		}
		if launch.Aborted() {
			return nil
		}

		launch.Upcoming = false
		launch.Success = false
		updated, err := json.Marshal(launch)
		if err != nil {
			return fmt.Errorf("failed to marshal launch: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		if err != nil {
			return err
		}
		modified = true
		return nil
	}, key)
	if err != nil {
		return false, fmt.Errorf("failed to abort launch: %w", err)
	}

	return modified, nil
}
