package planet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"mission-control/internal/shared/database"
)

// Repository is the planet store. UpsertPlanet inserts when absent and
// leaves an existing record untouched, reporting whether a row was created.
type Repository interface {
	UpsertPlanet(ctx context.Context, planet Planet) (bool, error)
	FindByName(ctx context.Context, name string) (*Planet, error)
	ListPlanets(ctx context.Context) ([]Planet, error)
}

type PostgresRepository struct {
	db     database.Executor
	logger *slog.Logger
}

func NewPostgresRepository(db database.Executor, logger *slog.Logger) *PostgresRepository {
	logger.Debug("Initializing postgres planet repository")

	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresRepository) UpsertPlanet(ctx context.Context, planet Planet) (bool, error) {
	logger := r.logger.With(
		"component", "planet_repository",
		"operation", "upsert_planet",
		"kepler_name", planet.KeplerName,
	)

	query := `
		INSERT INTO planets (kepler_name)
		VALUES ($1)
		ON CONFLICT (kepler_name) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, planet.KeplerName)
	if err != nil {
		logger.Error("Failed to upsert planet", "error", err)
		return false, fmt.Errorf("failed to upsert planet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Error("Failed to get rows affected", "error", err)
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	logger.Debug("Planet upserted", "inserted", rowsAffected == 1)
	return rowsAffected == 1, nil
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (*Planet, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "find_by_name", "kepler_name", name)

	var planet Planet
	err := r.db.QueryRowContext(ctx, `SELECT kepler_name FROM planets WHERE kepler_name = $1`, name).Scan(&planet.KeplerName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Debug("Planet not found")
			return nil, nil
		}
		logger.Error("Database error getting planet", "error", err)
		return nil, fmt.Errorf("failed to find planet: %w", err)
	}

	return &planet, nil
}

func (r *PostgresRepository) ListPlanets(ctx context.Context) ([]Planet, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "list_planets")
	logger.Debug("Listing planets")

	rows, err := r.db.QueryContext(ctx, `SELECT kepler_name FROM planets ORDER BY kepler_name`)
	if err != nil {
		logger.Error("Failed to query planets", "error", err)
		return nil, fmt.Errorf("failed to query planets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var planets []Planet
	for rows.Next() {
		var planet Planet
		if err := rows.Scan(&planet.KeplerName); err != nil {
			logger.Error("Failed to scan planet row", "error", err)
			return nil, fmt.Errorf("failed to scan planet: %w", err)
		}
		planets = append(planets, planet)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating planets: %w", err)
	}

	logger.Debug("Planets retrieved", "count", len(planets))
	return planets, nil
}
