package launch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"mission-control/internal/shared/database"

	"github.com/lib/pq"
)

// Repository is the launch store, keyed by flight number.
type Repository interface {
	FindByFlightNumber(ctx context.Context, flightNumber int) (*Launch, error)
	// ListLaunches orders by ascending flight number; limit 0 means no limit.
	ListLaunches(ctx context.Context, skip, limit int) ([]Launch, error)
	// LatestFlightNumber reports false when the store is empty.
	LatestFlightNumber(ctx context.Context) (int, bool, error)
	// SaveLaunch inserts or replaces the launch with the same flight number.
	SaveLaunch(ctx context.Context, launch Launch) error
	// AbortLaunch clears upcoming and success on an existing launch only and
	// reports whether a record changed.
	AbortLaunch(ctx context.Context, flightNumber int) (bool, error)
}

const launchColumns = `flight_number, mission, rocket, launch_date, target, customers, upcoming, success`

type PostgresRepository struct {
	db     database.Executor
	logger *slog.Logger
}

func NewPostgresRepository(db database.Executor, logger *slog.Logger) *PostgresRepository {
	logger.Debug("Initializing postgres launch repository")

	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLaunch(row rowScanner) (Launch, error) {
	var launch Launch
	err := row.Scan(
		&launch.FlightNumber,
		&launch.Mission,
		&launch.Rocket,
		&launch.LaunchDate,
		&launch.Target,
		pq.Array(&launch.Customers),
		&launch.Upcoming,
		&launch.Success,
	)
	launch.LaunchDate = launch.LaunchDate.UTC()
	return launch, err
}

func (r *PostgresRepository) FindByFlightNumber(ctx context.Context, flightNumber int) (*Launch, error) {
	logger := r.logger.With("component", "launch_repository", "operation", "find_by_flight_number", "flight_number", flightNumber)

	query := `SELECT ` + launchColumns + ` FROM launches WHERE flight_number = $1`

	launch, err := scanLaunch(r.db.QueryRowContext(ctx, query, flightNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Debug("Launch not found")
			return nil, nil
		}
		logger.Error("Database error getting launch", "error", err)
		return nil, fmt.Errorf("failed to find launch: %w", err)
	}

	return &launch, nil
}

func (r *PostgresRepository) ListLaunches(ctx context.Context, skip, limit int) ([]Launch, error) {
	logger := r.logger.With("component", "launch_repository", "operation", "list_launches", "skip", skip, "limit", limit)
	logger.Debug("Listing launches")

	// LIMIT NULL is unbounded
	query := `
		SELECT ` + launchColumns + `
		FROM launches
		ORDER BY flight_number ASC
		OFFSET $1
		LIMIT NULLIF($2, 0)
	`

	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		logger.Error("Failed to query launches", "error", err)
		return nil, fmt.Errorf("failed to query launches: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var launches []Launch
	for rows.Next() {
		launch, err := scanLaunch(rows)
		if err != nil {
			logger.Error("Failed to scan launch row", "error", err)
			return nil, fmt.Errorf("failed to scan launch: %w", err)
		}
		launches = append(launches, launch)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating launches: %w", err)
	}

	logger.Debug("Launches retrieved", "count", len(launches))
	return launches, nil
}

func (r *PostgresRepository) LatestFlightNumber(ctx context.Context) (int, bool, error) {
	var latest sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(flight_number) FROM launches`).Scan(&latest); err != nil {
		r.logger.Error("Failed to get latest flight number",
			"component", "launch_repository",
			"operation", "latest_flight_number",
			"error", err)
		return 0, false, fmt.Errorf("failed to get latest flight number: %w", err)
	}

	if !latest.Valid {
		return 0, false, nil
	}
	return int(latest.Int64), true, nil
}

func (r *PostgresRepository) SaveLaunch(ctx context.Context, launch Launch) error {
	logger := r.logger.With("component", "launch_repository", "operation", "save_launch", "flight_number", launch.FlightNumber)

	customers := launch.Customers
	if customers == nil {
		customers = []string{}
	}

	query := `
		INSERT INTO launches (` + launchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (flight_number) DO UPDATE SET
			mission = EXCLUDED.mission,
			rocket = EXCLUDED.rocket,
			launch_date = EXCLUDED.launch_date,
			target = EXCLUDED.target,
			customers = EXCLUDED.customers,
			upcoming = EXCLUDED.upcoming,
			success = EXCLUDED.success,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		launch.FlightNumber,
		launch.Mission,
		launch.Rocket,
		launch.LaunchDate,
		launch.Target,
		pq.Array(customers),
		launch.Upcoming,
		launch.Success,
	)
	if err != nil {
		logger.Error("Failed to save launch", "error", err)
		return fmt.Errorf("failed to save launch: %w", err)
	}

	logger.Debug("Launch saved")
	return nil
}

func (r *PostgresRepository) AbortLaunch(ctx context.Context, flightNumber int) (bool, error) {
	logger := r.logger.With("component", "launch_repository", "operation", "abort_launch", "flight_number", flightNumber)

	// rows already aborted are left alone so RowsAffected reports real changes
	query := `
		UPDATE launches
		SET upcoming = false, success = false, updated_at = NOW()
		WHERE flight_number = $1 AND (upcoming OR success)
	`

	result, err := r.db.ExecContext(ctx, query, flightNumber)
	if err != nil {
		logger.Error("Failed to abort launch", "error", err)
		return false, fmt.Errorf("failed to abort launch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logger.Error("Failed to get rows affected", "error", err)
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	logger.Debug("Abort update applied", "rows_affected", rowsAffected)
	return rowsAffected == 1, nil
}
