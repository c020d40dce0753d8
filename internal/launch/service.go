package launch

import (
	"context"
	"log/slog"
	"time"

	"mission-control/internal/metrics"
	"mission-control/internal/shared/errors"
)

// Client facing error messages.
const (
	MsgMissingProperty  = "Missing required launch property"
	MsgInvalidDate      = "Invalid launch date"
	MsgNoMatchingPlanet = "No matching planet found"
	MsgNotFound         = "Launch not found"
	MsgNotAborted       = "Launch not aborted"
)

// PlanetCatalog resolves launch targets.
type PlanetCatalog interface {
	Exists(ctx context.Context, keplerName string) (bool, error)
}

// Feed supplies historical launches for import.
type Feed interface {
	FetchLaunches(ctx context.Context) ([]Launch, error)
}

// The first historical launch; its presence means history was imported.
var firstHistoricalLaunch = Launch{
	FlightNumber: 1,
	Rocket:       "Falcon 1",
	Mission:      "FalconSat",
}

// defaultLaunch is the seed record installed by SeedDefault.
var defaultLaunch = Launch{
	FlightNumber: DefaultFlightNumber,
	Mission:      "Kepler Exploration X",
	Rocket:       "Explorer IS1",
	LaunchDate:   time.Date(2030, time.December, 27, 0, 0, 0, 0, time.UTC),
	Target:       "Kepler-442 b",
	Customers:    DefaultCustomers,
	Upcoming:     true,
	Success:      true,
}

type Service struct {
	repo    Repository
	planets PlanetCatalog
	logger  *slog.Logger
}

func NewService(repo Repository, planets PlanetCatalog, logger *slog.Logger) *Service {
	logger.Debug("Initializing launch service")

	return &Service{
		repo:    repo,
		planets: planets,
		logger:  logger,
	}
}

// Exists reports whether a launch with this flight number is stored.
func (s *Service) Exists(ctx context.Context, flightNumber int) (bool, error) {
	launch, err := s.repo.FindByFlightNumber(ctx, flightNumber)
	if err != nil {
		return false, errors.WrapStorage("failed to look up launch", err)
	}
	return launch != nil, nil
}

// List returns launches by ascending flight number. A zero limit is unbounded.
func (s *Service) List(ctx context.Context, skip, limit int) ([]Launch, error) {
	launches, err := s.repo.ListLaunches(ctx, skip, limit)
	if err != nil {
		return nil, errors.WrapStorage("failed to list launches", err)
	}
	if launches == nil {
		launches = []Launch{}
	}
	return launches, nil
}

// Schedule validates the request, resolves its target planet and stores it
// under the next flight number.
//
// The next number is read before the write without isolation; two concurrent
// calls can compute the same number and the later save replaces the earlier.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (*Launch, error) {
	logger := s.logger.With("component", "launch_service", "operation", "schedule", "mission", req.Mission, "target", req.Target)

	if req.Mission == "" || req.Rocket == "" || req.LaunchDate == "" || req.Target == "" {
		return nil, errors.Validation(MsgMissingProperty)
	}

	launchDate, err := ParseLaunchDate(req.LaunchDate)
	if err != nil {
		return nil, errors.WrapValidation(MsgInvalidDate, err)
	}

	found, err := s.planets.Exists(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ReferentialIntegrity(MsgNoMatchingPlanet)
	}

	flightNumber, err := s.nextFlightNumber(ctx)
	if err != nil {
		return nil, err
	}

	launch := Launch{
		FlightNumber: flightNumber,
		Mission:      req.Mission,
		Rocket:       req.Rocket,
		LaunchDate:   launchDate,
		Target:       req.Target,
		Customers:    append([]string(nil), DefaultCustomers...),
		Upcoming:     true,
		Success:      true,
	}

	if err := s.repo.SaveLaunch(ctx, launch); err != nil {
		return nil, errors.WrapStorage("failed to save launch", err)
	}

	metrics.LaunchesScheduled.Inc()
	logger.Info("Launch scheduled", "flight_number", flightNumber)
	return &launch, nil
}

func (s *Service) nextFlightNumber(ctx context.Context) (int, error) {
	latest, found, err := s.repo.LatestFlightNumber(ctx)
	if err != nil {
		return 0, errors.WrapStorage("failed to get latest flight number", err)
	}
	if !found {
		latest = DefaultFlightNumber
	}
	return latest + 1, nil
}

// Abort moves a launch to the aborted state. It never creates a record and
// returns false when nothing changed, including a repeated abort.
func (s *Service) Abort(ctx context.Context, flightNumber int) (bool, error) {
	aborted, err := s.repo.AbortLaunch(ctx, flightNumber)
	if err != nil {
		return false, errors.WrapStorage("failed to abort launch", err)
	}

	if aborted {
		metrics.LaunchesAborted.Inc()
		s.logger.Info("Launch aborted",
			"component", "launch_service",
			"operation", "abort",
			"flight_number", flightNumber)
	}
	return aborted, nil
}

// SeedDefault upserts the default launch record. Safe to run on every start.
func (s *Service) SeedDefault(ctx context.Context) error {
	launch := defaultLaunch
	launch.Customers = append([]string(nil), DefaultCustomers...)

	if err := s.repo.SaveLaunch(ctx, launch); err != nil {
		return errors.WrapStorage("failed to seed default launch", err)
	}

	s.logger.Info("Default launch seeded",
		"component", "launch_service",
		"operation", "seed_default",
		"flight_number", launch.FlightNumber)
	return nil
}

// ImportHistory upserts every launch from the feed unless the first
// historical launch is already stored. It returns the number imported.
func (s *Service) ImportHistory(ctx context.Context, feed Feed) (int, error) {
	logger := s.logger.With("component", "launch_service", "operation", "import_history")

	first, err := s.repo.FindByFlightNumber(ctx, firstHistoricalLaunch.FlightNumber)
	if err != nil {
		return 0, errors.WrapStorage("failed to look up first launch", err)
	}
	if first != nil && first.Rocket == firstHistoricalLaunch.Rocket && first.Mission == firstHistoricalLaunch.Mission {
		logger.Info("Launch data already loaded")
		return 0, nil
	}

	logger.Info("Downloading launch data")
	launches, err := feed.FetchLaunches(ctx)
	if err != nil {
		return 0, errors.WrapExternal("launch data download failed", err)
	}

	imported := 0
	for _, launch := range launches {
		if err := s.repo.SaveLaunch(ctx, launch); err != nil {
			return imported, errors.WrapStorage("failed to save imported launch", err)
		}
		imported++
	}

	metrics.LaunchesImported.Add(float64(imported))
	logger.Info("Launch data imported", "count", imported)
	return imported, nil
}
