package planet

import (
	"context"
	"log/slog"

	"mission-control/internal/shared/errors"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing planet service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetAllPlanets returns the habitable catalog ordered by name.
func (s *Service) GetAllPlanets(ctx context.Context) ([]Planet, error) {
	planets, err := s.repo.ListPlanets(ctx)
	if err != nil {
		return nil, errors.WrapStorage("failed to list planets", err)
	}
	if planets == nil {
		planets = []Planet{}
	}
	return planets, nil
}

// Exists reports whether a planet with exactly this name is in the catalog.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	planet, err := s.repo.FindByName(ctx, name)
	if err != nil {
		s.logger.Error("Failed to look up planet",
			"component", "planet_service",
			"operation", "exists",
			"kepler_name", name,
			"error", err)
		return false, errors.WrapStorage("failed to look up planet", err)
	}
	return planet != nil, nil
}
