package planet

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps planets in process memory. Each instance is
// independent, so tests and local runs never share state.
type MemoryRepository struct {
	mu      sync.RWMutex
	planets map[string]Planet
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{planets: make(map[string]Planet)}
}

func (r *MemoryRepository) UpsertPlanet(_ context.Context, planet Planet) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.planets[planet.KeplerName]; ok {
		return false, nil
	}
	r.planets[planet.KeplerName] = planet
	return true, nil
}

func (r *MemoryRepository) FindByName(_ context.Context, name string) (*Planet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	planet, ok := r.planets[name]
	if !ok {
		return nil, nil
	}
	return &planet, nil
}

func (r *MemoryRepository) ListPlanets(_ context.Context) ([]Planet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	planets := make([]Planet, 0, len(r.planets))
	for _, p := range r.planets {
		planets = append(planets, p)
	}
	sort.Slice(planets, func(i, j int) bool { return planets[i].KeplerName < planets[j].KeplerName })
	return planets, nil
}
