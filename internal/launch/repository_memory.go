package launch

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps launches in process memory, one map per instance.
type MemoryRepository struct {
	mu       sync.RWMutex
	launches map[int]Launch
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{launches: make(map[int]Launch)}
}

func (r *MemoryRepository) FindByFlightNumber(_ context.Context, flightNumber int) (*Launch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	launch, ok := r.launches[flightNumber]
	if !ok {
		return nil, nil
	}
	launch.Customers = append([]string(nil), launch.Customers...)
	return &launch, nil
}

func (r *MemoryRepository) ListLaunches(_ context.Context, skip, limit int) ([]Launch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	numbers := make([]int, 0, len(r.launches))
	for n := range r.launches {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	if skip >= len(numbers) {
		return []Launch{}, nil
	}
	numbers = numbers[skip:]
	if limit > 0 && limit < len(numbers) {
		numbers = numbers[:limit]
	}

	launches := make([]Launch, 0, len(numbers))
	for _, n := range numbers {
		launch := r.launches[n]
		launch.Customers = append([]string(nil), launch.Customers...)
		launches = append(launches, launch)
	}
	return launches, nil
}

func (r *MemoryRepository) LatestFlightNumber(_ context.Context) (int, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest, found := 0, false
	for n := range r.launches {
		if !found || n > latest {
			latest, found = n, true
		}
	}
	return latest, found, nil
}

func (r *MemoryRepository) SaveLaunch(_ context.Context, launch Launch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	launch.Customers = append([]string(nil), launch.Customers...)
	r.launches[launch.FlightNumber] = launch
	return nil
}

func (r *MemoryRepository) AbortLaunch(_ context.Context, flightNumber int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	launch, ok := r.launches[flightNumber]
	if !ok || launch.Aborted() {
		return false, nil
	}

	launch.Upcoming = false
	launch.Success = false
	r.launches[flightNumber] = launch
	return true, nil
}
