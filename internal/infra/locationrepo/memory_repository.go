package locationrepo

import (
	"context"
	"sync"

	"github.com/yanqian/opening-hours/internal/domain/hours"
)

// MemoryRepository serves locations loaded from configuration.
type MemoryRepository struct {
	mu     sync.RWMutex
	order  []string
	bySlug map[string]hours.Location
}

// NewMemoryRepository constructs a repo seeded with already validated locations.
func NewMemoryRepository(locations []hours.Location) *MemoryRepository {
	repo := &MemoryRepository{bySlug: make(map[string]hours.Location, len(locations))}
	for _, loc := range locations {
		repo.Put(loc)
	}
	return repo
}

// Put inserts or replaces a location.
func (r *MemoryRepository) Put(loc hours.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bySlug[loc.Slug]; !exists {
		r.order = append(r.order, loc.Slug)
	}
	r.bySlug[loc.Slug] = loc
}

// List implements hours.LocationRepository.
func (r *MemoryRepository) List(_ context.Context) ([]hours.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]hours.Location, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.bySlug[slug])
	}
	return out, nil
}

// FindBySlug implements hours.LocationRepository.
func (r *MemoryRepository) FindBySlug(_ context.Context, slug string) (hours.Location, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.bySlug[slug]
	return loc, ok, nil
}

var _ hours.LocationRepository = (*MemoryRepository)(nil)
