package schedule

import (
	"context"
	"sort"
	"sync"
)

// Repository defines the interface for class offering storage
type Repository interface {
	List(ctx context.Context) ([]*ClassOffering, error)
	GetByID(ctx context.Context, id string) (*ClassOffering, error)
	ListByDay(ctx context.Context, dayKey string) ([]*ClassOffering, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests and as a
// seed source when no database is configured.
type InMemoryRepository struct {
	mu        sync.RWMutex
	offerings map[string]*ClassOffering
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{offerings: make(map[string]*ClassOffering)}
}

// Seed inserts offerings, replacing any with the same id.
func (r *InMemoryRepository) Seed(offerings ...*ClassOffering) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range offerings {
		r.offerings[o.ID] = o
	}
}

// List returns all offerings ordered by day then time.
func (r *InMemoryRepository) List(ctx context.Context) ([]*ClassOffering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ClassOffering, 0, len(r.offerings))
	for _, o := range r.offerings {
		out = append(out, o)
	}
	sortOfferings(out)
	return out, nil
}

// GetByID retrieves one offering.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*ClassOffering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.offerings[id]
	if !ok {
		return nil, ErrOfferingNotFound
	}
	return o, nil
}

// ListByDay returns the offerings scheduled on the given day.
func (r *InMemoryRepository) ListByDay(ctx context.Context, dayKey string) ([]*ClassOffering, error) {
	target, ok := ParseDayKey(dayKey)
	if !ok {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ClassOffering
	for _, o := range r.offerings {
		if wd, ok := ParseDayKey(o.DayKey); ok && wd == target {
			out = append(out, o)
		}
	}
	sortOfferings(out)
	return out, nil
}

func sortOfferings(offerings []*ClassOffering) {
	sort.Slice(offerings, func(i, j int) bool {
		di, _ := ParseDayKey(offerings[i].DayKey)
		dj, _ := ParseDayKey(offerings[j].DayKey)
		if di != dj {
			return di < dj
		}
		if offerings[i].TimeOfDay != offerings[j].TimeOfDay {
			return offerings[i].TimeOfDay < offerings[j].TimeOfDay
		}
		return offerings[i].ID < offerings[j].ID
	})
}
