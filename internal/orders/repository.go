package orders

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOrderNotFound is returned when no order exists for an id.
var ErrOrderNotFound = errors.New("order not found")

// Repository defines the interface for order storage
type Repository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// InMemoryRepository is a Repository backed by a map, used in tests.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]*Order)}
}

// Seed stores orders keyed by id.
func (r *InMemoryRepository) Seed(orders ...*Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range orders {
		clone := *o
		r.orders[o.ID] = &clone
	}
}

// GetByID returns an order.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

// UpdateStatus sets the order status.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}
