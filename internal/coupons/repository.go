package coupons

import (
	"context"
	"errors"
	"sync"
)

// ErrCouponNotFound is returned when no coupon exists for a code.
var ErrCouponNotFound = errors.New("coupon not found")

// Repository defines the interface for coupon storage
type Repository interface {
	GetByCode(ctx context.Context, normalizedCode string) (*Coupon, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	coupons map[string]*Coupon
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{coupons: make(map[string]*Coupon)}
}

// Seed stores coupons keyed by their normalized code.
func (r *InMemoryRepository) Seed(coupons ...*Coupon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range coupons {
		clone := *c
		r.coupons[NormalizeCode(c.Code)] = &clone
	}
}

// GetByCode returns the coupon for a normalized code.
func (r *InMemoryRepository) GetByCode(ctx context.Context, normalizedCode string) (*Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.coupons[normalizedCode]
	if !ok {
		return nil, ErrCouponNotFound
	}
	clone := *c
	return &clone, nil
}
