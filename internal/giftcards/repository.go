package giftcards

import (
	"context"
	"errors"
	"sync"
)

// ErrTokenNotFound is returned when a token grants access to nothing.
var ErrTokenNotFound = errors.New("gift card token not found")

// Repository defines the interface for gift card storage
type Repository interface {
	ListByToken(ctx context.Context, token string) ([]*GiftCard, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byToken map[string][]*GiftCard
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byToken: make(map[string][]*GiftCard)}
}

// Seed associates cards with an access token.
func (r *InMemoryRepository) Seed(token string, cards ...*GiftCard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range cards {
		clone := *c
		r.byToken[token] = append(r.byToken[token], &clone)
	}
}

// ListByToken returns the cards reachable through a token.
func (r *InMemoryRepository) ListByToken(ctx context.Context, token string) ([]*GiftCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cards, ok := r.byToken[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	out := make([]*GiftCard, 0, len(cards))
	for _, c := range cards {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}
