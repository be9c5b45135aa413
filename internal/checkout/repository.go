package checkout

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Link maps a short code to a provider checkout URL, so emails and chat
// messages can carry compact /pay/{code} URLs.
type Link struct {
	Code      string    `json:"code"`
	URL       string    `json:"url"`
	PlanLabel string    `json:"plan_label,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines the interface for checkout link storage
type Repository interface {
	GetByCode(ctx context.Context, code string) (*Link, error)
	Create(ctx context.Context, link *Link) error
}

// InMemoryRepository is a Repository backed by a map, used in tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	links map[string]*Link
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{links: make(map[string]*Link)}
}

// GetByCode returns the active link for a short code.
func (r *InMemoryRepository) GetByCode(ctx context.Context, code string) (*Link, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.links[strings.ToLower(code)]
	if !ok || !link.Active {
		return nil, ErrLinkNotFound
	}
	clone := *link
	return &clone, nil
}

// Create stores a link.
func (r *InMemoryRepository) Create(ctx context.Context, link *Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *link
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	r.links[strings.ToLower(link.Code)] = &clone
	return nil
}
