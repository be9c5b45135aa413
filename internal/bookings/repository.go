package bookings

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for booking storage
type Repository interface {
	Create(ctx context.Context, req *SubmitRequest) (*Booking, error)
	HasTrialBooking(ctx context.Context, normalizedEmail string) (bool, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
	byEmail  map[string]string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		bookings: make(map[string]*Booking),
		byEmail:  make(map[string]string),
	}
}

// Create stores a booking in memory.
func (r *InMemoryRepository) Create(ctx context.Context, req *SubmitRequest) (*Booking, error) {
	booking := &Booking{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.NormalizedEmail(),
		Phone:        req.Phone,
		ClassTitle:   req.ClassTitle,
		DayKey:       req.DayKey,
		TimeOfDay:    req.TimeOfDay,
		SelectedDate: req.SelectedDate,
		UTMSource:    req.UTM.Source,
		UTMMedium:    req.UTM.Medium,
		UTMCampaign:  req.UTM.Campaign,
		CreatedAt:    time.Now().UTC(),
	}

	r.mu.Lock()
	r.bookings[booking.ID] = booking
	r.byEmail[booking.Email] = booking.ID
	r.mu.Unlock()

	return booking, nil
}

// HasTrialBooking reports whether the email already attended a trial.
func (r *InMemoryRepository) HasTrialBooking(ctx context.Context, normalizedEmail string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[normalizedEmail]
	return ok, nil
}

// GetByID retrieves a booking by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}
