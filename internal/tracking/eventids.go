package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventIDStore hands out the deduplication id for a logical action. The
// first caller for an action key generates the id; retries of the same
// action (a resubmitted form, the server-side leg of a browser event) get
// the stored id back instead of a fresh one.
type EventIDStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewEventIDStore creates a redis-backed store. Ids expire after ttl since
// an action key only needs to survive one user gesture plus its retries.
func NewEventIDStore(rdb *redis.Client, ttl time.Duration) *EventIDStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &EventIDStore{rdb: rdb, ttl: ttl, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *EventIDStore) WithNow(now func() time.Time) *EventIDStore {
	if now != nil {
		s.now = now
	}
	return s
}

// GetOrCreate returns the event id for the action key, generating and
// storing one on first use. Without redis it degrades to a fresh id per
// call, which loses retry dedup but never blocks tracking.
func (s *EventIDStore) GetOrCreate(ctx context.Context, actionKey string) (string, error) {
	if s == nil {
		return NewEventID(time.Now()), nil
	}
	id := NewEventID(s.now())
	if s.rdb == nil {
		return id, nil
	}

	key := fmt.Sprintf("tracking:eventid:%s", actionKey)
	ok, err := s.rdb.SetNX(ctx, key, id, s.ttl).Result()
	if err != nil {
		return id, fmt.Errorf("tracking: store event id: %w", err)
	}
	if ok {
		return id, nil
	}

	stored, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return id, fmt.Errorf("tracking: load event id: %w", err)
	}
	return stored, nil
}
