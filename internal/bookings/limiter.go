package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// AttemptLimiter caps booking submissions per email to keep bots and
// double-clicks from flooding the bookings table.
type AttemptLimiter struct {
	redis  *redis.Client
	logger *logging.Logger
	max    int
	window time.Duration
}

// NewAttemptLimiter creates a limiter. maxAttempts <= 0 disables the check.
func NewAttemptLimiter(redisClient *redis.Client, maxAttempts int, window time.Duration, logger *logging.Logger) *AttemptLimiter {
	if logger == nil {
		logger = logging.Default()
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &AttemptLimiter{
		redis:  redisClient,
		logger: logger,
		max:    maxAttempts,
		window: window,
	}
}

// Allow counts one attempt and reports whether it is within the limit.
// Fails open: a redis outage never blocks a legitimate booking.
func (l *AttemptLimiter) Allow(ctx context.Context, normalizedEmail string) bool {
	if l == nil || l.redis == nil || l.max <= 0 {
		return true
	}

	key := fmt.Sprintf("bookings:attempts:%s", normalizedEmail)
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Error("booking attempt check failed", "error", err, "key", key)
		return true
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("booking attempt expiry failed", "error", err, "key", key)
		}
	}

	if int(count) > l.max {
		l.logger.Warn("booking attempts exceeded",
			"email", normalizedEmail,
			"count", count,
			"max", l.max,
		)
		return false
	}
	return true
}
