package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return client, func() {
		client.Close()
		mr.Close()
	}
}

func TestAttemptLimiter_AllowsUnderLimit(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewAttemptLimiter(client, 3, 24*time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "maria@example.com"), "attempt %d should be allowed", i+1)
	}
	assert.False(t, limiter.Allow(ctx, "maria@example.com"), "fourth attempt should be blocked")

	// A different email has its own counter.
	assert.True(t, limiter.Allow(ctx, "pedro@example.com"))
}

func TestAttemptLimiter_FailsOpenWithoutRedis(t *testing.T) {
	limiter := NewAttemptLimiter(nil, 1, time.Hour, nil)
	assert.True(t, limiter.Allow(context.Background(), "maria@example.com"))
	assert.True(t, limiter.Allow(context.Background(), "maria@example.com"))
}

func TestAttemptLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	cleanup()

	limiter := NewAttemptLimiter(client, 1, time.Hour, nil)
	assert.True(t, limiter.Allow(context.Background(), "maria@example.com"))
}

func TestAttemptLimiter_DisabledWhenMaxZero(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	limiter := NewAttemptLimiter(client, 0, time.Hour, nil)
	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow(context.Background(), "maria@example.com"))
	}
}
