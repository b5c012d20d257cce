package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// DefaultTestRedisURL points at DB 15 so tests never touch real data
const DefaultTestRedisURL = "redis://localhost:6379/15"

// CreateTestRedisClientOrSkip connects to TEST_REDIS_URL (or the default) and
// skips the test if Redis is not available. The database is flushed before
// and after the test.
func CreateTestRedisClientOrSkip(t *testing.T) redis.UniversalClient {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		url = DefaultTestRedisURL
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err, "invalid TEST_REDIS_URL")

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "Failed to flush test Redis database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}
