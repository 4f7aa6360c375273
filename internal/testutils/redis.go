package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// LiveRedisAddrEnv points tests at a disposable Redis, e.g. localhost:6379
const LiveRedisAddrEnv = "RAID_TEST_REDIS_ADDR"

// liveRedisDB keeps test keys away from a developer's bot data
const liveRedisDB = 15

// LiveRedis returns a client for the Redis named by RAID_TEST_REDIS_ADDR.
// The test database is flushed before and after the test. The test is
// skipped when the variable is unset or the server does not answer.
func LiveRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	addr := os.Getenv(LiveRedisAddrEnv)
	if addr == "" {
		t.Skipf("%s not set, skipping live Redis test", LiveRedisAddrEnv)
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: liveRedisDB})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis at %s not reachable: %v", addr, err)
	}
	require.NoError(t, client.FlushDB(ctx).Err(), "failed to flush test database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}

// WaitForRedis polls addr until PING answers or the timeout passes
func WaitForRedis(addr string, timeout time.Duration) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		if err := client.Ping(ctx).Err(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("redis at %s not ready after %v", addr, timeout)
		case <-ticker.C:
		}
	}
}
