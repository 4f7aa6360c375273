package lease

import (
	"context"
	"fmt"
	"time"

	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our owner token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisManager stores leases as plain keys with a PX expiry
type redisManager struct {
	client redis.UniversalClient
	uuid   uuid.Generator
	now    func() time.Time
}

// RedisConfig holds configuration for the Redis lease manager
type RedisConfig struct {
	Client        redis.UniversalClient
	UUIDGenerator uuid.Generator
	Now           func() time.Time
}

// NewRedisManager creates a Redis-backed lease manager
func NewRedisManager(cfg *RedisConfig) Manager {
	if cfg == nil {
		panic("RedisConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("redis client cannot be nil")
	}

	m := &redisManager{
		client: cfg.Client,
		uuid:   cfg.UUIDGenerator,
		now:    cfg.Now,
	}
	if m.uuid == nil {
		m.uuid = uuid.NewGoogleUUIDGenerator()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Acquire sets the key with NX so only one holder wins
func (m *redisManager) Acquire(ctx context.Context, key string, ttl time.Duration) (*Token, error) {
	if key == "" {
		return nil, dnderr.InvalidArgument("lease key is required")
	}
	if ttl <= 0 {
		return nil, dnderr.InvalidArgumentf("lease ttl must be positive, got %s", ttl)
	}

	now := m.now()
	owner := m.uuid.New()
	ok, err := m.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return nil, dnderr.WrapWithCode(fmt.Errorf("failed to acquire lease: %w", err), dnderr.CodeUnavailable, "lease store unavailable").
			WithMeta("key", key)
	}
	if !ok {
		return nil, dnderr.Conflictf("lease %s is already held", key).
			WithMeta("key", key)
	}

	return &Token{
		Key:        key,
		Owner:      owner,
		AcquiredAt: now,
		ExpiresAt:  now.Add(ttl),
	}, nil
}

// Release compares the owner and deletes atomically
func (m *redisManager) Release(ctx context.Context, token *Token) error {
	if token == nil {
		return dnderr.InvalidArgument("lease token cannot be nil")
	}

	if err := releaseScript.Run(ctx, m.client, []string{token.Key}, token.Owner).Err(); err != nil {
		return fmt.Errorf("failed to release lease %s: %w", token.Key, err)
	}
	return nil
}

// Held checks whether the key exists
func (m *redisManager) Held(ctx context.Context, key string) (bool, error) {
	n, err := m.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check lease %s: %w", key, err)
	}
	return n > 0, nil
}

// Sweep has nothing to do: Redis expires leases by TTL
func (m *redisManager) Sweep(ctx context.Context) (int, error) {
	return 0, nil
}
