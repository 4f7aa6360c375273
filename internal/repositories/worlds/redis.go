package worlds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/redis/go-redis/v9"
)

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
	now    func() time.Time
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
	Now    func() time.Time
}

// NewRedisRepository creates a new Redis-backed world repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("redis client cannot be nil")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &redisRepo{client: cfg.Client, now: now}
}

// NewRedis creates a new Redis-backed world repository with defaults
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func worldKey(id int64) string {
	return fmt.Sprintf("world:%d", id)
}

// Get retrieves a world by guild ID
func (r *redisRepo) Get(ctx context.Context, id int64) (*world.World, error) {
	raw, err := r.client.Get(ctx, worldKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dnderr.NotFoundf("world %d not found", id).
				WithMeta("guild_id", id)
		}
		return nil, fmt.Errorf("failed to get world from Redis: %w", err)
	}

	return decode(id, []byte(raw), r.now())
}

// Put stores a world
func (r *redisRepo) Put(ctx context.Context, w *world.World) error {
	if w == nil {
		return dnderr.InvalidArgument("world cannot be nil")
	}

	jsonData, err := json.Marshal(ToData(w))
	if err != nil {
		return fmt.Errorf("failed to marshal world data: %w", err)
	}

	if err := r.client.Set(ctx, worldKey(w.ID), string(jsonData), 0).Err(); err != nil {
		return fmt.Errorf("failed to set world in Redis: %w", err)
	}
	return nil
}

// Delete removes a world
func (r *redisRepo) Delete(ctx context.Context, id int64) error {
	deleted, err := r.client.Del(ctx, worldKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete world from Redis: %w", err)
	}
	if deleted == 0 {
		return dnderr.NotFoundf("world %d not found", id).
			WithMeta("guild_id", id)
	}
	return nil
}

func decode(id int64, raw []byte, now time.Time) (*world.World, error) {
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeDataLoss, "failed to unmarshal world data").
			WithMeta("guild_id", id)
	}
	if data.ID == 0 {
		data.ID = id
	}
	return FromData(&data, now)
}
