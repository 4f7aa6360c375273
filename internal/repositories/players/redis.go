package players

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	keyPrefix = "player:"
	indexKey  = "players"
)

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
	now    func() time.Time
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient

	// Now defaults to time.Now and stamps players that were never seen
	Now func() time.Time
}

// NewRedisRepository creates a new Redis-backed player repository
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

	return &redisRepo{
		client: cfg.Client,
		now:    now,
	}
}

// NewRedis creates a new Redis-backed player repository with defaults
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func playerKey(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

// Get retrieves a player by ID
func (r *redisRepo) Get(ctx context.Context, id int64) (*character.Player, error) {
	raw, err := r.client.Get(ctx, playerKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dnderr.NotFoundf("player %d not found", id).
				WithMeta("player_id", id)
		}
		return nil, fmt.Errorf("failed to get player from Redis: %w", err)
	}

	return decode(id, []byte(raw), r.now())
}

// Put stores a player and indexes it
func (r *redisRepo) Put(ctx context.Context, player *character.Player) error {
	if player == nil {
		return dnderr.InvalidArgument("player cannot be nil")
	}

	jsonData, err := json.Marshal(ToData(player))
	if err != nil {
		return fmt.Errorf("failed to marshal player data: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), string(jsonData), 0)
	pipe.SAdd(ctx, indexKey, strconv.FormatInt(player.ID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set player in Redis: %w", err)
	}

	return nil
}

// Delete removes a player and its index entry
func (r *redisRepo) Delete(ctx context.Context, id int64) error {
	pipe := r.client.Pipeline()
	del := pipe.Del(ctx, playerKey(id))
	pipe.SRem(ctx, indexKey, strconv.FormatInt(id, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete player from Redis: %w", err)
	}

	if del.Val() == 0 {
		return dnderr.NotFoundf("player %d not found", id).
			WithMeta("player_id", id)
	}

	return nil
}

// List loads every indexed player. Index entries whose record is gone are skipped.
func (r *redisRepo) List(ctx context.Context) ([]*character.Player, error) {
	members, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player index from Redis: %w", err)
	}

	players := make([]*character.Player, len(members))
	g, ctx := errgroup.WithContext(ctx)
	for i, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, dnderr.DataLossf("player index holds invalid id %q", member)
		}
		g.Go(func() error {
			player, err := r.Get(ctx, id)
			if err != nil {
				if dnderr.IsNotFound(err) {
					return nil
				}
				return err
			}
			players[i] = player
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*character.Player, 0, len(players))
	for _, p := range players {
		if p != nil {
			result = append(result, p)
		}
	}
	return result, nil
}

func decode(id int64, raw []byte, now time.Time) (*character.Player, error) {
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeDataLoss, "failed to unmarshal player data").
			WithMeta("player_id", id)
	}
	if data.ID == 0 {
		data.ID = id
	}
	return FromData(&data, now)
}
