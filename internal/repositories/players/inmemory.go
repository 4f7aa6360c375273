package players

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the player repository.
// Records go through the same encoding as Redis so callers never share pointers.
type InMemoryRepository struct {
	mu      sync.RWMutex
	players map[int64][]byte
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		players: make(map[int64][]byte),
	}
}

// Get retrieves a player by ID
func (r *InMemoryRepository) Get(ctx context.Context, id int64) (*character.Player, error) {
	r.mu.RLock()
	raw, exists := r.players[id]
	r.mu.RUnlock()

	if !exists {
		return nil, dnderr.NotFoundf("player %d not found", id).
			WithMeta("player_id", id)
	}
	return decode(id, raw, time.Now())
}

// Put stores a copy of the player
func (r *InMemoryRepository) Put(ctx context.Context, player *character.Player) error {
	if player == nil {
		return dnderr.InvalidArgument("player cannot be nil")
	}

	raw, err := json.Marshal(ToData(player))
	if err != nil {
		return fmt.Errorf("failed to marshal player data: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[player.ID] = raw
	return nil
}

// PutRaw stores an already encoded record, used to seed legacy or corrupt data
func (r *InMemoryRepository) PutRaw(id int64, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[id] = raw
}

// Delete removes a player
func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[id]; !exists {
		return dnderr.NotFoundf("player %d not found", id).
			WithMeta("player_id", id)
	}
	delete(r.players, id)
	return nil
}

// List returns every player ordered by ID
func (r *InMemoryRepository) List(ctx context.Context) ([]*character.Player, error) {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*character.Player, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(ctx, id)
		if err != nil {
			if dnderr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}
