package worlds

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
)

// InMemoryRepository is an in-memory implementation of the world repository
type InMemoryRepository struct {
	mu     sync.RWMutex
	worlds map[int64][]byte
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		worlds: make(map[int64][]byte),
	}
}

// Get retrieves a world by guild ID
func (r *InMemoryRepository) Get(ctx context.Context, id int64) (*world.World, error) {
	r.mu.RLock()
	raw, exists := r.worlds[id]
	r.mu.RUnlock()

	if !exists {
		return nil, dnderr.NotFoundf("world %d not found", id).
			WithMeta("guild_id", id)
	}
	return decode(id, raw, time.Now())
}

// Put stores a copy of the world
func (r *InMemoryRepository) Put(ctx context.Context, w *world.World) error {
	if w == nil {
		return dnderr.InvalidArgument("world cannot be nil")
	}

	raw, err := json.Marshal(ToData(w))
	if err != nil {
		return fmt.Errorf("failed to marshal world data: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.worlds[w.ID] = raw
	return nil
}

// PutRaw stores an already encoded record
func (r *InMemoryRepository) PutRaw(id int64, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.worlds[id] = raw
}

// Delete removes a world
func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.worlds[id]; !exists {
		return dnderr.NotFoundf("world %d not found", id).
			WithMeta("guild_id", id)
	}
	delete(r.worlds, id)
	return nil
}
