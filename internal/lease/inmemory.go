package lease

import (
	"context"
	"sync"
	"time"

	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/uuid"
)

// InMemoryManager keeps leases in process memory
type InMemoryManager struct {
	mu     sync.Mutex
	leases map[string]*Token
	uuid   uuid.Generator
	now    func() time.Time
}

// InMemoryConfig holds optional collaborators for the in-memory manager
type InMemoryConfig struct {
	UUIDGenerator uuid.Generator
	Now           func() time.Time
}

// NewInMemoryManager creates an in-memory lease manager
func NewInMemoryManager(cfg *InMemoryConfig) *InMemoryManager {
	m := &InMemoryManager{
		leases: make(map[string]*Token),
		uuid:   uuid.NewGoogleUUIDGenerator(),
		now:    time.Now,
	}
	if cfg != nil {
		if cfg.UUIDGenerator != nil {
			m.uuid = cfg.UUIDGenerator
		}
		if cfg.Now != nil {
			m.now = cfg.Now
		}
	}
	return m
}

// Acquire takes the lease unless an unexpired holder exists
func (m *InMemoryManager) Acquire(ctx context.Context, key string, ttl time.Duration) (*Token, error) {
	if key == "" {
		return nil, dnderr.InvalidArgument("lease key is required")
	}
	if ttl <= 0 {
		return nil, dnderr.InvalidArgumentf("lease ttl must be positive, got %s", ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if held, ok := m.leases[key]; ok && now.Before(held.ExpiresAt) {
		return nil, dnderr.Conflictf("lease %s is already held", key).
			WithMeta("key", key).
			WithMeta("expires_at", held.ExpiresAt)
	}

	token := &Token{
		Key:        key,
		Owner:      m.uuid.New(),
		AcquiredAt: now,
		ExpiresAt:  now.Add(ttl),
	}
	m.leases[key] = token

	copied := *token
	return &copied, nil
}

// Release drops the lease if the token still owns it
func (m *InMemoryManager) Release(ctx context.Context, token *Token) error {
	if token == nil {
		return dnderr.InvalidArgument("lease token cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if held, ok := m.leases[token.Key]; ok && held.Owner == token.Owner {
		delete(m.leases, token.Key)
	}
	return nil
}

// Held reports whether an unexpired lease exists for key
func (m *InMemoryManager) Held(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	held, ok := m.leases[key]
	return ok && m.now().Before(held.ExpiresAt), nil
}

// Sweep removes every expired lease
func (m *InMemoryManager) Sweep(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, held := range m.leases {
		if !now.Before(held.ExpiresAt) {
			delete(m.leases, key)
			removed++
		}
	}
	return removed, nil
}
