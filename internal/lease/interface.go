// Package lease holds the raid locks that keep a guild to one raid at a time
// and a player to one raid roster at a time.
package lease

//go:generate mockgen -destination=mock/mock.go -package=mocklease -source=interface.go

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultTTL is how long a raid lock lives without being released
	DefaultTTL = 180 * time.Second

	// DefaultSweepInterval is how often the reaper looks for stale leases
	DefaultSweepInterval = 10 * time.Minute
)

// Token proves ownership of a held lease
type Token struct {
	Key        string
	Owner      string
	AcquiredAt time.Time
	ExpiresAt  time.Time
}

// Manager hands out exclusive, expiring leases
type Manager interface {
	// Acquire takes the lease or fails with a conflict error if it is held
	Acquire(ctx context.Context, key string, ttl time.Duration) (*Token, error)

	// Release gives the lease back. Releasing a lease that expired or was
	// taken over is not an error.
	Release(ctx context.Context, token *Token) error

	// Held reports whether someone currently holds the lease
	Held(ctx context.Context, key string) (bool, error)

	// Sweep reclaims expired leases and returns how many were removed
	Sweep(ctx context.Context) (int, error)
}

// GuildKey is the lease held for the whole lifetime of a guild raid
func GuildKey(guildID int64) string {
	return fmt.Sprintf("lease:guild:%d", guildID)
}

// PlayerKey is the lease held while a player is on a raid roster
func PlayerKey(playerID int64) string {
	return fmt.Sprintf("lease:player:%d", playerID)
}
