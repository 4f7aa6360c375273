package worlds

//go:generate mockgen -destination=mock/mock.go -package=mockworlds -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
)

// Repository defines the interface for guild world persistence
type Repository interface {
	// Get retrieves a world by guild ID
	Get(ctx context.Context, id int64) (*world.World, error)

	// Put creates or replaces a world record
	Put(ctx context.Context, w *world.World) error

	// Delete removes a world record
	Delete(ctx context.Context, id int64) error
}
