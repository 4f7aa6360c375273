package players

//go:generate mockgen -destination=mock/mock.go -package=mockplayers -source=interface.go

import (
	"context"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
)

// Repository defines the interface for player persistence
type Repository interface {
	// Get retrieves a player by Discord user ID
	Get(ctx context.Context, id int64) (*character.Player, error)

	// Put creates or replaces a player record
	Put(ctx context.Context, player *character.Player) error

	// Delete removes a player record
	Delete(ctx context.Context, id int64) error

	// List returns every stored player
	List(ctx context.Context) ([]*character.Player, error)
}
