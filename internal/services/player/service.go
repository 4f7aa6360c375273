package player

import (
	"context"
	"sort"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/catalog"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/lease"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/players"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/uuid"
	"go.uber.org/zap"
)

// Repository is an alias for the player repository interface
type Repository = players.Repository

// Service defines the player progression and item operations.
// Every mutating call takes the player's lease, so it fails with a conflict
// while the player is on a raid roster.
type Service interface {
	// Get loads a player, creating a fresh novice on first contact
	Get(ctx context.Context, input *GetInput) (*character.Player, error)

	// Equip wears an owned item
	Equip(ctx context.Context, input *ItemInput) (*character.Player, error)

	// Unequip takes an item off
	Unequip(ctx context.Context, input *ItemInput) (*character.Player, error)

	// GiveItem creates a catalog item in the player's backpack
	GiveItem(ctx context.Context, input *GiveItemInput) (*ItemOutput, error)

	// DropItem throws away an unequipped item
	DropItem(ctx context.Context, input *ItemInput) (*character.Player, error)

	// Reinforce spends a soul shard on one reinforcement attempt
	Reinforce(ctx context.Context, input *ItemInput) (*ReinforceOutput, error)

	// Transfer moves an unequipped regular item between players
	Transfer(ctx context.Context, input *TransferInput) (*TransferOutput, error)

	// OpenChest spends chest tokens on a random reward
	OpenChest(ctx context.Context, input *OpenChestInput) (*OpenChestOutput, error)

	// SoulforgeOffer returns the legendary item on sale at the given time
	SoulforgeOffer(at time.Time) (*equipment.Template, error)

	// Soulforge buys the current legendary offer with soul shards
	Soulforge(ctx context.Context, input *PlayerInput) (*ItemOutput, error)

	// ChangeJob advances the player into a new job
	ChangeJob(ctx context.Context, input *ChangeJobInput) (*ChangeJobOutput, error)

	// AddStats spends remaining stat points
	AddStats(ctx context.Context, input *AddStatsInput) (*character.Player, error)

	// ResetStats refunds trained stats for ten levels
	ResetStats(ctx context.Context, input *PlayerInput) (*character.Player, error)

	// Rebirth restarts a capped player with permanent potential
	Rebirth(ctx context.Context, input *PlayerInput) (*character.Player, error)

	// SetStatus changes the profile status line
	SetStatus(ctx context.Context, input *CosmeticInput) (*character.Player, error)

	// SetColour changes the profile colour
	SetColour(ctx context.Context, input *CosmeticInput) (*character.Player, error)

	// Leaderboard ranks players by rebirth, level and experience
	Leaderboard(ctx context.Context, limit int) ([]*character.Player, error)

	// Delete removes all of a player's data
	Delete(ctx context.Context, input *PlayerInput) error
}

// Rules are the tunable limits of player progression
type Rules struct {
	LevelCap         int
	InventorySize    int
	MaxReinforcement int
	ChestCost        int
	ChestMinLevel    int
	ChestShardChance float64
	SoulforgeCost    int
	JobMinLevel      int
	ResetMinLevel    int
	CosmeticMinLevel int
	TransferMinLevel int

	// OperationTTL bounds how long a single command may hold the player's lease
	OperationTTL time.Duration
}

// DefaultRules returns the standard progression limits
func DefaultRules() Rules {
	return Rules{
		LevelCap:         character.DefaultLevelCap,
		InventorySize:    character.DefaultInventorySize,
		MaxReinforcement: equipment.DefaultMaxReinforcement,
		ChestCost:        20,
		ChestMinLevel:    5,
		ChestShardChance: 0.05,
		SoulforgeCost:    240,
		JobMinLevel:      10,
		ResetMinLevel:    15,
		CosmeticMinLevel: 5,
		TransferMinLevel: 5,
		OperationTTL:     30 * time.Second,
	}
}

// ServiceConfig holds configuration for the player service
type ServiceConfig struct {
	Repository    Repository
	Leases        lease.Manager
	Catalog       *catalog.Catalog
	Roller        dice.Roller
	UUIDGenerator uuid.Generator
	Logger        *zap.Logger
	Now           func() time.Time
	Rules         *Rules
}

type service struct {
	repository Repository
	leases     lease.Manager
	catalog    *catalog.Catalog
	roller     dice.Roller
	uuid       uuid.Generator
	logger     *zap.Logger
	now        func() time.Time
	rules      Rules
}

// NewService creates a new player service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Leases == nil {
		panic("lease manager is required")
	}
	if cfg.Catalog == nil {
		panic("catalog is required")
	}

	svc := &service{
		repository: cfg.Repository,
		leases:     cfg.Leases,
		catalog:    cfg.Catalog,
		roller:     cfg.Roller,
		uuid:       cfg.UUIDGenerator,
		logger:     cfg.Logger,
		now:        cfg.Now,
		rules:      DefaultRules(),
	}
	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.uuid == nil {
		svc.uuid = uuid.NewGoogleUUIDGenerator()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if cfg.Rules != nil {
		svc.rules = *cfg.Rules
	}

	return svc
}

// GetInput identifies a player. Name is only used when the player is created.
type GetInput struct {
	PlayerID int64
	Name     string
}

// PlayerInput identifies a player
type PlayerInput struct {
	PlayerID int64
}

// ItemInput identifies one of a player's items
type ItemInput struct {
	PlayerID int64
	ItemID   string
}

// ItemOutput is the player after gaining an item
type ItemOutput struct {
	Player *character.Player
	Item   *equipment.Item
}

// Get loads a player, creating and saving a new one on a miss
func (s *service) Get(ctx context.Context, input *GetInput) (*character.Player, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	if input.PlayerID == 0 {
		return nil, dnderr.InvalidArgument("player ID is required")
	}

	p, err := s.repository.Get(ctx, input.PlayerID)
	switch {
	case err == nil:
		p.RefreshHealth(s.now())
		return p, nil
	case !dnderr.IsNotFound(err):
		return nil, dnderr.Wrapf(err, "failed to load player %d", input.PlayerID).
			WithMeta("player_id", input.PlayerID)
	}

	var created *character.Player
	err = s.mutate(ctx, input.PlayerID, func(p *character.Player) error {
		if input.Name != "" {
			p.Name = input.Name
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// create builds a new novice holding the starter weapon
func (s *service) create(id int64) (*character.Player, error) {
	p := character.NewPlayer(id, s.now())
	p.InventorySize = s.rules.InventorySize

	tmpl, err := s.catalog.Item(character.StarterWeaponKey)
	if err != nil {
		return nil, dnderr.Wrap(err, "starter weapon missing from catalog")
	}
	weapon := equipment.NewItem(s.uuid.New(), tmpl, 1)
	if err := p.AddItem(weapon); err != nil {
		return nil, err
	}
	if err := p.Equip(weapon.ID); err != nil {
		return nil, err
	}
	p.Health = p.MaxHealth()

	s.logger.Info("created player", zap.Int64("player_id", id))
	return p, nil
}

// load reads a player, creating one on a miss, and applies regen
func (s *service) load(ctx context.Context, id int64) (*character.Player, error) {
	p, err := s.repository.Get(ctx, id)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return s.create(id)
		}
		return nil, dnderr.Wrapf(err, "failed to load player %d", id).
			WithMeta("player_id", id)
	}
	p.RefreshHealth(s.now())
	return p, nil
}

// lock takes the player's lease for the length of one command
func (s *service) lock(ctx context.Context, id int64) (*lease.Token, error) {
	token, err := s.leases.Acquire(ctx, lease.PlayerKey(id), s.rules.OperationTTL)
	if err != nil {
		if dnderr.IsConflict(err) {
			return nil, dnderr.Conflictf("player %d is busy in a raid", id).
				WithMeta("player_id", id)
		}
		return nil, dnderr.Wrap(err, "failed to lock player")
	}
	return token, nil
}

func (s *service) unlock(ctx context.Context, token *lease.Token) {
	if err := s.leases.Release(ctx, token); err != nil {
		s.logger.Warn("failed to release player lease",
			zap.String("key", token.Key),
			zap.Error(err))
	}
}

// mutate runs fn against a locked, freshly loaded player and saves the result.
// Nothing is written when fn fails.
func (s *service) mutate(ctx context.Context, id int64, fn func(p *character.Player) error) error {
	if id == 0 {
		return dnderr.InvalidArgument("player ID is required")
	}

	token, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer s.unlock(ctx, token)

	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	if err := s.repository.Put(ctx, p); err != nil {
		return dnderr.Wrapf(err, "failed to save player %d", id).
			WithMeta("player_id", id)
	}
	return nil
}

// mutatePlayer is mutate for operations that return the updated player
func (s *service) mutatePlayer(ctx context.Context, id int64, fn func(p *character.Player) error) (*character.Player, error) {
	var out *character.Player
	err := s.mutate(ctx, id, func(p *character.Player) error {
		if err := fn(p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Leaderboard ranks every stored player
func (s *service) Leaderboard(ctx context.Context, limit int) ([]*character.Player, error) {
	if limit <= 0 {
		return nil, dnderr.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	all, err := s.repository.List(ctx)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list players")
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Rebirth != b.Rebirth {
			return a.Rebirth > b.Rebirth
		}
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		if a.Exp != b.Exp {
			return a.Exp > b.Exp
		}
		return a.ID < b.ID
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Delete removes the player's record
func (s *service) Delete(ctx context.Context, input *PlayerInput) error {
	if input == nil || input.PlayerID == 0 {
		return dnderr.InvalidArgument("player ID is required")
	}

	token, err := s.lock(ctx, input.PlayerID)
	if err != nil {
		return err
	}
	defer s.unlock(ctx, token)

	if err := s.repository.Delete(ctx, input.PlayerID); err != nil {
		return dnderr.Wrapf(err, "failed to delete player %d", input.PlayerID).
			WithMeta("player_id", input.PlayerID)
	}

	s.logger.Info("deleted player", zap.Int64("player_id", input.PlayerID))
	return nil
}
