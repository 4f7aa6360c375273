package world

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/lease"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/worlds"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/player"
	"go.uber.org/zap"
)

const (
	// MaxNameLength bounds the guild's world name
	MaxNameLength = 50

	// MaxStatusLength bounds the guild's status line
	MaxStatusLength = 100

	operationTTL = 30 * time.Second
)

// Repository is an alias for the world repository interface
type Repository = worlds.Repository

// Service defines guild-level operations. Mutations fail with a conflict while a raid is running.
type Service interface {
	// Get loads a guild's world, creating a fresh one on first contact
	Get(ctx context.Context, guildID int64) (*world.World, error)

	// SetName renames the world
	SetName(ctx context.Context, input *UpdateInput) (*world.World, error)

	// SetStatus changes the world's status line
	SetStatus(ctx context.Context, input *UpdateInput) (*world.World, error)

	// SetColour changes the world's embed colour
	SetColour(ctx context.Context, input *UpdateInput) (*world.World, error)

	// SetAdventureChannel picks the channel raids are announced in
	SetAdventureChannel(ctx context.Context, input *UpdateInput) (*world.World, error)
}

// UpdateInput carries a new value for one world field
type UpdateInput struct {
	GuildID int64
	Value   string
}

// ServiceConfig holds configuration for the world service
type ServiceConfig struct {
	Repository Repository
	Leases     lease.Manager
	Logger     *zap.Logger
	Now        func() time.Time
}

type service struct {
	repository Repository
	leases     lease.Manager
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a new world service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Leases == nil {
		panic("lease manager is required")
	}

	svc := &service{
		repository: cfg.Repository,
		leases:     cfg.Leases,
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

func (s *service) Get(ctx context.Context, guildID int64) (*world.World, error) {
	if guildID == 0 {
		return nil, dnderr.InvalidArgument("guild ID is required")
	}

	w, err := s.repository.Get(ctx, guildID)
	if err == nil {
		return w, nil
	}
	if !dnderr.IsNotFound(err) {
		return nil, dnderr.Wrapf(err, "failed to load world %d", guildID).
			WithMeta("guild_id", guildID)
	}

	w = world.New(guildID, s.now())
	if err := s.repository.Put(ctx, w); err != nil {
		return nil, dnderr.Wrapf(err, "failed to create world %d", guildID).
			WithMeta("guild_id", guildID)
	}
	s.logger.Info("created world", zap.Int64("guild_id", guildID))
	return w, nil
}

func (s *service) SetName(ctx context.Context, input *UpdateInput) (*world.World, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	name := strings.TrimSpace(input.Value)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, dnderr.InvalidArgumentf("world name must be 1 to %d characters", MaxNameLength)
	}
	return s.update(ctx, input.GuildID, func(w *world.World) { w.Name = name })
}

func (s *service) SetStatus(ctx context.Context, input *UpdateInput) (*world.World, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	status := strings.TrimSpace(input.Value)
	if utf8.RuneCountInString(status) > MaxStatusLength {
		return nil, dnderr.InvalidArgumentf("status must be at most %d characters", MaxStatusLength)
	}
	return s.update(ctx, input.GuildID, func(w *world.World) { w.Status = status })
}

func (s *service) SetColour(ctx context.Context, input *UpdateInput) (*world.World, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	colour, err := player.NormalizeColour(input.Value)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, input.GuildID, func(w *world.World) { w.Colour = colour })
}

func (s *service) SetAdventureChannel(ctx context.Context, input *UpdateInput) (*world.World, error) {
	if input == nil || input.Value == "" {
		return nil, dnderr.InvalidArgument("channel ID is required")
	}
	return s.update(ctx, input.GuildID, func(w *world.World) { w.AdventureChannelID = input.Value })
}

// update holds the guild lease so the change cannot race a running raid
func (s *service) update(ctx context.Context, guildID int64, apply func(w *world.World)) (*world.World, error) {
	if guildID == 0 {
		return nil, dnderr.InvalidArgument("guild ID is required")
	}

	token, err := s.leases.Acquire(ctx, lease.GuildKey(guildID), operationTTL)
	if err != nil {
		if dnderr.IsConflict(err) {
			return nil, dnderr.Conflictf("a raid is running in guild %d", guildID).
				WithMeta("guild_id", guildID)
		}
		return nil, dnderr.Wrap(err, "failed to lock guild")
	}
	defer func() {
		if err := s.leases.Release(ctx, token); err != nil {
			s.logger.Warn("failed to release guild lease", zap.Int64("guild_id", guildID), zap.Error(err))
		}
	}()

	w, err := s.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	apply(w)
	if err := s.repository.Put(ctx, w); err != nil {
		return nil, dnderr.Wrapf(err, "failed to save world %d", guildID).
			WithMeta("guild_id", guildID)
	}
	return w, nil
}
