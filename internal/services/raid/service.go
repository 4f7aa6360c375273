package raid

import (
	"context"
	"sync"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/catalog"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/game/combat"
	raidgame "github.com/KirkDiggler/dungeon-raid-bot/internal/domain/game/raid"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/lease"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/players"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/worlds"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/player"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/uuid"
	"go.uber.org/zap"
)

// Service runs guild raids: a monster is announced, players join during the
// preparation window, and the fight is resolved and settled when the lobby starts.
type Service interface {
	// Announce rolls a monster for the guild and opens the join window
	Announce(ctx context.Context, input *AnnounceInput) (*Lobby, error)

	// Join puts a player on the roster of the guild's open lobby
	Join(ctx context.Context, input *JoinInput) (*Lobby, error)

	// Start closes the lobby, fights and settles. A lobby nobody joined is cancelled.
	Start(ctx context.Context, guildID int64) (*Result, error)

	// AwaitStart waits for the join window to close and then starts the raid.
	// If ctx ends first the lobby is cancelled.
	AwaitStart(ctx context.Context, guildID int64) (*Result, error)

	// Cancel abandons the lobby and releases every lease it holds
	Cancel(ctx context.Context, guildID int64) error

	// Lobby returns a snapshot of the guild's open lobby
	Lobby(ctx context.Context, guildID int64) (*Lobby, error)

	// Run announces, joins the given players and starts in one call
	Run(ctx context.Context, input *RunInput) (*Result, error)
}

// Rules are the tunable limits of a raid
type Rules struct {
	// LockTTL is how long a raid lease survives if the bot dies mid-raid
	LockTTL   time.Duration
	MaxRounds int
	Rewards   raidgame.Rules
}

// DefaultRules returns the standard raid limits
func DefaultRules() Rules {
	return Rules{
		LockTTL:   lease.DefaultTTL,
		MaxRounds: combat.DefaultMaxRounds,
		Rewards:   raidgame.DefaultRules(),
	}
}

// ServiceConfig holds configuration for the raid service
type ServiceConfig struct {
	Players       players.Repository
	Worlds        worlds.Repository
	PlayerService player.Service
	Leases        lease.Manager
	Catalog       *catalog.Catalog
	Roller        dice.Roller
	UUIDGenerator uuid.Generator
	Logger        *zap.Logger
	Now           func() time.Time
	Rules         *Rules
}

type service struct {
	players       players.Repository
	worlds        worlds.Repository
	playerService player.Service
	leases        lease.Manager
	catalog       *catalog.Catalog
	roller        dice.Roller
	uuid          uuid.Generator
	logger        *zap.Logger
	now           func() time.Time
	rules         Rules

	mu      sync.Mutex
	lobbies map[int64]*lobby
}

// NewService creates a new raid service
func NewService(cfg *ServiceConfig) Service {
	switch {
	case cfg.Players == nil:
		panic("player repository is required")
	case cfg.Worlds == nil:
		panic("world repository is required")
	case cfg.PlayerService == nil:
		panic("player service is required")
	case cfg.Leases == nil:
		panic("lease manager is required")
	case cfg.Catalog == nil:
		panic("catalog is required")
	}

	svc := &service{
		players:       cfg.Players,
		worlds:        cfg.Worlds,
		playerService: cfg.PlayerService,
		leases:        cfg.Leases,
		catalog:       cfg.Catalog,
		roller:        cfg.Roller,
		uuid:          cfg.UUIDGenerator,
		logger:        cfg.Logger,
		now:           cfg.Now,
		rules:         DefaultRules(),
		lobbies:       make(map[int64]*lobby),
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

// AnnounceInput identifies the guild starting a raid
type AnnounceInput struct {
	GuildID int64
}

// JoinInput identifies the player joining and the name they go by
type JoinInput struct {
	GuildID  int64
	PlayerID int64
	Name     string
}

// RunInput is a whole raid in one call
type RunInput struct {
	GuildID int64
	Players []JoinInput
}

// Member is one player on a lobby roster
type Member struct {
	PlayerID int64
	Name     string
}

// Lobby is a snapshot of a raid waiting for its join window to close
type Lobby struct {
	GuildID  int64
	Instance *raidgame.Instance
	Deadline time.Time
	Members  []Member
}

// Result is what a finished (or cancelled) raid reports
type Result struct {
	GuildID   int64
	Instance  *raidgame.Instance
	Cancelled bool

	Combat     *combat.Result
	Settlement *raidgame.Settlement

	// Skipped lists players Run could not put on the roster
	Skipped []int64
}

// lobby is the service's private, lease-holding view of an open raid
type lobby struct {
	guildID    int64
	instance   *raidgame.Instance
	deadline   time.Time
	guildToken *lease.Token
	members    []Member
	tokens     map[int64]*lease.Token
}

func (l *lobby) snapshot() *Lobby {
	return &Lobby{
		GuildID:  l.guildID,
		Instance: l.instance,
		Deadline: l.deadline,
		Members:  append([]Member{}, l.members...),
	}
}

func (s *service) Lobby(ctx context.Context, guildID int64) (*Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lobbies[guildID]
	if !ok {
		return nil, dnderr.NotFoundf("no raid is open in guild %d", guildID).
			WithMeta("guild_id", guildID)
	}
	return l.snapshot(), nil
}

func (s *service) Cancel(ctx context.Context, guildID int64) error {
	l, err := s.take(guildID)
	if err != nil {
		return err
	}
	s.release(ctx, l)

	s.logger.Info("raid cancelled",
		zap.Int64("guild_id", guildID),
		zap.Int("members", len(l.members)))
	return nil
}

// take removes the lobby from the open set so nobody else can join or start it
func (s *service) take(guildID int64) (*lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lobbies[guildID]
	if !ok {
		return nil, dnderr.NotFoundf("no raid is open in guild %d", guildID).
			WithMeta("guild_id", guildID)
	}
	delete(s.lobbies, guildID)
	return l, nil
}

// release gives back every lease the lobby holds. Failures are logged: the
// leases expire on their own.
func (s *service) release(ctx context.Context, l *lobby) {
	tokens := make([]*lease.Token, 0, len(l.tokens)+1)
	for _, m := range l.members {
		tokens = append(tokens, l.tokens[m.PlayerID])
	}
	tokens = append(tokens, l.guildToken)

	for _, token := range tokens {
		if token == nil {
			continue
		}
		if err := s.leases.Release(ctx, token); err != nil {
			s.logger.Warn("failed to release raid lease",
				zap.String("key", token.Key),
				zap.Error(err))
		}
	}
}

func (s *service) Run(ctx context.Context, input *RunInput) (*Result, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	if _, err := s.Announce(ctx, &AnnounceInput{GuildID: input.GuildID}); err != nil {
		return nil, err
	}

	var skipped []int64
	for _, join := range input.Players {
		join.GuildID = input.GuildID
		if _, err := s.Join(ctx, &join); err != nil {
			if dnderr.IsConflict(err) || dnderr.IsAlreadyExists(err) || dnderr.IsFailedPrecondition(err) {
				s.logger.Info("player skipped from raid",
					zap.Int64("guild_id", input.GuildID),
					zap.Int64("player_id", join.PlayerID),
					zap.Error(err))
				skipped = append(skipped, join.PlayerID)
				continue
			}
			if cancelErr := s.Cancel(ctx, input.GuildID); cancelErr != nil {
				s.logger.Warn("failed to cancel raid", zap.Error(cancelErr))
			}
			return nil, err
		}
	}

	result, err := s.Start(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}
	result.Skipped = skipped
	return result, nil
}

func (s *service) AwaitStart(ctx context.Context, guildID int64) (*Result, error) {
	snapshot, err := s.Lobby(ctx, guildID)
	if err != nil {
		return nil, err
	}

	wait := snapshot.Deadline.Sub(s.now())
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			if err := s.Cancel(context.WithoutCancel(ctx), guildID); err != nil && !dnderr.IsNotFound(err) {
				s.logger.Warn("failed to cancel raid", zap.Error(err))
			}
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return s.Start(ctx, guildID)
}
