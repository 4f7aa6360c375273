package raid

import (
	"context"

	raidgame "github.com/KirkDiggler/dungeon-raid-bot/internal/domain/game/raid"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/lease"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/player"
	"go.uber.org/zap"
)

// Announce takes the guild lease for the whole raid, so a second announce
// conflicts until the first raid resolves or is cancelled.
func (s *service) Announce(ctx context.Context, input *AnnounceInput) (*Lobby, error) {
	if input == nil || input.GuildID == 0 {
		return nil, dnderr.InvalidArgument("guild ID is required")
	}
	guildID := input.GuildID

	token, err := s.leases.Acquire(ctx, lease.GuildKey(guildID), raidgame.ElitePrepTime+s.rules.LockTTL)
	if err != nil {
		if dnderr.IsConflict(err) {
			return nil, dnderr.Conflictf("a raid is already running in guild %d", guildID).
				WithMeta("guild_id", guildID)
		}
		return nil, dnderr.Wrap(err, "failed to lock guild")
	}

	mobLevel, err := s.mobLevel(ctx, guildID)
	if err != nil {
		s.releaseToken(ctx, token)
		return nil, err
	}

	tmpl := s.catalog.RandomMonster(s.roller)
	instance := raidgame.Generate(s.roller, tmpl, mobLevel)

	l := &lobby{
		guildID:    guildID,
		instance:   instance,
		deadline:   s.now().Add(instance.PrepTime),
		guildToken: token,
		tokens:     make(map[int64]*lease.Token),
	}

	s.mu.Lock()
	s.lobbies[guildID] = l
	snapshot := l.snapshot()
	s.mu.Unlock()

	s.logger.Info("raid announced",
		zap.Int64("guild_id", guildID),
		zap.String("monster", instance.DisplayName),
		zap.Int("level", instance.Monster.Level),
		zap.Bool("elite", instance.Monster.Elite),
		zap.Duration("prep_time", instance.PrepTime))

	return snapshot, nil
}

// mobLevel reads the guild's spawn level without creating the record
func (s *service) mobLevel(ctx context.Context, guildID int64) (int, error) {
	w, err := s.worlds.Get(ctx, guildID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return world.New(guildID, s.now()).MobLevel, nil
		}
		return 0, dnderr.Wrapf(err, "failed to load world %d", guildID).
			WithMeta("guild_id", guildID)
	}
	return w.MobLevel, nil
}

// Join makes sure the player exists before taking their lease; from then on
// item and progression commands for that player conflict until the raid ends.
func (s *service) Join(ctx context.Context, input *JoinInput) (*Lobby, error) {
	if input == nil || input.GuildID == 0 || input.PlayerID == 0 {
		return nil, dnderr.InvalidArgument("guild ID and player ID are required")
	}

	if err := s.checkJoinable(input); err != nil {
		return nil, err
	}

	p, err := s.playerService.Get(ctx, &player.GetInput{PlayerID: input.PlayerID, Name: input.Name})
	if err != nil {
		return nil, err
	}
	if p.Health <= 0 {
		return nil, dnderr.FailedPreconditionf("%s is too wounded to fight", displayName(input.Name, p.Name)).
			WithMeta("player_id", input.PlayerID)
	}

	token, err := s.leases.Acquire(ctx, lease.PlayerKey(input.PlayerID), raidgame.ElitePrepTime+s.rules.LockTTL)
	if err != nil {
		if dnderr.IsConflict(err) {
			return nil, dnderr.Conflictf("player %d is already in a raid", input.PlayerID).
				WithMeta("player_id", input.PlayerID)
		}
		return nil, dnderr.Wrap(err, "failed to lock player")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The lobby may have started or been cancelled while we were loading
	l, ok := s.lobbies[input.GuildID]
	if !ok || s.now().After(l.deadline) {
		s.releaseToken(ctx, token)
		return nil, dnderr.FailedPreconditionf("the join window in guild %d is closed", input.GuildID).
			WithMeta("guild_id", input.GuildID)
	}
	if _, joined := l.tokens[input.PlayerID]; joined {
		s.releaseToken(ctx, token)
		return nil, dnderr.AlreadyExistsf("player %d already joined", input.PlayerID)
	}

	l.tokens[input.PlayerID] = token
	l.members = append(l.members, Member{PlayerID: input.PlayerID, Name: displayName(input.Name, p.Name)})
	return l.snapshot(), nil
}

func (s *service) checkJoinable(input *JoinInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lobbies[input.GuildID]
	if !ok {
		return dnderr.NotFoundf("no raid is open in guild %d", input.GuildID).
			WithMeta("guild_id", input.GuildID)
	}
	if s.now().After(l.deadline) {
		return dnderr.FailedPreconditionf("the join window in guild %d is closed", input.GuildID).
			WithMeta("guild_id", input.GuildID)
	}
	if _, joined := l.tokens[input.PlayerID]; joined {
		return dnderr.AlreadyExistsf("player %d already joined", input.PlayerID).
			WithMeta("player_id", input.PlayerID)
	}
	return nil
}

func (s *service) releaseToken(ctx context.Context, token *lease.Token) {
	if err := s.leases.Release(ctx, token); err != nil {
		s.logger.Warn("failed to release lease", zap.String("key", token.Key), zap.Error(err))
	}
}

func displayName(preferred, stored string) string {
	if preferred != "" {
		return preferred
	}
	return stored
}
