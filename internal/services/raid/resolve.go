package raid

import (
	"context"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/game/combat"
	raidgame "github.com/KirkDiggler/dungeon-raid-bot/internal/domain/game/raid"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Start resolves the lobby. Leases are released on every path out.
func (s *service) Start(ctx context.Context, guildID int64) (*Result, error) {
	l, err := s.take(guildID)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, l)

	if len(l.members) == 0 {
		s.logger.Info("raid cancelled, nobody joined",
			zap.Int64("guild_id", guildID),
			zap.String("monster", l.instance.DisplayName))
		return &Result{GuildID: guildID, Instance: l.instance, Cancelled: true}, nil
	}

	return s.execute(ctx, l)
}

// execute loads every record once, fights, settles in memory and writes each record back once
func (s *service) execute(ctx context.Context, l *lobby) (*Result, error) {
	w, roster, err := s.load(ctx, l)
	if err != nil {
		return nil, err
	}

	now := s.now()
	participants := make([]combat.Participant, len(roster))
	for i, p := range roster {
		p.RefreshHealth(now)
		participants[i] = combat.Participant{
			ID:          p.ID,
			Name:        l.members[i].Name,
			Job:         p.Job,
			Sheet:       p.Sheet(),
			Health:      p.Health,
			RemainStats: p.RemainStats,
		}
	}

	engine := combat.NewEngine(&combat.EngineConfig{
		Roller:    s.roller,
		MaxRounds: s.rules.MaxRounds,
	})
	fight := engine.Resolve(participants, l.instance.Monster)

	var drop *equipment.Template
	if l.instance.Drop != "" {
		drop, err = s.catalog.Item(l.instance.Drop)
		if err != nil {
			s.logger.Warn("raid drop missing from catalog",
				zap.String("drop", l.instance.Drop),
				zap.Error(err))
		}
	}

	settlement := raidgame.Settle(s.roller, &raidgame.SettleInput{
		Result:       fight,
		Players:      roster,
		World:        w,
		Instance:     l.instance,
		DropTemplate: drop,
		NewItemID:    s.uuid.New(),
		Now:          now,
		Rules:        s.rules.Rewards,
	})

	if err := s.save(ctx, w, roster); err != nil {
		return nil, err
	}

	s.logOutcome(l, fight, settlement)

	return &Result{
		GuildID:    l.guildID,
		Instance:   l.instance,
		Combat:     fight,
		Settlement: settlement,
	}, nil
}

// load reads the guild and every member in parallel. The roster keeps member order.
func (s *service) load(ctx context.Context, l *lobby) (*world.World, []*character.Player, error) {
	var w *world.World
	roster := make([]*character.Player, len(l.members))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := s.worlds.Get(gctx, l.guildID)
		if dnderr.IsNotFound(err) {
			w = world.New(l.guildID, s.now())
			return nil
		}
		if err != nil {
			return dnderr.Wrapf(err, "failed to load world %d", l.guildID)
		}
		w = loaded
		return nil
	})
	for i, m := range l.members {
		g.Go(func() error {
			p, err := s.players.Get(gctx, m.PlayerID)
			if err != nil {
				return dnderr.Wrapf(err, "failed to load player %d", m.PlayerID).
					WithMeta("player_id", m.PlayerID)
			}
			if m.Name != "" {
				p.Name = m.Name
			}
			roster[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return w, roster, nil
}

func (s *service) save(ctx context.Context, w *world.World, roster []*character.Player) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.worlds.Put(gctx, w)
	})
	for _, p := range roster {
		g.Go(func() error {
			return s.players.Put(gctx, p)
		})
	}
	if err := g.Wait(); err != nil {
		return dnderr.Wrap(err, "failed to save raid results")
	}
	return nil
}

func (s *service) logOutcome(l *lobby, fight *combat.Result, settlement *raidgame.Settlement) {
	fields := []zap.Field{
		zap.Int64("guild_id", l.guildID),
		zap.String("monster", l.instance.DisplayName),
		zap.Int("level", l.instance.Monster.Level),
		zap.Bool("victory", fight.Victory),
		zap.Int("rounds", fight.Rounds),
		zap.Int("participants", len(fight.Participants)),
		zap.Int("damage", fight.TotalDamage()),
		zap.Int("mob_level", settlement.MobLevelAfter),
	}
	if fight.HasKiller {
		fields = append(fields, zap.Int64("killer_id", fight.KillerID))
	}
	s.logger.Info("raid resolved", fields...)

	if loot := settlement.Loot; loot != nil && loot.Lost {
		s.logger.Info("raid loot lost to a full inventory",
			zap.Int64("guild_id", l.guildID),
			zap.Int64("player_id", loot.PlayerID),
			zap.String("item", loot.Item.Name))
	}
}
