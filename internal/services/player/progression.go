package player

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"go.uber.org/zap"
)

// MaxStatusLength bounds the profile status line
const MaxStatusLength = 100

// ChangeJobInput names the job to advance into
type ChangeJobInput struct {
	PlayerID int64
	Job      string
}

// ChangeJobOutput reports whether leaving the old job cost a stat reset
type ChangeJobOutput struct {
	Player     *character.Player
	StatsReset bool
}

// AddStatsInput spends Points on Stat
type AddStatsInput struct {
	PlayerID int64
	Stat     string
	Points   int
}

// CosmeticInput carries a new status line or colour
type CosmeticInput struct {
	PlayerID int64
	Value    string
}

// ChangeJob moves a player into a new job. Leaving any job other than novice
// resets trained stats.
func (s *service) ChangeJob(ctx context.Context, input *ChangeJobInput) (*ChangeJobOutput, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	job, err := character.ParseJob(strings.ToLower(input.Job))
	if err != nil {
		return nil, dnderr.InvalidArgumentf("unknown job %q", input.Job)
	}
	tmpl, err := s.catalog.Job(job)
	if err != nil {
		return nil, err
	}

	out := &ChangeJobOutput{}
	out.Player, err = s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		switch {
		case p.Job == job:
			return dnderr.FailedPreconditionf("already a %s", tmpl.Name)
		case p.Level < s.rules.JobMinLevel:
			return dnderr.FailedPreconditionf("job advancement unlocks at level %d", s.rules.JobMinLevel)
		}

		if p.Job != character.JobNovice {
			p.ResetAbilityPoints()
			out.StatsReset = true
		}
		p.SetJob(tmpl)

		s.logger.Info("player changed job",
			zap.Int64("player_id", p.ID),
			zap.String("job", string(job)),
			zap.Bool("stats_reset", out.StatsReset))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) AddStats(ctx context.Context, input *AddStatsInput) (*character.Player, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	attr, ok := stats.ParseAttribute(strings.ToLower(input.Stat))
	if !ok {
		return nil, dnderr.InvalidArgumentf("unknown stat %q", input.Stat)
	}

	return s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		return p.AddStatPoints(attr, input.Points)
	})
}

func (s *service) ResetStats(ctx context.Context, input *PlayerInput) (*character.Player, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}

	return s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		if p.Level < s.rules.ResetMinLevel {
			return dnderr.FailedPreconditionf("stat reset unlocks at level %d", s.rules.ResetMinLevel)
		}
		p.ResetAbilityPoints()
		return nil
	})
}

func (s *service) Rebirth(ctx context.Context, input *PlayerInput) (*character.Player, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	novice, err := s.catalog.Job(character.JobNovice)
	if err != nil {
		return nil, err
	}

	return s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		if p.Level < s.rules.LevelCap {
			return dnderr.FailedPreconditionf("rebirth requires level %d", s.rules.LevelCap)
		}
		p.Reborn(novice)

		s.logger.Info("player reborn",
			zap.Int64("player_id", p.ID),
			zap.Int("rebirth", p.Rebirth))
		return nil
	})
}

func (s *service) SetStatus(ctx context.Context, input *CosmeticInput) (*character.Player, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	status := strings.TrimSpace(input.Value)
	if utf8.RuneCountInString(status) > MaxStatusLength {
		return nil, dnderr.InvalidArgumentf("status must be at most %d characters", MaxStatusLength)
	}

	return s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		if err := s.cosmeticUnlocked(p); err != nil {
			return err
		}
		p.Status = status
		return nil
	})
}

func (s *service) SetColour(ctx context.Context, input *CosmeticInput) (*character.Player, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input is required")
	}
	colour, err := NormalizeColour(input.Value)
	if err != nil {
		return nil, err
	}

	return s.mutatePlayer(ctx, input.PlayerID, func(p *character.Player) error {
		if err := s.cosmeticUnlocked(p); err != nil {
			return err
		}
		p.Colour = colour
		return nil
	})
}

func (s *service) cosmeticUnlocked(p *character.Player) error {
	if p.Level < s.rules.CosmeticMinLevel && p.Rebirth == 0 {
		return dnderr.FailedPreconditionf("profile customization unlocks at level %d", s.rules.CosmeticMinLevel)
	}
	return nil
}

// NormalizeColour accepts "#rrggbb" or "rrggbb" and returns the lower-case "#rrggbb" form
func NormalizeColour(value string) (string, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) != 6 {
		return "", dnderr.InvalidArgumentf("colour %q must be six hex digits", value)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", dnderr.InvalidArgumentf("colour %q must be six hex digits", value)
	}
	return "#" + strings.ToLower(hex), nil
}
