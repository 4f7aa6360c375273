package world

import (
	"math"
	"time"
)

const (
	// DefaultLevelCap is the highest guild level
	DefaultLevelCap = 100

	// DifficultyGrace is how many wins in a row are free before spawn level climbs
	DifficultyGrace = 3

	// MobLevelFactor bounds spawn level at guild level × factor
	MobLevelFactor = 50
)

// World is the persistent per-guild record
type World struct {
	ID                 int64
	Name               string
	Level              int
	Exp                int
	KilledMobs         int
	MobLevel           int
	PremiumTier        int
	AdventureChannelID string
	Status             string
	Colour             string
	LastActive         time.Time

	// RaidStreak holds the current run of identical raid outcomes
	RaidStreak []bool
}

// New builds a fresh level 1 guild
func New(id int64, now time.Time) *World {
	return &World{
		ID:         id,
		Level:      1,
		MobLevel:   1,
		LastActive: now,
	}
}

// ExpRequired is the guild experience curve
func ExpRequired(level int) int {
	l := float64(level)
	return int(math.Round(
		22.069*math.Pow(l, 7) +
			42.069*math.Pow(l, 5) +
			69.69*math.Pow(l, 4) +
			74.8*math.Pow(l, 3) +
			97.5*math.Pow(l, 2) +
			116.55*l,
	))
}

// AddExp grants guild experience
func (w *World) AddExp(exp int) {
	if exp > 0 {
		w.Exp += exp
	}
}

// CheckLevelUp consumes experience for as many levels as it covers, stopping at levelCap
func (w *World) CheckLevelUp(levelCap int) int {
	gained := 0
	for w.Level < levelCap && w.Exp >= ExpRequired(w.Level) {
		w.Exp -= ExpRequired(w.Level)
		w.Level++
		gained++
	}
	return gained
}

// MaxMobLevel is the ceiling for spawn level at the current guild level
func (w *World) MaxMobLevel() int {
	return max(w.Level*MobLevelFactor, 1)
}

// RecordRaid extends or restarts the outcome streak and moves the spawn level.
// Win streaks beyond the grace window push the level up by the streak length,
// loss streaks pull it down by the full length.
func (w *World) RecordRaid(victory bool) {
	if len(w.RaidStreak) == 0 || w.RaidStreak[0] == victory {
		w.RaidStreak = append(w.RaidStreak, victory)
	} else {
		w.RaidStreak = []bool{victory}
	}

	streak := len(w.RaidStreak)
	if victory {
		w.MobLevel += max(streak-DifficultyGrace, 0)
	} else {
		w.MobLevel -= streak
	}
	w.MobLevel = min(max(w.MobLevel, 1), w.MaxMobLevel())
}
