package world_test

import (
	"testing"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRecordRaidWinStreak(t *testing.T) {
	w := world.New(1, time.Now())
	w.MobLevel = 10

	for i := 0; i < 3; i++ {
		w.RecordRaid(true)
	}
	assert.Equal(t, 10, w.MobLevel, "grace window absorbs the first three wins")

	w.RecordRaid(true)
	assert.Equal(t, 11, w.MobLevel)

	w.RecordRaid(true)
	assert.Equal(t, 13, w.MobLevel)
}

func TestRecordRaidLossResetsStreak(t *testing.T) {
	w := world.New(1, time.Now())
	w.MobLevel = 20
	w.RaidStreak = []bool{true, true, true, true}

	w.RecordRaid(false)
	assert.Equal(t, []bool{false}, w.RaidStreak)
	assert.Equal(t, 19, w.MobLevel)

	w.RecordRaid(false)
	assert.Equal(t, 17, w.MobLevel)
}

func TestRecordRaidClampsToGuildLevel(t *testing.T) {
	w := world.New(1, time.Now())
	w.MobLevel = 50
	w.RaidStreak = []bool{true, true, true, true, true, true}

	w.RecordRaid(true)

	assert.Equal(t, 50, w.MobLevel)
}

func TestMobLevelAlwaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := world.New(1, time.Now())
		w.Level = rapid.IntRange(1, world.DefaultLevelCap).Draw(t, "level")
		w.MobLevel = rapid.IntRange(1, w.MaxMobLevel()).Draw(t, "mob_level")

		outcomes := rapid.SliceOfN(rapid.Bool(), 1, 50).Draw(t, "outcomes")
		for _, victory := range outcomes {
			w.RecordRaid(victory)
			if w.MobLevel < 1 || w.MobLevel > w.MaxMobLevel() {
				t.Fatalf("mob level %d outside [1, %d]", w.MobLevel, w.MaxMobLevel())
			}
		}
	})
}

func TestWorldLevelUp(t *testing.T) {
	w := world.New(1, time.Now())
	w.AddExp(world.ExpRequired(1) + 5)

	assert.Equal(t, 1, w.CheckLevelUp(world.DefaultLevelCap))
	assert.Equal(t, 2, w.Level)
	assert.Equal(t, 5, w.Exp)
}

func TestWorldExpStrictlyIncreasing(t *testing.T) {
	for level := 1; level < world.DefaultLevelCap; level++ {
		assert.Greater(t, world.ExpRequired(level+1), world.ExpRequired(level))
	}
}
