package character_test

import (
	"testing"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type PlayerTestSuite struct {
	suite.Suite
	player *character.Player
}

func (s *PlayerTestSuite) SetupTest() {
	s.player = character.NewPlayer(42, epoch)
}

func TestPlayerTestSuite(t *testing.T) {
	suite.Run(t, new(PlayerTestSuite))
}

func (s *PlayerTestSuite) item(id string, slot equipment.Slot, level int, set equipment.Set) *equipment.Item {
	item := &equipment.Item{
		ID:       id,
		Name:     "Lv. test",
		Category: slot,
		Level:    level,
		Set:      set,
		Stats:    stats.Block{Str: 10, Con: 2},
	}
	s.Require().NoError(s.player.AddItem(item))
	return item
}

func (s *PlayerTestSuite) TestDefaults() {
	s.Equal(1, s.player.Level)
	s.Equal(character.JobNovice, s.player.Job)
	s.Equal(stats.Block{Str: 3, Dex: 3, Con: 3, Wis: 3, Luk: 5}, s.player.Stats)
	s.Equal(character.DefaultInventorySize, s.player.InventorySize)
	s.Equal(30, s.player.Health)
}

func (s *PlayerTestSuite) TestEquipIsIdempotent() {
	s.item("a", equipment.SlotWeapon, 1, equipment.SetNone)

	s.Require().NoError(s.player.Equip("a"))
	first := s.player.EquipmentStats

	s.Require().NoError(s.player.Equip("a"))

	s.Equal(first, s.player.EquipmentStats)
	s.Equal(13, s.player.Sheet().Strength())
}

func (s *PlayerTestSuite) TestEquipDoesNotDoubleCountBlessings() {
	for _, id := range []string{"h", "b", "g"} {
		slot := map[string]equipment.Slot{"h": equipment.SlotHead, "b": equipment.SlotBody, "g": equipment.SlotGloves}[id]
		s.item(id, slot, 1, equipment.SetBehemoth)
		s.Require().NoError(s.player.Equip(id))
	}
	before := s.player.EquipmentStats

	s.Require().NoError(s.player.Equip("h"))

	s.Equal(before, s.player.EquipmentStats)
	s.Equal([]string{"Behemoth's Frenzy I"}, s.player.Blessings)
}

func (s *PlayerTestSuite) TestEquipReplacesSlot() {
	s.item("a", equipment.SlotWeapon, 1, equipment.SetNone)
	s.item("b", equipment.SlotWeapon, 1, equipment.SetNone)

	s.Require().NoError(s.player.Equip("a"))
	s.Require().NoError(s.player.Equip("b"))

	s.Equal("b", s.player.Equipment[equipment.SlotWeapon])
	_, equipped := s.player.EquippedIn("a")
	s.False(equipped)
}

func (s *PlayerTestSuite) TestEquipLevelGate() {
	s.item("high", equipment.SlotRing, 12, equipment.SetNone)

	err := s.player.Equip("high")

	s.True(dnderr.IsFailedPrecondition(err))
	s.Empty(s.player.Equipment)
}

func (s *PlayerTestSuite) TestEquipUnknownItem() {
	s.True(dnderr.IsNotFound(s.player.Equip("missing")))
}

func (s *PlayerTestSuite) TestRemoveEquippedIsRejected() {
	s.item("a", equipment.SlotWeapon, 1, equipment.SetNone)
	s.Require().NoError(s.player.Equip("a"))

	_, err := s.player.RemoveItem("a")
	s.True(dnderr.IsFailedPrecondition(err))

	s.Require().NoError(s.player.Unequip("a"))
	removed, err := s.player.RemoveItem("a")
	s.Require().NoError(err)
	s.Equal("a", removed.ID)
	s.Empty(s.player.Inventory)
}

func (s *PlayerTestSuite) TestUnequipNotEquipped() {
	s.item("a", equipment.SlotWeapon, 1, equipment.SetNone)
	s.True(dnderr.IsFailedPrecondition(s.player.Unequip("a")))
}

func (s *PlayerTestSuite) TestDestroyItemUnequips() {
	s.item("a", equipment.SlotWeapon, 1, equipment.SetNone)
	s.item("b", equipment.SlotHead, 1, equipment.SetNone)
	s.Require().NoError(s.player.Equip("a"))

	s.player.DestroyItem("a")

	s.NotContains(s.player.Items, "a")
	s.Equal([]string{"b"}, s.player.Inventory)
	s.Empty(s.player.Equipment[equipment.SlotWeapon])
	s.Equal(stats.Block{}, s.player.EquipmentStats)
}

func (s *PlayerTestSuite) TestInventoryCapacity() {
	s.player.InventorySize = 1
	s.item("a", equipment.SlotWeapon, 1, equipment.SetNone)

	err := s.player.AddItem(&equipment.Item{ID: "b", Category: equipment.SlotHead})
	s.True(dnderr.IsFailedPrecondition(err))
}

func (s *PlayerTestSuite) TestCheckLevelUpConsumesSeveralLevels() {
	s.player.AddExp(character.ExpRequired(1) + character.ExpRequired(2) + 1)

	gained := s.player.CheckLevelUp(character.DefaultLevelCap)

	s.Equal(2, gained)
	s.Equal(3, s.player.Level)
	s.Equal(1, s.player.Exp)
	s.Equal(6, s.player.RemainStats)
}

func (s *PlayerTestSuite) TestCheckLevelUpStopsAtCap() {
	s.player.Level = 4
	s.player.AddExp(1_000_000)

	s.player.CheckLevelUp(5)

	s.Equal(5, s.player.Level)
}

func (s *PlayerTestSuite) TestAddStatPoints() {
	s.player.RemainStats = 5

	s.Require().NoError(s.player.AddStatPoints(stats.AttributeDexterity, 4))
	s.Equal(7, s.player.Stats.Dex)
	s.Equal(1, s.player.RemainStats)

	s.True(dnderr.IsFailedPrecondition(s.player.AddStatPoints(stats.AttributeDexterity, 2)))
	s.True(dnderr.IsInvalidArgument(s.player.AddStatPoints(stats.AttributeLuck, 1)))
	s.True(dnderr.IsInvalidArgument(s.player.AddStatPoints(stats.AttributeStrength, 0)))
}

func (s *PlayerTestSuite) TestResetAbilityPoints() {
	s.player.Level = 20
	s.player.Stats.Str = 40

	s.player.ResetAbilityPoints()

	s.Equal(10, s.player.Level)
	s.Equal(3, s.player.Stats.Str)
	s.Equal(27, s.player.RemainStats)
}

func (s *PlayerTestSuite) TestReborn() {
	s.item("a", equipment.SlotWeapon, 1, equipment.SetNone)
	s.Require().NoError(s.player.Equip("a"))
	s.player.Level = 200
	s.player.Stats = stats.Block{Str: 101, Dex: 50, Con: 20, Wis: 3, Luk: 5}
	s.player.KilledMobs = 9

	s.player.Reborn(&character.JobTemplate{Key: character.JobNovice, Name: "Novice", Mods: stats.DefaultModifiers()})

	s.Equal(1, s.player.Rebirth)
	s.Equal(1, s.player.Level)
	s.Equal(stats.Block{Str: 50, Dex: 25, Con: 10, Wis: 1, Luk: 15}, s.player.Potential)
	s.Equal(1, s.player.SoulShard)
	s.Equal(9, s.player.KilledMobs)
	s.Empty(s.player.Equipment)
	s.Contains(s.player.Items, "a")
	s.Equal(s.player.MaxHealth(), s.player.Health)
}

func (s *PlayerTestSuite) TestRefreshHealth() {
	s.player.Health = 0

	s.player.RefreshHealth(epoch.Add(20 * time.Second))

	s.Equal(15, s.player.Health)
	s.Equal(epoch.Add(20*time.Second), s.player.LastSeen)
}

func TestExpRequiredKnownValues(t *testing.T) {
	assert.Equal(t, 14, character.ExpRequired(1))
	assert.Equal(t, 35, character.ExpRequired(2))
	assert.Equal(t, 0, character.ExpRequired(0))
}

func TestExpRequiredStrictlyIncreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		level := rapid.IntRange(1, character.DefaultLevelCap).Draw(t, "level")
		if character.ExpRequired(level+1) <= character.ExpRequired(level) {
			t.Fatalf("exp curve not increasing at %d", level)
		}
	})
}

func TestCheckLevelUpNeverExceedsCap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		levelCap := rapid.IntRange(1, 60).Draw(t, "cap")
		p := character.NewPlayer(1, epoch)
		p.Level = rapid.IntRange(1, levelCap).Draw(t, "start")
		before := p.Level

		p.AddExp(rapid.IntRange(0, 10_000_000).Draw(t, "exp"))
		p.CheckLevelUp(levelCap)

		if p.Level < before || p.Level > levelCap {
			t.Fatalf("level %d outside [%d, %d]", p.Level, before, levelCap)
		}
	})
}

func TestParseJob(t *testing.T) {
	job, err := character.ParseJob("rogue")
	require.NoError(t, err)
	assert.Equal(t, character.JobRogue, job)

	_, err = character.ParseJob("bard")
	assert.Error(t, err)
}

func TestTemplatesValidate(t *testing.T) {
	job := &character.JobTemplate{Key: character.JobWizard, Name: "Wizard", Mods: stats.DefaultModifiers()}
	assert.NoError(t, job.Validate())

	job.Mods.Wis = 0
	assert.Error(t, job.Validate())

	monster := &character.MonsterTemplate{Key: "slime", Name: "Slime", Mods: stats.DefaultModifiers()}
	assert.NoError(t, monster.Validate())
	monster.Name = ""
	assert.Error(t, monster.Validate())
}
