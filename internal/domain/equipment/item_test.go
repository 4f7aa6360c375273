package equipment_test

import (
	"testing"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func woodStick() *equipment.Template {
	return &equipment.Template{
		Key:      "wood_stick",
		Name:     "Wood Stick",
		Category: equipment.SlotWeapon,
		Stats:    stats.Block{Str: 2, Dex: 1},
	}
}

func TestNewItemScalesByLevel(t *testing.T) {
	item := equipment.NewItem("id-1", woodStick(), 4)

	assert.Equal(t, "Lv. 4 Wood Stick", item.Name)
	assert.Equal(t, 4, item.Level)
	assert.Equal(t, stats.Block{Str: 8, Dex: 4}, item.Stats)
	assert.Equal(t, stats.Block{}, item.ReinforcedStats)
}

func TestNewItemLegendaryKeepsTemplateLevel(t *testing.T) {
	tmpl := &equipment.Template{
		Key:      "behemoth_horn",
		Name:     "Behemoth Horn",
		Category: equipment.SlotHead,
		Level:    60,
		Stats:    stats.Block{Str: 120},
		Set:      equipment.SetBehemoth,
	}

	item := equipment.NewItem("id-2", tmpl, 3)

	assert.Equal(t, 60, item.Level)
	assert.Equal(t, 120, item.Stats.Str)
	assert.True(t, item.Legendary())
}

func TestRefreshReinforcedStatsSteps(t *testing.T) {
	item := equipment.NewItem("id", woodStick(), 10)
	require.Equal(t, 20, item.Stats.Str)

	tests := []struct {
		level int
		want  int
	}{
		{level: 0, want: 0},
		{level: 4, want: 18},
		{level: 12, want: 72},
		{level: 18, want: 135},
		{level: 22, want: 198},
	}
	for _, tt := range tests {
		item.Reinforced = tt.level
		item.RefreshReinforcedStats()
		assert.Equal(t, tt.want, item.ReinforcedStats.Str, "level %d", tt.level)
	}
}

func TestTemplateValidate(t *testing.T) {
	assert.NoError(t, woodStick().Validate())

	bad := woodStick()
	bad.Category = "tail"
	assert.Error(t, bad.Validate())

	bad = woodStick()
	bad.Set = equipment.SetTiamat
	assert.Error(t, bad.Validate(), "legendary templates need a fixed level")
}

func TestLoadoutBlessingTiers(t *testing.T) {
	piece := func(set equipment.Set, str int) *equipment.Item {
		return &equipment.Item{Set: set, Stats: stats.Block{Str: str}}
	}

	t.Run("no set bonus below three pieces", func(t *testing.T) {
		total, names := equipment.Loadout([]*equipment.Item{
			piece(equipment.SetBehemoth, 10), piece(equipment.SetBehemoth, 10), nil,
		})
		assert.Equal(t, 20, total.Str)
		assert.Empty(t, names)
	})

	t.Run("three behemoth pieces", func(t *testing.T) {
		items := []*equipment.Item{
			piece(equipment.SetBehemoth, 10), piece(equipment.SetBehemoth, 10), piece(equipment.SetBehemoth, 10),
		}
		total, names := equipment.Loadout(items)
		assert.Equal(t, 368, total.Str)
		assert.Equal(t, []string{"Behemoth's Frenzy I"}, names)
	})

	t.Run("eight behemoth pieces", func(t *testing.T) {
		items := make([]*equipment.Item, 8)
		for i := range items {
			items[i] = piece(equipment.SetBehemoth, 0)
		}
		total, names := equipment.Loadout(items)
		assert.Equal(t, 750, total.Dex)
		assert.Equal(t, []string{"Behemoth's Frenzy III"}, names)
	})

	t.Run("reinforced stats count", func(t *testing.T) {
		item := piece(equipment.SetNone, 10)
		item.ReinforcedStats = stats.Block{Str: 5}
		total, _ := equipment.Loadout([]*equipment.Item{item})
		assert.Equal(t, 15, total.Str)
	})
}
