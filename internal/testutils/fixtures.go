package testutils

import (
	"strings"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
)

// NewTestItem creates a regular item without going through the catalog.
// Per-level stats are scaled by level the same way catalog items are.
func NewTestItem(id, name string, slot equipment.Slot, level int, perLevel stats.Block) *equipment.Item {
	return equipment.NewItem(id, &equipment.Template{
		Key:      strings.ToLower(strings.ReplaceAll(name, " ", "_")),
		Name:     name,
		Category: slot,
		Stats:    perLevel,
	}, level)
}

// NewTestPlayer creates a player at the given level with unspent points for every level and full health
func NewTestPlayer(id int64, name string, level int, now time.Time) *character.Player {
	p := character.NewPlayer(id, now)
	p.Name = name
	p.Level = max(level, 1)
	p.RemainStats = (p.Level - 1) * character.StatPointsPerLevel
	p.Health = p.MaxHealth()
	return p
}
