package equipment

import (
	"fmt"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
)

// Template is a catalog entry an Item is copied from.
// Regular templates hold per-level stats; legendary templates hold final stats at a fixed level.
type Template struct {
	Key         string      `yaml:"key"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Category    Slot        `yaml:"category"`
	Level       int         `yaml:"level"`
	Stats       stats.Block `yaml:"stats"`
	Set         Set         `yaml:"set"`
}

// Validate checks that the template can produce a usable item
func (t *Template) Validate() error {
	if t.Key == "" {
		return fmt.Errorf("item template: key must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("item template %q: name must not be empty", t.Key)
	}
	if !t.Category.Valid() {
		return fmt.Errorf("item template %q: unknown category %q", t.Key, t.Category)
	}
	if !t.Set.Valid() {
		return fmt.Errorf("item template %q: unknown set %q", t.Key, t.Set)
	}
	if t.Set.Legendary() && t.Level < 1 {
		return fmt.Errorf("item template %q: legendary items need a level >= 1", t.Key)
	}
	return nil
}

// Item is an owned piece of gear
type Item struct {
	ID                string
	Key               string
	Name              string
	Description       string
	Category          Slot
	Level             int
	Stats             stats.Block
	Set               Set
	Reinforced        int
	ReinforceAttempts int
	ReinforcedStats   stats.Block
}

// NewItem copies a template into a fresh item. Regular items scale their stats by level;
// legendary items keep the template level and stats.
func NewItem(id string, t *Template, level int) *Item {
	item := &Item{
		ID:          id,
		Key:         t.Key,
		Description: t.Description,
		Category:    t.Category,
		Set:         t.Set,
	}

	if t.Set.Legendary() {
		item.Level = t.Level
		item.Stats = t.Stats
	} else {
		item.Level = max(level, 1)
		item.Stats = t.Stats.Scale(float64(item.Level))
	}
	item.Name = fmt.Sprintf("Lv. %d %s", item.Level, t.Name)
	item.RefreshReinforcedStats()

	return item
}

// Legendary reports whether the item belongs to a legendary set
func (i *Item) Legendary() bool {
	return i.Set.Legendary()
}

// Total is the item's contribution to the wearer's equipment block
func (i *Item) Total() stats.Block {
	return i.Stats.Plus(i.ReinforcedStats)
}

// RefreshReinforcedStats recomputes the bonus block from the reinforcement level.
// Rates are kept in integer thousandths so results truncate exactly.
func (i *Item) RefreshReinforcedStats() {
	base := 15
	if i.Legendary() {
		base = 30
	}
	var step int
	switch {
	case i.Reinforced <= 10:
		step = 15
	case i.Reinforced <= 15:
		step = 20
	case i.Reinforced <= 20:
		step = 25
	default:
		step = 30
	}

	scale := func(v int) int { return v * i.Reinforced * base * step / 1000 }
	i.ReinforcedStats = stats.Block{
		Str: scale(i.Stats.Str),
		Dex: scale(i.Stats.Dex),
		Con: scale(i.Stats.Con),
		Wis: scale(i.Stats.Wis),
	}
}

// Clone returns an independent copy
func (i *Item) Clone() *Item {
	c := *i
	return &c
}
