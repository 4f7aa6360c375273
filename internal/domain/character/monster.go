package character

import (
	"fmt"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
)

// MonsterTemplate is the catalog archetype a raid monster is rolled from
type MonsterTemplate struct {
	Key         string          `yaml:"key"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Mods        stats.Modifiers `yaml:"mods"`
	Drops       []string        `yaml:"drops"`
}

// Validate checks that the archetype has a name and positive modifiers
func (t *MonsterTemplate) Validate() error {
	if t.Key == "" {
		return fmt.Errorf("monster template: key must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("monster template %q: name must not be empty", t.Key)
	}
	for _, a := range stats.Primaries {
		if t.Mods.Get(a) <= 0 {
			return fmt.Errorf("monster template %q: %s modifier must be > 0", t.Key, a)
		}
	}
	return nil
}

// Monster only lives for the duration of one raid
type Monster struct {
	Key         string
	Name        string
	Description string
	Level       int
	Elite       bool
	Stats       stats.Block
	Mods        stats.Modifiers
}

// Sheet exposes the monster to the stat formulas
func (m *Monster) Sheet() stats.Sheet {
	return stats.Sheet{
		Level: m.Level,
		Base:  m.Stats,
		Mods:  m.Mods,
	}
}
