package raid

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
)

const (
	// EliteChance is the probability a spawn is elite
	EliteChance = 0.1

	// EliteLevelBonus is added to an elite's level
	EliteLevelBonus = 10

	// NormalPrepTime is the join window for a regular monster
	NormalPrepTime = 50 * time.Second

	// ElitePrepTime is the join window for an elite
	ElitePrepTime = 90 * time.Second

	// NoDropPadding is how many empty entries dilute a regular monster's drop table
	NoDropPadding = 37

	normalHint = "The passage ahead looks dangerous!"
)

var elitePrefixes = map[stats.Attribute]string{
	stats.AttributeStrength:     "Mighty",
	stats.AttributeDexterity:    "Swift",
	stats.AttributeConstitution: "Hulking",
	stats.AttributeWisdom:       "Arcane",
}

// Instance is a rolled monster waiting for a party
type Instance struct {
	Monster     *character.Monster
	DisplayName string
	Hint        string
	PrepTime    time.Duration

	// Drop is the catalog key of the guaranteed loot, empty for none
	Drop string
}

// Generate rolls a monster of the given spawn level from an archetype
func Generate(r dice.Roller, t *character.MonsterTemplate, level int) *Instance {
	level = max(level, 1)

	baseline := max(int(float64(level)*0.6), 1)
	block := stats.Block{Str: baseline, Dex: baseline, Con: baseline, Wis: baseline}
	for i := 0; i < level; i++ {
		block.Add(stats.Primaries[r.Intn(len(stats.Primaries))], 1)
	}

	m := &character.Monster{
		Key:         t.Key,
		Name:        t.Name,
		Description: t.Description,
		Level:       level,
		Mods:        t.Mods,
	}
	inst := &Instance{
		Monster:  m,
		Hint:     normalHint,
		PrepTime: NormalPrepTime,
	}

	if dice.Chance(r, EliteChance) {
		attr := stats.Primaries[r.Intn(len(stats.Primaries))]
		block.Set(attr, int(float64(block.Get(attr))*1.2))

		prefix := elitePrefixes[block.Highest()]
		m.Elite = true
		m.Level += EliteLevelBonus
		m.Name = fmt.Sprintf("%s %s", prefix, t.Name)
		inst.Hint = fmt.Sprintf("You sense a %s presence ahead!", prefix)
		inst.PrepTime = ElitePrepTime
		if len(t.Drops) > 0 {
			inst.Drop = t.Drops[r.Intn(len(t.Drops))]
		}
	} else if pick := r.Intn(len(t.Drops) + NoDropPadding); pick < len(t.Drops) {
		inst.Drop = t.Drops[pick]
	}

	m.Stats = block
	inst.DisplayName = m.Name
	return inst
}
