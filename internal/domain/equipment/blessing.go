package equipment

import (
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
)

type blessingTier struct {
	pieces int
	apply  func(b *stats.Block)
}

type blessing struct {
	set   Set
	name  string
	tiers []blessingTier
}

// Sets are evaluated in this order so stacked bonuses are deterministic
var blessings = []blessing{
	{
		set:  SetBehemoth,
		name: "Behemoth's Frenzy",
		tiers: []blessingTier{
			{pieces: 3, apply: func(b *stats.Block) { b.Str = (b.Str + 200) * 16 / 10 }},
			{pieces: 6, apply: func(b *stats.Block) { b.Dex += 300 }},
			{pieces: 8, apply: func(b *stats.Block) { b.Dex = b.Dex * 25 / 10 }},
		},
	},
	{
		set:  SetLeviathan,
		name: "Leviathan's Pride",
		tiers: []blessingTier{
			{pieces: 3, apply: func(b *stats.Block) { b.Con = (b.Con + 200) * 11 / 10 }},
			{pieces: 6, apply: func(b *stats.Block) { b.Wis += 300 }},
			{pieces: 8, apply: func(b *stats.Block) { b.Wis = b.Wis * 21 / 10 }},
		},
	},
	{
		set:  SetTiamat,
		name: "Tiamat's Arrogance",
		tiers: []blessingTier{
			{pieces: 3, apply: func(b *stats.Block) { b.Str = (b.Str + 200) * 19 / 10 }},
			{pieces: 6, apply: func(b *stats.Block) { b.Con += 300 }},
			{pieces: 8, apply: func(b *stats.Block) { b.Con = b.Con * 19 / 10 }},
		},
	},
}

var tierNames = []string{"I", "II", "III"}

// Loadout sums equipped items and applies set blessings.
// It returns the equipment block and the names of active blessings.
func Loadout(equipped []*Item) (stats.Block, []string) {
	var total stats.Block
	counts := make(map[Set]int)

	for _, item := range equipped {
		if item == nil {
			continue
		}
		total = total.Plus(item.Total())
		if item.Legendary() {
			counts[item.Set]++
		}
	}

	var active []string
	for _, b := range blessings {
		reached := -1
		for i, tier := range b.tiers {
			if counts[b.set] < tier.pieces {
				break
			}
			tier.apply(&total)
			reached = i
		}
		if reached >= 0 {
			active = append(active, b.name+" "+tierNames[reached])
		}
	}

	return total, active
}
