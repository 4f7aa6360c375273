package raid

import (
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/game/combat"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
)

// Rules are the tunable reward constants
type Rules struct {
	ExpMultiplier     float64
	PlayerLevelCap    int
	GuildLevelCap     int
	SoulShardChance   float64
	SoulShardMinLevel int
}

// DefaultRules returns the stock reward constants
func DefaultRules() Rules {
	return Rules{
		ExpMultiplier:     1.5,
		PlayerLevelCap:    character.DefaultLevelCap,
		GuildLevelCap:     world.DefaultLevelCap,
		SoulShardChance:   0.04,
		SoulShardMinLevel: 45,
	}
}

// Pools is how the victory experience was carved up. Total is Base plus
// Contribution. PremiumBonus is paid with the base shares on top of Total.
type Pools struct {
	Total        int
	Base         int
	Contribution int
	KillerBonus  int
	PremiumBonus int
}

// PlayerReward is what one participant earned
type PlayerReward struct {
	PlayerID        int64
	BaseExp         int
	ContributionExp int
	KillerExp       int
	LevelsGained    int
	SoulShard       bool
}

// Exp is the total experience granted
func (p PlayerReward) Exp() int {
	return p.BaseExp + p.ContributionExp + p.KillerExp
}

// Loot is the drop handed to one participant
type Loot struct {
	PlayerID int64
	Item     *equipment.Item

	// Lost is set when the recipient's inventory was full
	Lost bool
}

// Settlement is the outcome applied to the records
type Settlement struct {
	Victory        bool
	Pools          Pools
	Players        []PlayerReward
	GuildExp       int
	GuildLevels    int
	Loot           *Loot
	MobLevelBefore int
	MobLevelAfter  int
}

// SettleInput is everything reward distribution reads and mutates
type SettleInput struct {
	Result *combat.Result

	// Players are in the same order as Result.Participants
	Players  []*character.Player
	World    *world.World
	Instance *Instance

	// DropTemplate is the catalog entry for Instance.Drop, nil when nothing dropped
	DropTemplate *equipment.Template
	NewItemID    string

	Now   time.Time
	Rules Rules
}

// Settle applies a finished fight to the player and guild records in memory.
// Health is carried over for both outcomes; everything else is only granted on victory.
// The guild difficulty streak is updated either way.
func Settle(r dice.Roller, in *SettleInput) *Settlement {
	res := in.Result
	out := &Settlement{
		Victory:        res.Victory,
		MobLevelBefore: in.World.MobLevel,
	}

	for i, p := range in.Players {
		p.Health = res.Participants[i].Health
		p.LastSeen = in.Now
	}

	if res.Victory {
		settleVictory(r, in, out)
	}

	in.World.RecordRaid(res.Victory)
	in.World.LastActive = in.Now
	out.MobLevelAfter = in.World.MobLevel
	return out
}

// SplitPools divides the victory experience. The contribution pool is never
// smaller than the number of participants so everyone gets at least 1.
func SplitPools(monsterMaxHealth, participants, premiumTier int, multiplier float64) Pools {
	raw := int(float64(monsterMaxHealth) * multiplier)
	base := max(int(float64(raw)*0.6), 1)
	contribution := max(raw-base, participants)
	return Pools{
		Total:        base + contribution,
		Base:         base,
		Contribution: contribution,
		KillerBonus:  int(float64(raw) * 0.08),
		PremiumBonus: base * max(premiumTier, 0) * 5 / 100,
	}
}

// ShareExp splits the base pool and premium bonus by luck and the contribution
// pool by damage. Only positive damage earns a contribution share.
func ShareExp(pools Pools, luck, damage []int) (base, contribution []int) {
	n := len(luck)
	base = make([]int, n)
	contribution = make([]int, n)

	luckTotal, damageTotal := 0, 0
	for i := 0; i < n; i++ {
		luckTotal += max(luck[i], 0)
		damageTotal += max(damage[i], 0)
	}

	spare := max(pools.Contribution-n, 0)
	byLuck := pools.Base + pools.PremiumBonus
	for i := 0; i < n; i++ {
		if luckTotal > 0 {
			base[i] = int(float64(byLuck) * float64(max(luck[i], 0)) / float64(luckTotal))
		}
		contribution[i] = 1
		if damageTotal > 0 && damage[i] > 0 {
			contribution[i] += int(float64(spare) * float64(damage[i]) / float64(damageTotal))
		}
	}
	return base, contribution
}

func settleVictory(r dice.Roller, in *SettleInput, out *Settlement) {
	res := in.Result
	rules := in.Rules
	monster := in.Instance.Monster

	in.World.KilledMobs++

	out.Pools = SplitPools(res.MonsterMaxHealth, len(in.Players), in.World.PremiumTier, rules.ExpMultiplier)

	luck := make([]int, len(in.Players))
	damage := make([]int, len(in.Players))
	for i, p := range in.Players {
		luck[i] = p.Sheet().Luck()
		damage[i] = res.Participants[i].Damage
	}
	base, contribution := ShareExp(out.Pools, luck, damage)

	for i, p := range in.Players {
		part := res.Participants[i]
		reward := PlayerReward{
			PlayerID:        p.ID,
			BaseExp:         base[i],
			ContributionExp: contribution[i],
		}
		if res.HasKiller && res.KillerID == p.ID {
			reward.KillerExp = out.Pools.KillerBonus
		}

		p.Chest++
		p.KilledMobs++
		p.TotalDamage += max(part.Damage, 0)
		p.MaxDamage = max(p.MaxDamage, part.BestHit)
		p.AddExp(reward.Exp())
		reward.LevelsGained = p.CheckLevelUp(rules.PlayerLevelCap)

		if monster.Level >= rules.SoulShardMinLevel && dice.Chance(r, rules.SoulShardChance) {
			p.SoulShard++
			reward.SoulShard = true
		}
		out.Players = append(out.Players, reward)
	}

	out.GuildExp = int(float64(character.ExpRequired(monster.Level)) * 0.1)
	in.World.AddExp(out.GuildExp)
	out.GuildLevels = in.World.CheckLevelUp(rules.GuildLevelCap)

	if in.Instance.Drop != "" && in.DropTemplate != nil {
		out.Loot = awardLoot(r, in)
	}
}

// awardLoot hands the drop to a petty-weighted living participant. If nobody
// survived, everyone is eligible.
func awardLoot(r dice.Roller, in *SettleInput) *Loot {
	var eligible []*character.Player
	for i, p := range in.Players {
		if in.Result.Participants[i].Alive() {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		eligible = in.Players
	}
	if len(eligible) == 0 {
		return nil
	}

	weights := make([]int, len(eligible))
	for i, p := range eligible {
		weights[i] = p.Petty
	}
	winner := eligible[dice.Weighted(r, weights)]
	for _, p := range eligible {
		if p == winner {
			p.Petty = 0
		} else {
			p.Petty++
		}
	}

	item := equipment.NewItem(in.NewItemID, in.DropTemplate, in.Instance.Monster.Level)
	loot := &Loot{PlayerID: winner.ID, Item: item}
	if err := winner.AddItem(item); err != nil {
		loot.Lost = true
	}
	return loot
}
