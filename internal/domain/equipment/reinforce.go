package equipment

import (
	"math"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
)

// DefaultMaxReinforcement is the reinforcement level past which attempts are refused
const DefaultMaxReinforcement = 25

// LegendaryDestroyRefund is paid on top of the sunk attempts when a legendary item breaks
const LegendaryDestroyRefund = 210

// Outcome is the result of one reinforcement attempt
type Outcome int

const (
	OutcomeSuccess Outcome = iota + 1
	OutcomeFailed
	OutcomeDowngraded
	OutcomeDestroyed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeDowngraded:
		return "downgraded"
	case OutcomeDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// SuccessChance is the probability that the next attempt raises the level
func (i *Item) SuccessChance() float64 {
	if i.Legendary() {
		return 0.5
	}
	return math.Max(0.03, 0.9-0.05*float64(i.Reinforced))
}

// Reinforce spends one attempt on the item. The caller pays the soul shard
// and handles removal when the item is destroyed.
func (i *Item) Reinforce(r dice.Roller) Outcome {
	i.ReinforceAttempts++

	var outcome Outcome
	if i.Legendary() {
		outcome = i.rollLegendary(r)
	} else {
		outcome = i.rollNormal(r)
	}

	switch outcome {
	case OutcomeSuccess:
		i.Reinforced++
	case OutcomeDowngraded:
		i.Reinforced = max(i.Reinforced-1, 0)
	}
	if outcome != OutcomeDestroyed {
		i.RefreshReinforcedStats()
	}

	return outcome
}

// DestroyRefund is the soul shard refund owed when this item is destroyed
func (i *Item) DestroyRefund() int {
	refund := i.ReinforceAttempts
	if i.Legendary() {
		refund += LegendaryDestroyRefund
	}
	return refund
}

// 50% success, 40% safe fail, 10% risky fail. Checkpoint levels never lose progress.
func (i *Item) rollLegendary(r dice.Roller) Outcome {
	roll := r.Float()
	if roll < 0.5 {
		return OutcomeSuccess
	}
	if roll < 0.9 {
		return OutcomeFailed
	}
	switch i.Reinforced {
	case 0, 5, 10, 15:
		return OutcomeFailed
	}
	if dice.Chance(r, math.Min(0.3, 0.05*float64(i.Reinforced))) {
		return OutcomeDestroyed
	}
	return OutcomeDowngraded
}

func (i *Item) rollNormal(r dice.Roller) Outcome {
	if dice.Chance(r, i.SuccessChance()) {
		return OutcomeSuccess
	}
	lvl := i.Reinforced
	if lvl <= 5 || lvl == 10 || lvl == 15 {
		return OutcomeFailed
	}
	destroy := math.Max(0, float64(min(3, lvl-10))*0.1)
	if dice.Chance(r, destroy) {
		return OutcomeDestroyed
	}
	return OutcomeDowngraded
}
