package stats

import (
	"math"
	"time"
)

// RegenInterval is the real-time period Regen is measured over
const RegenInterval = 10 * time.Second

const (
	minAccuracy = 0.25
	maxAccuracy = 2.0
)

// Sheet is everything needed to derive combat numbers for a combatant.
// Potential and Equipment are added after the modifier is applied.
type Sheet struct {
	Level     int
	Base      Block
	Potential Block
	Equipment Block
	Mods      Modifiers
}

// Effective returns the final value of an attribute, never below 1
func (s Sheet) Effective(a Attribute) int {
	v := int(float64(s.Base.Get(a))*s.Mods.Get(a)) + s.Potential.Get(a) + s.Equipment.Get(a)
	return max(v, 1)
}

func (s Sheet) Strength() int     { return s.Effective(AttributeStrength) }
func (s Sheet) Dexterity() int    { return s.Effective(AttributeDexterity) }
func (s Sheet) Constitution() int { return s.Effective(AttributeConstitution) }
func (s Sheet) Wisdom() int       { return s.Effective(AttributeWisdom) }
func (s Sheet) Luck() int         { return s.Effective(AttributeLuck) }

// Physical reports whether strength dominates wisdom
func (s Sheet) Physical() bool {
	return s.Strength() >= s.Wisdom()
}

// Agility drives turn order and evasion
func (s Sheet) Agility() int {
	if s.Physical() {
		return s.Dexterity()
	}
	return max(int(float64(s.Wisdom())*1.6), 1)
}

// MaxHealth grows with constitution and, past level 10, with level
func (s Sheet) MaxHealth() int {
	level := max(s.Level, 1)
	scale := math.Max(float64(level)/10, 1)
	return max(int(float64(s.Constitution()*10)*scale), 1)
}

// Tenacity is subtracted from every incoming hit
func (s Sheet) Tenacity() float64 {
	return float64(s.Constitution()) * 1.2
}

// Accuracy is dexterity over a weighted sum of the defensive stats.
// Balanced stats give 1.0.
func (s Sheet) Accuracy() float64 {
	dex := float64(s.Dexterity())
	acc := dex / (0.8*float64(s.Constitution()) + 0.2*dex)
	return math.Min(math.Max(acc, minAccuracy), maxAccuracy)
}

// AttackPower is the centre of the damage band
func (s Sheet) AttackPower() float64 {
	if s.Physical() {
		return float64(s.Strength())*3.1 + float64(s.Dexterity())/2 + float64(s.Constitution())/2
	}
	return float64(s.Wisdom())*4.2 + float64(s.Constitution())/4
}

// DamageRange returns the inclusive band a hit is rolled from
func (s Sheet) DamageRange() (low, high int) {
	p := s.AttackPower()
	scaled := p * s.Accuracy()
	low = int(math.Min(scaled, p*0.9))
	high = int(math.Max(scaled, p*1.1))
	return max(low, 0), max(high, 0)
}

// CriticalChance is a percentage. Magical damage never crits.
func (s Sheet) CriticalChance() int {
	if !s.Physical() {
		return 0
	}
	return int(float64(s.Dexterity())/100+float64(s.Luck())/50) + 5
}

// Regen is the health recovered per RegenInterval
func (s Sheet) Regen() float64 {
	return float64(s.Constitution()) * 2.5
}

// Regenerate returns current health after elapsed real time, capped at MaxHealth
func (s Sheet) Regenerate(current int, elapsed time.Duration) int {
	maxHealth := s.MaxHealth()
	if elapsed <= 0 {
		return min(max(current, 0), maxHealth)
	}
	gained := int(s.Regen() * (float64(elapsed) / float64(RegenInterval)))
	return min(max(current, 0)+gained, maxHealth)
}
