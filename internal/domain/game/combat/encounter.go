package combat

import (
	"fmt"
	"sort"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
)

// Participant is the snapshot of a player taken when the raid starts
type Participant struct {
	ID          int64
	Name        string
	Job         character.Job
	Sheet       stats.Sheet
	Health      int
	RemainStats int
}

// Combatant is one side of the fight. The monster is a Combatant with IsMonster set.
type Combatant struct {
	ID          int64
	Name        string
	Job         character.Job
	Sheet       stats.Sheet
	MaxHP       int
	CurrentHP   int
	RemainStats int
	IsMonster   bool

	// Contributions holds every damage or heal credit, in the order earned
	Contributions []int

	bestHit int
}

// IsAlive returns true if the combatant has more than 0 HP
func (c *Combatant) IsAlive() bool {
	return c.CurrentHP > 0
}

// HealthRatio is current over max health
func (c *Combatant) HealthRatio() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.CurrentHP) / float64(c.MaxHP)
}

// ApplyDamage removes health, never going below zero
func (c *Combatant) ApplyDamage(damage int) {
	c.CurrentHP -= min(max(damage, 0), c.CurrentHP)
}

// Heal restores health up to MaxHP
func (c *Combatant) Heal(amount int) {
	if amount <= 0 {
		return
	}
	c.CurrentHP = min(c.CurrentHP+amount, c.MaxHP)
}

// Credit records a contribution
func (c *Combatant) Credit(amount int) {
	c.Contributions = append(c.Contributions, amount)
}

// TotalContribution sums every credit
func (c *Combatant) TotalContribution() int {
	total := 0
	for _, v := range c.Contributions {
		total += v
	}
	return total
}

// Hit credits damage dealt to the monster and tracks the largest single blow
func (c *Combatant) Hit(damage int) {
	c.Credit(damage)
	c.bestHit = max(c.bestHit, damage)
}

// BestHit is the largest damage dealt in one blow. Heal credits never count.
func (c *Combatant) BestHit() int {
	return c.bestHit
}

// Encounter is the mutable state of one fight
type Encounter struct {
	Players      []*Combatant
	Monster      *Combatant
	MonsterRef   *character.Monster
	Round        int
	TurnOrder    []*Combatant
	CombatLog    []string
	Killer       *Combatant
	startAgility int
}

// NewEncounter snapshots the roster and the monster. Monster health gets the
// fibonacci bonus for its level band on top of its sheet health.
func NewEncounter(players []Participant, monster *character.Monster) *Encounter {
	mob := *monster
	e := &Encounter{MonsterRef: &mob}

	for _, p := range players {
		maxHP := p.Sheet.MaxHealth()
		e.Players = append(e.Players, &Combatant{
			ID:          p.ID,
			Name:        p.Name,
			Job:         p.Job,
			Sheet:       p.Sheet,
			MaxHP:       maxHP,
			CurrentHP:   min(max(p.Health, 0), maxHP),
			RemainStats: p.RemainStats,
		})
	}

	band := mob.Level / 10
	if mob.Elite {
		band++
	}
	health := Fibonacci(band) + mob.Sheet().MaxHealth()
	e.Monster = &Combatant{
		Name:      mob.Name,
		Sheet:     mob.Sheet(),
		MaxHP:     health,
		CurrentHP: health,
		IsMonster: true,
	}
	e.startAgility = e.Monster.Sheet.Agility()

	e.TurnOrder = make([]*Combatant, 0, len(e.Players)+1)
	e.TurnOrder = append(e.TurnOrder, e.Players...)
	e.TurnOrder = append(e.TurnOrder, e.Monster)
	sort.SliceStable(e.TurnOrder, func(i, j int) bool {
		return e.TurnOrder[i].Sheet.Agility() > e.TurnOrder[j].Sheet.Agility()
	})

	return e
}

// AddCombatLogEntry appends a transcript line
func (e *Encounter) AddCombatLogEntry(format string, args ...any) {
	e.CombatLog = append(e.CombatLog, fmt.Sprintf(format, args...))
}

// PartyHealth sums the current health of every player
func (e *Encounter) PartyHealth() int {
	total := 0
	for _, p := range e.Players {
		total += p.CurrentHP
	}
	return total
}

// LivingPlayers returns the players still standing, in roster order
func (e *Encounter) LivingPlayers() []*Combatant {
	var living []*Combatant
	for _, p := range e.Players {
		if p.IsAlive() {
			living = append(living, p)
		}
	}
	return living
}

// Enrage raises the monster's modifiers after a round it survived
func (e *Encounter) Enrage() {
	r := float64(e.Round)
	mods := &e.MonsterRef.Mods
	mods.Bump(stats.AttributeStrength, 0.8*r)
	mods.Bump(stats.AttributeDexterity, 0.4*r)
	mods.Bump(stats.AttributeWisdom, 0.8*r)
	mods.Bump(stats.AttributeConstitution, 0.6*r)
	e.Monster.Sheet = e.MonsterRef.Sheet()
}
