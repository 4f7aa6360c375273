package combat

import (
	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
)

// DefaultMaxRounds stops a fight that neither side can finish
const DefaultMaxRounds = 500

// ParticipantResult is a player's share of the outcome
type ParticipantResult struct {
	ID        int64
	Name      string
	Job       character.Job
	Damage    int
	BestHit   int
	Health    int
	MaxHealth int
}

// Alive reports whether the player finished the fight standing
func (p ParticipantResult) Alive() bool {
	return p.Health > 0
}

// Result is the terminal state of a fight
type Result struct {
	Victory          bool
	Rounds           int
	MonsterHealth    int
	MonsterMaxHealth int
	Participants     []ParticipantResult
	KillerID         int64
	HasKiller        bool
	Transcript       []string
}

// TotalDamage sums every participant's contribution
func (r *Result) TotalDamage() int {
	total := 0
	for _, p := range r.Participants {
		total += p.Damage
	}
	return total
}

// EngineConfig holds the dependencies for the combat engine
type EngineConfig struct {
	Roller    dice.Roller // Required
	MaxRounds int
}

// Engine resolves a raid fight round by round
type Engine struct {
	roller    dice.Roller
	maxRounds int
}

// NewEngine creates a combat engine
func NewEngine(cfg *EngineConfig) *Engine {
	if cfg.Roller == nil {
		panic("roller is required")
	}
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Engine{roller: cfg.Roller, maxRounds: maxRounds}
}

// Resolve runs the fight to completion. Every random draw goes through the engine's
// roller so the same roller seed, roster and monster always give the same result.
func (g *Engine) Resolve(players []Participant, monster *character.Monster) *Result {
	e := NewEncounter(players, monster)

	victory := false
	for {
		if e.PartyHealth() <= 0 {
			e.AddCombatLogEntry("%s has defeated every adventurer!", e.Monster.Name)
			break
		}
		if e.Round >= g.maxRounds {
			e.AddCombatLogEntry("The adventurers are exhausted and retreat from %s.", e.Monster.Name)
			break
		}

		e.Round++
		e.AddCombatLogEntry("--- Round %d", e.Round)

		for _, c := range e.TurnOrder {
			if !e.Monster.IsAlive() {
				break
			}
			if c.IsMonster {
				g.monsterTurn(e)
			} else if c.IsAlive() {
				g.playerTurn(e, c)
			}
		}

		if !e.Monster.IsAlive() {
			e.AddCombatLogEntry("%s has been slain!", e.Monster.Name)
			victory = true
			break
		}
		e.Enrage()
	}

	return buildResult(e, victory)
}

func (g *Engine) playerTurn(e *Encounter, c *Combatant) {
	r := g.roller
	b := behaviorFor(c.Job)
	s := &swing{kind: strikeNormal}

	if float64(c.Sheet.Agility())/float64(max(e.startAgility, 1)) <= r.Float() {
		land := false
		if b.rescue != nil {
			land, s.rage = b.rescue(r, c)
		}
		if !land {
			e.AddCombatLogEntry("%s's attack misses!", c.Name)
			return
		}
	}

	multiplier := 1.0
	if r.Float()*100 < float64(c.Sheet.CriticalChance()) {
		multiplier = b.critMultiplier
		s.crit = true
	}

	low, high := c.Sheet.DamageRange()
	s.high = high
	s.damage = max(int(float64(dice.Between(r, low, high))*multiplier-e.Monster.Sheet.Tenacity()), 0)

	if b.strike != nil {
		b.strike(r, e, c, s)
	}

	e.Monster.ApplyDamage(s.damage)
	c.Hit(s.damage)

	switch {
	case s.kind == strikePrayer && e.Monster.IsAlive():
		if pray(r, e, c) {
			e.Killer = c
			return
		}
	case s.damage == 0:
		e.AddCombatLogEntry("%s's attack has no effect...", c.Name)
	case s.kind == strikeAmbush:
		e.AddCombatLogEntry("%s ambushes %s, striking %d times for %d damage!", c.Name, e.Monster.Name, s.hits, s.damage)
	case s.kind == strikeRage:
		e.AddCombatLogEntry("%s strikes with reckless fury, spending their own life for %d damage!", c.Name, s.damage)
	case s.kind == strikeSpell:
		e.AddCombatLogEntry("%s channels the elements against %s for %d damage!", c.Name, e.Monster.Name, s.damage)
	case s.crit:
		e.AddCombatLogEntry("%s finds a weak spot and deals %d critical damage!", c.Name, s.damage)
	case !c.Sheet.Physical():
		e.AddCombatLogEntry("%s deals %d magic damage!", c.Name, s.damage)
	default:
		e.AddCombatLogEntry("%s deals %d damage!", c.Name, s.damage)
	}

	if !e.Monster.IsAlive() && e.Killer == nil {
		e.Killer = c
	}
}

func (g *Engine) monsterTurn(e *Encounter) {
	r := g.roller
	mob := e.Monster
	e.AddCombatLogEntry("*** %s prepares to attack!", mob.Name)

	for _, c := range e.TurnOrder {
		if c.IsMonster || !c.IsAlive() {
			continue
		}
		if !mob.IsAlive() {
			return
		}

		ratio := float64(mob.Sheet.Agility()) / float64(max(c.Sheet.Agility(), 1))
		if !c.Sheet.Physical() && min(ratio, 0.75) <= r.Float() {
			e.AddCombatLogEntry("%s dodges the attack!", c.Name)
			continue
		}
		if ratio <= r.Float() {
			e.AddCombatLogEntry("%s dodges the attack!", c.Name)
			continue
		}

		b := behaviorFor(c.Job)
		if b.evade != nil {
			if line := b.evade(r, c); line != "" {
				e.AddCombatLogEntry("%s", line)
				continue
			}
		}

		multiplier := 1.0
		crit := false
		if r.Float()*100 < float64(mob.Sheet.CriticalChance()) {
			multiplier = 1.5
			crit = true
		}
		low, high := mob.Sheet.DamageRange()
		damage := max(int(float64(dice.Between(r, low, high))*multiplier-c.Sheet.Tenacity()), 0)

		takeHit := b.takeHit
		if takeHit == nil {
			takeHit = defaultTakeHit
		}
		takeHit(r, e, c, damage, crit)

		if !c.IsAlive() {
			e.AddCombatLogEntry("%s has fallen!", c.Name)
		}
		if !mob.IsAlive() {
			e.Killer = c
			return
		}
	}
}

func buildResult(e *Encounter, victory bool) *Result {
	res := &Result{
		Victory:          victory,
		Rounds:           e.Round,
		MonsterHealth:    max(e.Monster.CurrentHP, 0),
		MonsterMaxHealth: e.Monster.MaxHP,
		Transcript:       e.CombatLog,
	}
	if victory && e.Killer != nil {
		res.KillerID = e.Killer.ID
		res.HasKiller = true
	}
	for _, p := range e.Players {
		res.Participants = append(res.Participants, ParticipantResult{
			ID:        p.ID,
			Name:      p.Name,
			Job:       p.Job,
			Damage:    p.TotalContribution(),
			BestHit:   p.BestHit(),
			Health:    p.CurrentHP,
			MaxHealth: p.MaxHP,
		})
	}
	return res
}
