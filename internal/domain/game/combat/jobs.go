package combat

import (
	"math"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
)

type strikeKind int

const (
	strikeNormal strikeKind = iota
	strikeAmbush
	strikeRage
	strikeSpell
	strikePrayer
)

// swing carries one player attack through the job hooks
type swing struct {
	damage int
	high   int
	crit   bool
	rage   bool
	kind   strikeKind
	hits   int
}

// behavior is what a job changes about the shared turn flow. Nil hooks fall back to the default.
type behavior struct {
	critMultiplier float64

	// rescue is consulted when an attack would miss; rage arms the berserker strike
	rescue func(r dice.Roller, c *Combatant) (land, rage bool)

	// strike may replace the base damage of a landed attack
	strike func(r dice.Roller, e *Encounter, c *Combatant, s *swing)

	// evade runs after the dodge checks; a non-empty line means the hit is avoided
	evade func(r dice.Roller, c *Combatant) string

	// takeHit applies monster damage to the target and logs it
	takeHit func(r dice.Roller, e *Encounter, c *Combatant, damage int, crit bool)
}

var behaviors = map[character.Job]behavior{
	character.JobNovice: {
		critMultiplier: 1.5,
	},
	character.JobPaladin: {
		critMultiplier: 1.5,
		takeHit:        paladinTakeHit,
	},
	character.JobBerserker: {
		critMultiplier: 1.5,
		rescue:         berserkerRescue,
		strike:         berserkerStrike,
		takeHit:        berserkerTakeHit,
	},
	character.JobRogue: {
		critMultiplier: 1.8,
		rescue:         rogueRescue,
		strike:         rogueStrike,
		evade:          rogueEvade,
	},
	character.JobWizard: {
		critMultiplier: 1.5,
		strike:         wizardStrike,
	},
	character.JobBishop: {
		critMultiplier: 1.5,
		rescue:         func(dice.Roller, *Combatant) (bool, bool) { return true, false },
		strike:         bishopStrike,
		evade:          bishopEvade,
	},
}

func behaviorFor(job character.Job) behavior {
	if b, ok := behaviors[job]; ok {
		return b
	}
	return behaviors[character.JobNovice]
}

func rogueEscapeChance(agility int) float64 {
	return math.Max(0.5, 0.3+1000/float64(agility+1000))
}

func rageChance(c *Combatant) float64 {
	return 0.3 + (1-c.HealthRatio())*0.5
}

func rogueRescue(r dice.Roller, c *Combatant) (bool, bool) {
	return dice.Chance(r, rogueEscapeChance(c.Sheet.Agility())), false
}

func rogueStrike(r dice.Roller, e *Encounter, c *Combatant, s *swing) {
	if !dice.Chance(r, 0.3) {
		return
	}
	missing := float64(e.Monster.MaxHP - e.Monster.CurrentHP)
	s.hits = FibIndex(r.Float() * float64(c.Sheet.Dexterity()))
	s.damage = int(float64(s.damage)/3.8+missing*0.01) * s.hits
	s.kind = strikeAmbush
}

func rogueEvade(r dice.Roller, c *Combatant) string {
	if dice.Chance(r, rogueEscapeChance(c.Sheet.Agility())) {
		return c.Name + " melts into the shadows and evades the attack!"
	}
	return ""
}

func berserkerRescue(r dice.Roller, c *Combatant) (bool, bool) {
	if dice.Chance(r, rageChance(c)) {
		return true, true
	}
	return false, false
}

func berserkerStrike(r dice.Roller, _ *Encounter, c *Combatant, s *swing) {
	if !s.rage {
		if !dice.Chance(r, rageChance(c)) || s.damage == 0 {
			return
		}
	}
	s.damage = int(float64(s.high) * 5.28 * (1 - c.HealthRatio()) * 2.69)
	c.CurrentHP = max(c.CurrentHP/2, 1)
	s.kind = strikeRage
}

func berserkerTakeHit(r dice.Roller, e *Encounter, c *Combatant, damage int, crit bool) {
	if damage == 0 || !dice.Chance(r, 0.8) {
		defaultTakeHit(r, e, c, damage, crit)
		return
	}
	if c.CurrentHP != 1 && damage > c.CurrentHP {
		c.ApplyDamage(c.CurrentHP - 1)
		e.AddCombatLogEntry("%s takes a fatal blow but refuses to fall!", c.Name)
		return
	}
	defaultTakeHit(r, e, c, int(float64(damage)*2.5), crit)
}

func wizardStrike(r dice.Roller, e *Encounter, _ *Combatant, s *swing) {
	if !dice.Chance(r, 0.5) || s.damage == 0 {
		return
	}
	s.damage = int(float64(s.damage)*3.14) + max(int(float64(e.Monster.CurrentHP)*0.08), 1)
	s.kind = strikeSpell
}

func bishopStrike(_ dice.Roller, _ *Encounter, _ *Combatant, s *swing) {
	s.damage = 1
	s.kind = strikePrayer
}

func bishopEvade(r dice.Roller, c *Combatant) string {
	if dice.Chance(r, math.Min(0.2+float64(c.RemainStats)/500, 0.8)) {
		return "A mysterious force shields " + c.Name + " from harm."
	}
	return ""
}

// pray runs after the bishop's token hit. It returns true when judgment ends the fight.
func pray(r dice.Roller, e *Encounter, c *Combatant) bool {
	if !dice.Chance(r, 0.2+float64(c.RemainStats)/200) {
		e.AddCombatLogEntry("%s prays desperately, but there is no answer...", c.Name)
		c.Credit(0)
		return false
	}

	if dice.Chance(r, 0.01) {
		judgment := e.Monster.CurrentHP
		e.AddCombatLogEntry("Horns sound in the distance as %s prays. Divine wrath strikes for %d judgment damage.", c.Name, judgment)
		c.Hit(judgment)
		e.Monster.ApplyDamage(judgment)
		return true
	}

	living := e.LivingPlayers()
	heal := max(int(float64(c.Sheet.Wisdom()*c.Sheet.Level)/float64(max(len(living), 1))/5)-1, 0)
	for _, ally := range living {
		ally.Heal(heal)
	}
	c.Credit(heal / 2)
	e.AddCombatLogEntry("%s's prayer is answered, restoring %d health to the party.", c.Name, heal)
	return false
}

// paladinTakeHit absorbs part of the blow with thornmail, reflects a share of what
// got through and may answer with a shield bash.
func paladinTakeHit(r dice.Roller, e *Encounter, c *Combatant, damage int, crit bool) {
	if damage == 0 {
		defaultTakeHit(r, e, c, damage, crit)
		return
	}

	thornmail := int(float64(damage)*0.27) + c.Sheet.Constitution()
	absorbed := min(thornmail/2, damage)
	taken := damage - absorbed
	c.ApplyDamage(taken)
	e.AddCombatLogEntry("%s blocks the attack from %s, absorbing %d and taking %d damage!", c.Name, e.Monster.Name, absorbed, taken)

	if reflected := min(int(float64(taken)*0.27), e.Monster.CurrentHP); reflected > 0 {
		e.Monster.ApplyDamage(reflected)
		c.Hit(reflected)
		e.AddCombatLogEntry("Thorns on %s's armour reflect %d damage back!", c.Name, reflected)
	}

	if e.Monster.IsAlive() && dice.Chance(r, 0.7) {
		bash := min(thornmail, e.Monster.CurrentHP)
		e.Monster.ApplyDamage(bash)
		c.Hit(bash)
		e.AddCombatLogEntry("%s strikes back with a shield bash for %d damage!", c.Name, bash)
	}
}

func defaultTakeHit(_ dice.Roller, e *Encounter, c *Combatant, damage int, crit bool) {
	c.ApplyDamage(damage)
	switch {
	case damage == 0:
		e.AddCombatLogEntry("%s shrugs off the attack!", c.Name)
	case crit:
		e.AddCombatLogEntry("%s is caught off guard and takes %d critical damage!", c.Name, damage)
	case !e.Monster.Sheet.Physical():
		e.AddCombatLogEntry("%s takes %d magic damage!", c.Name, damage)
	default:
		e.AddCombatLogEntry("%s takes %d damage!", c.Name, damage)
	}
}
