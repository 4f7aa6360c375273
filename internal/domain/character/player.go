package character

import (
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
)

const (
	// DefaultInventorySize is the starting backpack capacity
	DefaultInventorySize = 20

	// StarterWeaponKey is the catalog item every new player receives
	StarterWeaponKey = "wood_stick"

	baseStat = 3
	baseLuck = 5
)

// Player is a persisted adventurer
type Player struct {
	ID          int64
	Name        string
	Level       int
	Exp         int
	RemainStats int
	Rebirth     int
	Job         Job

	Stats     stats.Block
	Potential stats.Block
	Mods      stats.Modifiers

	Equipment     map[equipment.Slot]string
	Inventory     []string
	Items         map[string]*equipment.Item
	InventorySize int

	Chest     int
	SoulShard int

	KilledMobs  int
	MaxDamage   int
	TotalDamage int
	Petty       int

	Health   int
	LastSeen time.Time

	Status string
	Colour string

	// Derived on every equipment change, never persisted
	EquipmentStats stats.Block
	Blessings      []string
}

// NewPlayer builds the default level 1 novice
func NewPlayer(id int64, now time.Time) *Player {
	p := &Player{
		ID:            id,
		Level:         1,
		Job:           JobNovice,
		Stats:         stats.Block{Str: baseStat, Dex: baseStat, Con: baseStat, Wis: baseStat, Luk: baseLuck},
		Mods:          stats.DefaultModifiers(),
		Equipment:     make(map[equipment.Slot]string),
		Items:         make(map[string]*equipment.Item),
		InventorySize: DefaultInventorySize,
		LastSeen:      now,
	}
	p.Health = p.Sheet().MaxHealth()
	return p
}

// Sheet exposes the player's numbers to the stat formulas
func (p *Player) Sheet() stats.Sheet {
	return stats.Sheet{
		Level:     p.Level,
		Base:      p.Stats,
		Potential: p.Potential,
		Equipment: p.EquipmentStats,
		Mods:      p.Mods,
	}
}

// MaxHealth is a shortcut for Sheet().MaxHealth()
func (p *Player) MaxHealth() int {
	return p.Sheet().MaxHealth()
}

// RefreshHealth applies regen for the time since LastSeen
func (p *Player) RefreshHealth(now time.Time) {
	p.Health = p.Sheet().Regenerate(p.Health, now.Sub(p.LastSeen))
	p.LastSeen = now
}

// InventoryFull reports whether another item would exceed capacity
func (p *Player) InventoryFull() bool {
	return len(p.Inventory) >= p.InventorySize
}

// Item looks up an owned item
func (p *Player) Item(id string) (*equipment.Item, error) {
	item, ok := p.Items[id]
	if !ok {
		return nil, dnderr.NotFoundf("item %s not found", id).
			WithMeta("player_id", p.ID).
			WithMeta("item_id", id)
	}
	return item, nil
}

// EquippedIn returns the slot holding id
func (p *Player) EquippedIn(id string) (equipment.Slot, bool) {
	for _, slot := range equipment.Slots {
		if p.Equipment[slot] == id {
			return slot, true
		}
	}
	return "", false
}

// EquippedItems returns the items in slot order, nil for empty slots
func (p *Player) EquippedItems() []*equipment.Item {
	items := make([]*equipment.Item, 0, len(equipment.Slots))
	for _, slot := range equipment.Slots {
		id := p.Equipment[slot]
		if id == "" {
			continue
		}
		items = append(items, p.Items[id])
	}
	return items
}

// AddItem puts a new item at the end of the backpack
func (p *Player) AddItem(item *equipment.Item) error {
	if p.InventoryFull() {
		return dnderr.FailedPreconditionf("inventory is full (%d/%d)", len(p.Inventory), p.InventorySize).
			WithMeta("player_id", p.ID)
	}
	if _, exists := p.Items[item.ID]; exists {
		return dnderr.AlreadyExistsf("item %s already owned", item.ID)
	}
	p.Items[item.ID] = item
	p.Inventory = append(p.Inventory, item.ID)
	return nil
}

// RemoveItem drops an unequipped item
func (p *Player) RemoveItem(id string) (*equipment.Item, error) {
	item, err := p.Item(id)
	if err != nil {
		return nil, err
	}
	if slot, equipped := p.EquippedIn(id); equipped {
		return nil, dnderr.FailedPreconditionf("item %s is equipped in %s", id, slot)
	}
	p.detach(id)
	return item, nil
}

// DestroyItem removes an item whether or not it is equipped
func (p *Player) DestroyItem(id string) {
	for _, slot := range equipment.Slots {
		if p.Equipment[slot] == id {
			delete(p.Equipment, slot)
		}
	}
	p.detach(id)
	p.ReloadEquipment()
}

func (p *Player) detach(id string) {
	delete(p.Items, id)
	for i, invID := range p.Inventory {
		if invID == id {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			break
		}
	}
}

// EquipLevelLimit is the highest item level the player may wear
func (p *Player) EquipLevelLimit() int {
	return p.Level + max(p.Rebirth, 10)
}

// Equip wears an item in its category slot. Equipping an item that is
// already worn is a no-op.
func (p *Player) Equip(id string) error {
	item, err := p.Item(id)
	if err != nil {
		return err
	}
	if p.Equipment[item.Category] == id {
		return nil
	}
	if item.Level > p.EquipLevelLimit() {
		return dnderr.FailedPreconditionf("item level %d exceeds limit %d", item.Level, p.EquipLevelLimit()).
			WithMeta("item_id", id)
	}
	p.Equipment[item.Category] = id
	p.ReloadEquipment()
	return nil
}

// Unequip takes an item off
func (p *Player) Unequip(id string) error {
	if _, err := p.Item(id); err != nil {
		return err
	}
	slot, equipped := p.EquippedIn(id)
	if !equipped {
		return dnderr.FailedPreconditionf("item %s is not equipped", id)
	}
	delete(p.Equipment, slot)
	p.ReloadEquipment()
	return nil
}

// ReloadEquipment recomputes equipment stats and blessings and clamps health
func (p *Player) ReloadEquipment() {
	p.EquipmentStats, p.Blessings = equipment.Loadout(p.EquippedItems())
	p.Health = min(p.Health, p.MaxHealth())
}

// AddExp grants experience
func (p *Player) AddExp(exp int) {
	if exp > 0 {
		p.Exp += exp
	}
}

// CheckLevelUp consumes experience for as many levels as it covers, stopping at levelCap.
// It returns the number of levels gained.
func (p *Player) CheckLevelUp(levelCap int) int {
	gained := 0
	for p.Level < levelCap && p.Exp >= ExpRequired(p.Level) {
		p.Exp -= ExpRequired(p.Level)
		p.Level++
		p.RemainStats += StatPointsPerLevel
		gained++
	}
	return gained
}

// AddStatPoints spends remaining points on a primary stat
func (p *Player) AddStatPoints(attr stats.Attribute, points int) error {
	if attr == stats.AttributeLuck {
		return dnderr.InvalidArgument("luck cannot be trained")
	}
	if _, ok := stats.ParseAttribute(string(attr)); !ok {
		return dnderr.InvalidArgumentf("unknown stat %q", attr)
	}
	if points < 1 || points > 100 {
		return dnderr.InvalidArgumentf("points must be between 1 and 100, got %d", points)
	}
	if points > p.RemainStats {
		return dnderr.FailedPreconditionf("only %d stat points remaining", p.RemainStats)
	}
	p.Stats.Add(attr, points)
	p.RemainStats -= points
	return nil
}

// ResetAbilityPoints trades ten levels for a full refund of trained stats
func (p *Player) ResetAbilityPoints() {
	p.Level = max(p.Level-10, 1)
	p.Exp = 0
	for _, a := range stats.Primaries {
		p.Stats.Set(a, baseStat)
	}
	p.RemainStats = (p.Level - 1) * StatPointsPerLevel
	p.Health = min(p.Health, p.MaxHealth())
}

// SetJob switches class and adopts the job's modifiers
func (p *Player) SetJob(t *JobTemplate) {
	p.Job = t.Key
	p.Mods = t.Mods
	p.Health = min(p.Health, p.MaxHealth())
}

// Reborn restarts the player at level 1 keeping half of the trained stats as potential.
// Items stay in the backpack but everything is unequipped.
func (p *Player) Reborn(novice *JobTemplate) {
	for _, a := range stats.Primaries {
		p.Potential.Add(a, p.Stats.Get(a)/2)
	}
	p.Potential.Luk += 15
	p.Rebirth++
	p.SoulShard++

	p.Level = 1
	p.Exp = 0
	p.RemainStats = 0
	p.Stats = stats.Block{Str: baseStat, Dex: baseStat, Con: baseStat, Wis: baseStat, Luk: baseLuck}
	p.Equipment = make(map[equipment.Slot]string)
	p.SetJob(novice)
	p.ReloadEquipment()
	p.Health = p.MaxHealth()
}
