package players

import (
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
)

// SchemaVersion is the layout written by this build
const SchemaVersion = 1

// Data represents the serialized form of a player.
// Pointer, map and slice fields are gameplay critical: a record missing them is rejected.
type Data struct {
	SchemaVersion int    `json:"schema_version"`
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Level         int    `json:"level"`
	Exp           int    `json:"exp"`
	RemainStats   int    `json:"remain_stats"`
	Rebirth       int    `json:"rebirth"`
	Job           string `json:"job"`

	Stats     stats.Block     `json:"stats"`
	Potential stats.Block     `json:"potential"`
	Mods      stats.Modifiers `json:"mods"`

	Equipment        map[string]string    `json:"equipment"`
	Inventory        []string             `json:"inventory"`
	Items            map[string]*ItemData `json:"items"`
	AllowedInventory int                  `json:"allowed_inventory"`

	Chest     *int `json:"chest"`
	SoulShard *int `json:"soulshard"`

	KilledMobs  int `json:"killed_mobs"`
	MaxDamage   int `json:"max_damage"`
	TotalDamage int `json:"total_damage"`
	Petty       int `json:"petty"`

	Health   *int      `json:"health,omitempty"`
	LastSeen time.Time `json:"last_seen"`

	Status string `json:"status"`
	Colour string `json:"colour"`

	// Legacy flat slot fields, read only when migrating version 0 records
	Head     string `json:"head,omitempty"`
	Necklace string `json:"necklace,omitempty"`
	Body     string `json:"body,omitempty"`
	Pants    string `json:"pants,omitempty"`
	Gloves   string `json:"gloves,omitempty"`
	Boots    string `json:"boots,omitempty"`
	Weapon   string `json:"weapon,omitempty"`
	Ring     string `json:"ring,omitempty"`
}

// ItemData represents the serialized form of an owned item
type ItemData struct {
	Key               string      `json:"key"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Category          string      `json:"category"`
	Level             int         `json:"level"`
	Stats             stats.Block `json:"stats"`
	Set               string      `json:"set,omitempty"`
	Reinforced        int         `json:"reinforced"`
	ReinforceAttempts int         `json:"reinforce_attempts"`
}

// ToData converts a player to its stored form
func ToData(p *character.Player) *Data {
	chest, shard, health := p.Chest, p.SoulShard, p.Health

	data := &Data{
		SchemaVersion:    SchemaVersion,
		ID:               p.ID,
		Name:             p.Name,
		Level:            p.Level,
		Exp:              p.Exp,
		RemainStats:      p.RemainStats,
		Rebirth:          p.Rebirth,
		Job:              string(p.Job),
		Stats:            p.Stats,
		Potential:        p.Potential,
		Mods:             p.Mods,
		Equipment:        make(map[string]string, len(p.Equipment)),
		Inventory:        append([]string{}, p.Inventory...),
		Items:            make(map[string]*ItemData, len(p.Items)),
		AllowedInventory: p.InventorySize,
		Chest:            &chest,
		SoulShard:        &shard,
		KilledMobs:       p.KilledMobs,
		MaxDamage:        p.MaxDamage,
		TotalDamage:      p.TotalDamage,
		Petty:            p.Petty,
		Health:           &health,
		LastSeen:         p.LastSeen,
		Status:           p.Status,
		Colour:           p.Colour,
	}

	for slot, id := range p.Equipment {
		if id != "" {
			data.Equipment[string(slot)] = id
		}
	}
	for id, item := range p.Items {
		data.Items[id] = &ItemData{
			Key:               item.Key,
			Name:              item.Name,
			Description:       item.Description,
			Category:          string(item.Category),
			Level:             item.Level,
			Stats:             item.Stats,
			Set:               string(item.Set),
			Reinforced:        item.Reinforced,
			ReinforceAttempts: item.ReinforceAttempts,
		}
	}

	return data
}

// Migrate upgrades an older record in place
func Migrate(data *Data) {
	if data.SchemaVersion < 1 {
		legacy := map[equipment.Slot]string{
			equipment.SlotHead:     data.Head,
			equipment.SlotNecklace: data.Necklace,
			equipment.SlotBody:     data.Body,
			equipment.SlotPants:    data.Pants,
			equipment.SlotGloves:   data.Gloves,
			equipment.SlotBoots:    data.Boots,
			equipment.SlotWeapon:   data.Weapon,
			equipment.SlotRing:     data.Ring,
		}
		if data.Equipment == nil {
			data.Equipment = make(map[string]string)
			for slot, id := range legacy {
				if id != "" {
					data.Equipment[string(slot)] = id
				}
			}
		}
		data.Head, data.Necklace, data.Body, data.Pants = "", "", "", ""
		data.Gloves, data.Boots, data.Weapon, data.Ring = "", "", "", ""
		data.SchemaVersion = 1
	}
}

// FromData validates a stored record and converts it to a player.
// Missing currency, equipment, inventory or item fields fail with data loss;
// cosmetic fields fall back to defaults.
func FromData(data *Data, now time.Time) (*character.Player, error) {
	if data.SchemaVersion > SchemaVersion {
		return nil, dnderr.DataLossf("player %d has unknown schema version %d", data.ID, data.SchemaVersion).
			WithMeta("player_id", data.ID)
	}
	Migrate(data)

	missing := func(field string) error {
		return dnderr.DataLossf("player %d record is missing %s", data.ID, field).
			WithMeta("player_id", data.ID).
			WithMeta("field", field)
	}
	switch {
	case data.SoulShard == nil:
		return nil, missing("soulshard")
	case data.Chest == nil:
		return nil, missing("chest")
	case data.Equipment == nil:
		return nil, missing("equipment")
	case data.Inventory == nil:
		return nil, missing("inventory")
	case data.Items == nil:
		return nil, missing("items")
	}

	job, err := character.ParseJob(data.Job)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeDataLoss, "invalid job").
			WithMeta("player_id", data.ID)
	}

	p := character.NewPlayer(data.ID, now)
	p.Name = data.Name
	p.Level = max(data.Level, 1)
	p.Exp = data.Exp
	p.RemainStats = data.RemainStats
	p.Rebirth = data.Rebirth
	p.Job = job
	p.Stats = data.Stats
	p.Potential = data.Potential
	if data.Mods != (stats.Modifiers{}) {
		p.Mods = data.Mods
	}
	if data.AllowedInventory > 0 {
		p.InventorySize = data.AllowedInventory
	}
	p.Chest = *data.Chest
	p.SoulShard = *data.SoulShard
	p.KilledMobs = data.KilledMobs
	p.MaxDamage = data.MaxDamage
	p.TotalDamage = data.TotalDamage
	p.Petty = data.Petty
	p.Status = data.Status
	p.Colour = data.Colour
	if !data.LastSeen.IsZero() {
		p.LastSeen = data.LastSeen
	}

	for id, item := range data.Items {
		if item == nil {
			return nil, missing("item " + id)
		}
		slot := equipment.Slot(item.Category)
		if !slot.Valid() {
			return nil, dnderr.DataLossf("item %s has unknown category %q", id, item.Category).
				WithMeta("player_id", data.ID)
		}
		restored := &equipment.Item{
			ID:                id,
			Key:               item.Key,
			Name:              item.Name,
			Description:       item.Description,
			Category:          slot,
			Level:             item.Level,
			Stats:             item.Stats,
			Set:               equipment.Set(item.Set),
			Reinforced:        item.Reinforced,
			ReinforceAttempts: item.ReinforceAttempts,
		}
		restored.RefreshReinforcedStats()
		p.Items[id] = restored
	}

	for _, id := range data.Inventory {
		if _, ok := p.Items[id]; !ok {
			return nil, dnderr.DataLossf("inventory references unknown item %s", id).
				WithMeta("player_id", data.ID)
		}
	}
	p.Inventory = append([]string{}, data.Inventory...)

	for key, id := range data.Equipment {
		slot := equipment.Slot(key)
		if !slot.Valid() {
			return nil, dnderr.DataLossf("unknown equipment slot %q", key).
				WithMeta("player_id", data.ID)
		}
		if id == "" {
			continue
		}
		if _, ok := p.Items[id]; !ok {
			return nil, dnderr.DataLossf("slot %s references unknown item %s", key, id).
				WithMeta("player_id", data.ID)
		}
		p.Equipment[slot] = id
	}

	p.ReloadEquipment()
	if data.Health != nil {
		p.Health = min(max(*data.Health, 0), p.MaxHealth())
	} else {
		p.Health = p.MaxHealth()
	}

	return p, nil
}
