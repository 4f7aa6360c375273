package worlds

import (
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
)

// SchemaVersion is the layout written by this build
const SchemaVersion = 1

// Data represents the serialized form of a guild world
type Data struct {
	SchemaVersion      int       `json:"schema_version"`
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Level              *int      `json:"level"`
	Exp                int       `json:"exp"`
	KilledMobs         int       `json:"killed_mobs"`
	MobLevel           *int      `json:"mob_level"`
	PremiumTier        int       `json:"premium"`
	AdventureChannelID string    `json:"adventure_channel"`
	Status             string    `json:"status"`
	Colour             string    `json:"colour"`
	LastActive         time.Time `json:"last_active"`
	RaidStreak         []bool    `json:"raid_streak"`
}

// ToData converts a world to its stored form
func ToData(w *world.World) *Data {
	level, mobLevel := w.Level, w.MobLevel
	return &Data{
		SchemaVersion:      SchemaVersion,
		ID:                 w.ID,
		Name:               w.Name,
		Level:              &level,
		Exp:                w.Exp,
		KilledMobs:         w.KilledMobs,
		MobLevel:           &mobLevel,
		PremiumTier:        w.PremiumTier,
		AdventureChannelID: w.AdventureChannelID,
		Status:             w.Status,
		Colour:             w.Colour,
		LastActive:         w.LastActive,
		RaidStreak:         append([]bool{}, w.RaidStreak...),
	}
}

// FromData validates a stored record. Level and mob level are required;
// everything else falls back to the fresh-guild defaults.
func FromData(data *Data, now time.Time) (*world.World, error) {
	if data.SchemaVersion > SchemaVersion {
		return nil, dnderr.DataLossf("world %d has unknown schema version %d", data.ID, data.SchemaVersion).
			WithMeta("guild_id", data.ID)
	}
	if data.Level == nil || data.MobLevel == nil {
		return nil, dnderr.DataLossf("world %d record is missing its level", data.ID).
			WithMeta("guild_id", data.ID)
	}

	w := world.New(data.ID, now)
	w.Name = data.Name
	w.Level = max(*data.Level, 1)
	w.Exp = data.Exp
	w.KilledMobs = data.KilledMobs
	w.MobLevel = min(max(*data.MobLevel, 1), w.MaxMobLevel())
	w.PremiumTier = data.PremiumTier
	w.AdventureChannelID = data.AdventureChannelID
	w.Status = data.Status
	w.Colour = data.Colour
	if !data.LastActive.IsZero() {
		w.LastActive = data.LastActive
	}
	w.RaidStreak = append([]bool{}, data.RaidStreak...)

	return w, nil
}
