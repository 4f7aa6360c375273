package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/game/combat"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/raid"
	"github.com/bwmarrin/discordgo"
)

const (
	colourGreen = 0x2ecc71
	colourRed   = 0xe74c3c
	colourBlue  = 0x3498db
	colourGold  = 0xf1c40f

	// Discord rejects embed fields longer than this
	fieldLimit = 1024
	// transcriptLines is how much of the fight log a result embed shows
	transcriptLines = 12
)

// parseColour reads a "#rrggbb" string, falling back when it is unset or malformed
func parseColour(hex string, fallback int) int {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return fallback
	}
	v, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return int(v)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}

func profileEmbed(p *character.Player) *discordgo.MessageEmbed {
	sheet := p.Sheet()
	low, high := sheet.DamageRange()

	name := p.Name
	if name == "" {
		name = fmt.Sprintf("Player %d", p.ID)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s · Lv. %d %s", name, p.Level, jobTitle(p.Job)),
		Description: p.Status,
		Color:       parseColour(p.Colour, colourBlue),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "HP",
				Value:  fmt.Sprintf("%d/%d", p.Health, p.MaxHealth()),
				Inline: true,
			},
			{
				Name:   "EXP",
				Value:  fmt.Sprintf("%d/%d", p.Exp, character.ExpRequired(p.Level)),
				Inline: true,
			},
			{
				Name:   "Rebirth",
				Value:  strconv.Itoa(p.Rebirth),
				Inline: true,
			},
			{
				Name: "Stats",
				Value: fmt.Sprintf("STR %d · DEX %d · CON %d · WIS %d · LUK %d\nUnspent points: %d",
					sheet.Strength(), sheet.Dexterity(), sheet.Constitution(), sheet.Wisdom(), sheet.Luck(), p.RemainStats),
			},
			{
				Name:   "Damage",
				Value:  fmt.Sprintf("%d-%d (crit %d%%)", low, high, sheet.CriticalChance()),
				Inline: true,
			},
			{
				Name:   "Currency",
				Value:  fmt.Sprintf("%d chests · %d soul shards", p.Chest, p.SoulShard),
				Inline: true,
			},
			{
				Name:   "Record",
				Value:  fmt.Sprintf("%d kills · best hit %d", p.KilledMobs, p.MaxDamage),
				Inline: true,
			},
		},
	}
	if len(p.Blessings) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Blessings",
			Value: strings.Join(p.Blessings, "\n"),
		})
	}
	return embed
}

func jobTitle(j character.Job) string {
	s := string(j)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func itemLine(item *equipment.Item, slot equipment.Slot, equipped bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "`%s` %s", item.ID, item.Name)
	if item.Reinforced > 0 {
		fmt.Fprintf(&b, " +%d", item.Reinforced)
	}
	if equipped {
		fmt.Fprintf(&b, " [%s]", slot)
	}
	return b.String()
}

func inventoryEmbed(p *character.Player) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(p.Inventory))
	for _, id := range p.Inventory {
		item, ok := p.Items[id]
		if !ok {
			continue
		}
		slot, equipped := p.EquippedIn(id)
		lines = append(lines, itemLine(item, slot, equipped))
	}

	description := "Your backpack is empty."
	if len(lines) > 0 {
		description = truncate(strings.Join(lines, "\n"), 4096)
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Inventory (%d/%d)", len(p.Inventory), p.InventorySize),
		Description: description,
		Color:       parseColour(p.Colour, colourBlue),
	}
}

func lobbyEmbed(l *raid.Lobby) *discordgo.MessageEmbed {
	m := l.Instance.Monster
	colour := colourBlue
	if m.Elite {
		colour = colourGold
	}

	names := make([]string, 0, len(l.Members))
	for _, member := range l.Members {
		names = append(names, member.Name)
	}
	roster := "Nobody yet"
	if len(names) > 0 {
		roster = truncate(strings.Join(names, ", "), fieldLimit)
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Lv. %d %s", m.Level, l.Instance.DisplayName),
		Description: l.Instance.Hint,
		Color:       colour,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Starts",
				Value:  fmt.Sprintf("<t:%d:R>", l.Deadline.Unix()),
				Inline: true,
			},
			{
				Name:   fmt.Sprintf("Party (%d)", len(l.Members)),
				Value:  roster,
				Inline: true,
			},
		},
	}
}

func raidResultEmbed(r *raid.Result) *discordgo.MessageEmbed {
	if r.Cancelled || r.Combat == nil {
		return &discordgo.MessageEmbed{
			Title:       "Raid cancelled",
			Description: fmt.Sprintf("Nobody answered the call and the %s wandered off.", r.Instance.DisplayName),
			Color:       colourRed,
		}
	}

	fight := r.Combat
	embed := &discordgo.MessageEmbed{
		Color: colourGreen,
		Title: fmt.Sprintf("%s defeated in %d rounds!", r.Instance.DisplayName, fight.Rounds),
	}
	if !fight.Victory {
		embed.Color = colourRed
		embed.Title = fmt.Sprintf("The party fell to the %s", r.Instance.DisplayName)
	}

	lines := fight.Transcript
	if len(lines) > transcriptLines {
		lines = lines[len(lines)-transcriptLines:]
	}
	embed.Description = truncate(strings.Join(lines, "\n"), 4096)

	var damage []string
	for _, part := range fight.Participants {
		damage = append(damage, fmt.Sprintf("%s: %d dmg (%d/%d HP)", part.Name, part.Damage, part.Health, part.MaxHealth))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Damage",
		Value: truncate(strings.Join(damage, "\n"), fieldLimit),
	})

	if s := r.Settlement; s != nil && fight.Victory {
		var rewards []string
		for i, reward := range s.Players {
			line := fmt.Sprintf("%s: +%d EXP", fight.Participants[i].Name, reward.Exp())
			if reward.LevelsGained > 0 {
				line += fmt.Sprintf(" (+%d Lv.)", reward.LevelsGained)
			}
			if reward.SoulShard {
				line += " +1 soul shard"
			}
			rewards = append(rewards, line)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Rewards",
			Value: truncate(strings.Join(rewards, "\n"), fieldLimit),
		})

		if loot := s.Loot; loot != nil {
			owner := lootOwner(fight.Participants, loot.PlayerID)
			value := fmt.Sprintf("%s found %s", owner, loot.Item.Name)
			if loot.Lost {
				value = fmt.Sprintf("%s found %s but had no room to carry it", owner, loot.Item.Name)
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Loot", Value: value})
		}
	}

	if len(r.Skipped) > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d player(s) could not join", len(r.Skipped)),
		}
	}
	return embed
}

func lootOwner(parts []combat.ParticipantResult, id int64) string {
	for _, p := range parts {
		if p.ID == id {
			return p.Name
		}
	}
	return "Someone"
}

func leaderboardEmbed(players []*character.Player) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(players))
	for rank, p := range players {
		lines = append(lines, fmt.Sprintf("%d. %s · Lv. %d · rebirth %d", rank+1, p.Name, p.Level, p.Rebirth))
	}
	description := "No adventurers yet."
	if len(lines) > 0 {
		description = strings.Join(lines, "\n")
	}
	return &discordgo.MessageEmbed{
		Title:       "Leaderboard",
		Description: description,
		Color:       colourGold,
	}
}

func worldEmbed(w *world.World) *discordgo.MessageEmbed {
	name := w.Name
	if name == "" {
		name = "Unnamed world"
	}
	channel := "any channel"
	if w.AdventureChannelID != "" {
		channel = fmt.Sprintf("<#%s>", w.AdventureChannelID)
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s · Lv. %d", name, w.Level),
		Description: w.Status,
		Color:       parseColour(w.Colour, colourBlue),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "EXP", Value: fmt.Sprintf("%d/%d", w.Exp, world.ExpRequired(w.Level)), Inline: true},
			{Name: "Monster level", Value: strconv.Itoa(w.MobLevel), Inline: true},
			{Name: "Monsters slain", Value: strconv.Itoa(w.KilledMobs), Inline: true},
			{Name: "Raids", Value: channel, Inline: true},
		},
	}
}
