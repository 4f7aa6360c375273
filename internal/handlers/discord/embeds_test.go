package discord

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/game/combat"
	raidgame "github.com/KirkDiggler/dungeon-raid-bot/internal/domain/game/raid"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/raid"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/testutils"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColour(t *testing.T) {
	assert.Equal(t, 0xff8800, parseColour("#ff8800", colourBlue))
	assert.Equal(t, 0xff8800, parseColour("ff8800", colourBlue))
	assert.Equal(t, colourBlue, parseColour("", colourBlue))
	assert.Equal(t, colourBlue, parseColour("#zzzzzz", colourBlue))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.Len(t, truncate(strings.Repeat("x", 2000), fieldLimit), fieldLimit)
}

func TestInventoryEmbedMarksEquipped(t *testing.T) {
	p := testutils.NewTestPlayer(1, "Aria", 5, time.Now())
	stick := testutils.NewTestItem("item-1", "Wood Stick", equipment.SlotWeapon, 1, stats.Block{Str: 1})
	hat := testutils.NewTestItem("item-2", "Leather Cap", equipment.SlotHead, 3, stats.Block{Con: 1})
	require.NoError(t, p.AddItem(stick))
	require.NoError(t, p.AddItem(hat))
	require.NoError(t, p.Equip("item-1"))

	embed := inventoryEmbed(p)
	assert.Equal(t, "Inventory (2/20)", embed.Title)
	assert.Equal(t, "`item-1` Lv. 1 Wood Stick [weapon]\n`item-2` Lv. 3 Leather Cap", embed.Description)
}

func TestRaidResultEmbed(t *testing.T) {
	inst := &raidgame.Instance{
		Monster:     &character.Monster{Name: "Goblin Raider", Level: 3},
		DisplayName: "Goblin Raider",
	}

	cancelled := raidResultEmbed(&raid.Result{Instance: inst, Cancelled: true})
	assert.Equal(t, "Raid cancelled", cancelled.Title)
	assert.Equal(t, colourRed, cancelled.Color)

	won := raidResultEmbed(&raid.Result{
		Instance: inst,
		Combat: &combat.Result{
			Victory: true,
			Rounds:  2,
			Participants: []combat.ParticipantResult{
				{ID: 1, Name: "Aria", Damage: 40, Health: 10, MaxHealth: 30},
			},
			Transcript: []string{"Aria hits for 40"},
		},
		Settlement: &raidgame.Settlement{
			Victory: true,
			Players: []raidgame.PlayerReward{{PlayerID: 1, BaseExp: 5, ContributionExp: 3, LevelsGained: 1}},
			Loot: &raidgame.Loot{
				PlayerID: 1,
				Item:     &equipment.Item{Name: "Lv. 3 Wood Stick"},
				Lost:     true,
			},
		},
		Skipped: []int64{2},
	})
	assert.Equal(t, "Goblin Raider defeated in 2 rounds!", won.Title)
	assert.Equal(t, colourGreen, won.Color)
	require.Len(t, won.Fields, 3)
	assert.Equal(t, "Aria: 40 dmg (10/30 HP)", won.Fields[0].Value)
	assert.Equal(t, "Aria: +8 EXP (+1 Lv.)", won.Fields[1].Value)
	assert.Contains(t, won.Fields[2].Value, "no room")
	assert.Equal(t, "1 player(s) could not join", won.Footer.Text)
}

func TestUserMessage(t *testing.T) {
	conflict := dnderr.Wrap(dnderr.Conflictf("player 1 is busy in a raid"), "failed to lock player")
	msg, expected := userMessage(conflict)
	assert.True(t, expected)
	assert.Equal(t, "player 1 is busy in a raid", msg)

	msg, expected = userMessage(dnderr.Wrap(errors.New("redis down"), "failed to save"))
	assert.False(t, expected)
	assert.Equal(t, genericFailure, msg)

	msg, expected = userMessage(dnderr.DataLossf("player 1 is corrupt"))
	assert.False(t, expected)
	assert.Equal(t, genericFailure, msg)
}

func TestCommandPath(t *testing.T) {
	group, sub := commandPath(discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			groupOption("item", subOption("equip", stringValue("id", "item-1"))),
		},
	})
	assert.Equal(t, "item", group)
	assert.Equal(t, "equip", sub)

	group, sub = commandPath(discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{subOption("start")},
	})
	assert.Empty(t, group)
	assert.Equal(t, "start", sub)
}

func TestOptionsDrillIntoSubcommands(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			groupOption("item", subOption("transfer",
				stringValue("id", "item-7"),
				&discordgo.ApplicationCommandInteractionDataOption{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "42"},
			)),
		},
	}

	assert.Equal(t, "item-7", stringOption(data, "id"))
	id, ok := userOption(data, "user")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Empty(t, stringOption(data, "missing"))
}
