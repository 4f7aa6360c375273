package discord

import (
	"context"
	"fmt"
	"strconv"

	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/raid"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func joinButton(guildID int64) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Join the raid",
				Style:    discordgo.SuccessButton,
				CustomID: joinButtonPrefix + strconv.FormatInt(guildID, 10),
				Emoji:    &discordgo.ComponentEmoji{Name: "⚔️"},
			},
		},
	}
}

// handleRaidStart announces a monster, then waits out the join window in the background
func (h *Handler) handleRaidStart(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	guildID, err := guildOf(i)
	if err != nil {
		return nil, err
	}

	w, err := h.ServiceProvider.WorldService.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if w.AdventureChannelID != "" && w.AdventureChannelID != i.ChannelID {
		return nil, dnderr.FailedPreconditionf("raids in this server happen in <#%s>", w.AdventureChannelID)
	}

	lobby, err := h.ServiceProvider.RaidService.Announce(ctx, &raid.AnnounceInput{GuildID: guildID})
	if err != nil {
		return nil, err
	}

	h.raids.Add(1)
	go h.awaitRaid(guildID, func(result *raid.Result) {
		h.publishResult(s, i, result)
	})

	return &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{lobbyEmbed(lobby)},
		Components: []discordgo.MessageComponent{joinButton(guildID)},
	}, nil
}

// awaitRaid runs the raid once its window closes. Shutdown cancels the lobby.
func (h *Handler) awaitRaid(guildID int64, publish func(*raid.Result)) {
	defer h.raids.Done()

	result, err := h.ServiceProvider.RaidService.AwaitStart(h.ctx, guildID)
	if err != nil {
		if h.ctx.Err() == nil {
			h.logger.Error("raid failed", zap.Int64("guild_id", guildID), zap.Error(err))
		}
		return
	}
	publish(result)
}

func (h *Handler) publishResult(s *discordgo.Session, i *discordgo.InteractionCreate, result *raid.Result) {
	// The join button is dead once the fight starts
	none := []discordgo.MessageComponent{}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Components: &none}); err != nil {
		h.logger.Warn("failed to remove join button", zap.Error(err))
	}

	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: mentions(result),
		Embeds:  []*discordgo.MessageEmbed{raidResultEmbed(result)},
	})
	if err != nil {
		h.logger.Error("failed to post raid result",
			zap.Int64("guild_id", result.GuildID),
			zap.Error(err))
	}
}

func mentions(result *raid.Result) string {
	if result.Combat == nil {
		return ""
	}
	var out string
	for _, part := range result.Combat.Participants {
		out += fmt.Sprintf("<@%d> ", part.ID)
	}
	return out
}

func (h *Handler) handleJoinButton(ctx context.Context, i *discordgo.InteractionCreate, rawGuildID string) (*discordgo.InteractionResponseData, error) {
	guildID, ok := parseSnowflake(rawGuildID)
	if !ok {
		return nil, dnderr.InvalidArgumentf("invalid raid %q", rawGuildID)
	}
	playerID, err := caller(i)
	if err != nil {
		return nil, err
	}

	lobby, err := h.ServiceProvider.RaidService.Join(ctx, &raid.JoinInput{
		GuildID:  guildID,
		PlayerID: playerID,
		Name:     displayName(i),
	})
	if err != nil {
		return nil, err
	}
	return ephemeral(fmt.Sprintf("⚔️ You joined the fight against the %s! (%d in the party)",
		lobby.Instance.DisplayName, len(lobby.Members))), nil
}
