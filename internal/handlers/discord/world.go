package discord

import (
	"context"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/world"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	worldService "github.com/KirkDiggler/dungeon-raid-bot/internal/services/world"
	"github.com/bwmarrin/discordgo"
)

func guildOf(i *discordgo.InteractionCreate) (int64, error) {
	id, ok := parseSnowflake(i.GuildID)
	if !ok {
		return 0, dnderr.InvalidArgument("this command only works inside a server")
	}
	return id, nil
}

// requireManager rejects members without the Manage Server permission
func requireManager(i *discordgo.InteractionCreate) error {
	if i.Member == nil || i.Member.Permissions&discordgo.PermissionManageServer == 0 {
		return dnderr.FailedPrecondition("you need the Manage Server permission to change the world")
	}
	return nil
}

func (h *Handler) handleWorldInfo(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	guildID, err := guildOf(i)
	if err != nil {
		return nil, err
	}
	w, err := h.ServiceProvider.WorldService.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return embedReply(worldEmbed(w), ""), nil
}

func (h *Handler) worldCommand(ctx context.Context, i *discordgo.InteractionCreate, value string,
	op func(context.Context, *worldService.UpdateInput) (*world.World, error)) (*discordgo.InteractionResponseData, error) {
	guildID, err := guildOf(i)
	if err != nil {
		return nil, err
	}
	if err := requireManager(i); err != nil {
		return nil, err
	}
	w, err := op(ctx, &worldService.UpdateInput{GuildID: guildID, Value: value})
	if err != nil {
		return nil, err
	}
	return embedReply(worldEmbed(w), "✅ World updated"), nil
}

func (h *Handler) handleWorldName(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.worldCommand(ctx, i, stringOption(i.ApplicationCommandData(), "name"), h.ServiceProvider.WorldService.SetName)
}

func (h *Handler) handleWorldStatus(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.worldCommand(ctx, i, stringOption(i.ApplicationCommandData(), "text"), h.ServiceProvider.WorldService.SetStatus)
}

func (h *Handler) handleWorldColour(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.worldCommand(ctx, i, stringOption(i.ApplicationCommandData(), "hex"), h.ServiceProvider.WorldService.SetColour)
}

func (h *Handler) handleWorldChannel(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.worldCommand(ctx, i, i.ChannelID, h.ServiceProvider.WorldService.SetAdventureChannel)
}
