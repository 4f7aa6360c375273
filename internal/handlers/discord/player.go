package discord

import (
	"context"
	"fmt"
	"strconv"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/equipment"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/player"
	"github.com/bwmarrin/discordgo"
)

// caller resolves the invoking user to a player ID
func caller(i *discordgo.InteractionCreate) (int64, error) {
	u := invoker(i)
	if u == nil {
		return 0, dnderr.InvalidArgument("could not tell who sent this command")
	}
	id, ok := parseSnowflake(u.ID)
	if !ok {
		return 0, dnderr.InvalidArgumentf("invalid user ID %q", u.ID)
	}
	return id, nil
}

func (h *Handler) handleProfile(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	name := displayName(i)

	data := i.ApplicationCommandData()
	if other, ok := userOption(data, "user"); ok && other != id {
		id, name = other, ""
		if data.Resolved != nil {
			if u, found := data.Resolved.Users[strconv.FormatInt(other, 10)]; found {
				name = u.Username
			}
		}
	}

	p, err := h.ServiceProvider.PlayerService.Get(ctx, &player.GetInput{PlayerID: id, Name: name})
	if err != nil {
		return nil, err
	}
	return embedReply(profileEmbed(p), ""), nil
}

func (h *Handler) handleInventory(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	p, err := h.ServiceProvider.PlayerService.Get(ctx, &player.GetInput{PlayerID: id, Name: displayName(i)})
	if err != nil {
		return nil, err
	}
	reply := embedReply(inventoryEmbed(p), "")
	reply.Flags = discordgo.MessageFlagsEphemeral
	return reply, nil
}

func (h *Handler) handleLeaderboard(ctx context.Context, _ *discordgo.Session, _ *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	top, err := h.ServiceProvider.PlayerService.Leaderboard(ctx, 10)
	if err != nil {
		return nil, err
	}
	return embedReply(leaderboardEmbed(top), ""), nil
}

func (h *Handler) handleDelete(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	opt := findOption(i.ApplicationCommandData().Options, "confirm")
	if opt == nil || !opt.BoolValue() {
		return ephemeral("Nothing was deleted."), nil
	}
	if err := h.ServiceProvider.PlayerService.Delete(ctx, &player.PlayerInput{PlayerID: id}); err != nil {
		return nil, err
	}
	return ephemeral("Your adventurer has been erased."), nil
}

// itemCommand runs a single-item operation and replies with the updated inventory
func (h *Handler) itemCommand(ctx context.Context, i *discordgo.InteractionCreate, verb string,
	op func(context.Context, *player.ItemInput) (*character.Player, error)) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	itemID := stringOption(i.ApplicationCommandData(), "id")
	p, err := op(ctx, &player.ItemInput{PlayerID: id, ItemID: itemID})
	if err != nil {
		return nil, err
	}
	reply := embedReply(inventoryEmbed(p), fmt.Sprintf("✅ %s `%s`", verb, itemID))
	reply.Flags = discordgo.MessageFlagsEphemeral
	return reply, nil
}

func (h *Handler) handleEquip(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.itemCommand(ctx, i, "Equipped", h.ServiceProvider.PlayerService.Equip)
}

func (h *Handler) handleUnequip(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.itemCommand(ctx, i, "Unequipped", h.ServiceProvider.PlayerService.Unequip)
}

func (h *Handler) handleDrop(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.itemCommand(ctx, i, "Dropped", h.ServiceProvider.PlayerService.DropItem)
}

func (h *Handler) handleReinforce(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	out, err := h.ServiceProvider.PlayerService.Reinforce(ctx, &player.ItemInput{
		PlayerID: id,
		ItemID:   stringOption(i.ApplicationCommandData(), "id"),
	})
	if err != nil {
		return nil, err
	}
	return &discordgo.InteractionResponseData{Content: reinforceMessage(out)}, nil
}

func reinforceMessage(out *player.ReinforceOutput) string {
	switch out.Outcome {
	case equipment.OutcomeSuccess:
		return fmt.Sprintf("✨ %s is now +%d!", out.Item.Name, out.Item.Reinforced)
	case equipment.OutcomeDowngraded:
		return fmt.Sprintf("💢 The reinforcement failed and %s dropped to +%d.", out.Item.Name, out.Item.Reinforced)
	case equipment.OutcomeDestroyed:
		return fmt.Sprintf("💥 %s shattered! %d soul shard(s) were recovered.", out.Item.Name, out.Refund)
	default:
		return fmt.Sprintf("The reinforcement failed. %s stays at +%d.", out.Item.Name, out.Item.Reinforced)
	}
}

func (h *Handler) handleTransfer(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	data := i.ApplicationCommandData()
	to, ok := userOption(data, "user")
	if !ok {
		return nil, dnderr.InvalidArgument("pick someone to receive the item")
	}
	out, err := h.ServiceProvider.PlayerService.Transfer(ctx, &player.TransferInput{
		FromID: id,
		ToID:   to,
		ItemID: stringOption(data, "id"),
	})
	if err != nil {
		return nil, err
	}
	return &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("📦 <@%d> handed %s to <@%d>", id, out.Item.Name, to),
	}, nil
}

func (h *Handler) handleChest(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	guildLevel := 1
	if guildID, ok := parseSnowflake(i.GuildID); ok {
		w, err := h.ServiceProvider.WorldService.Get(ctx, guildID)
		if err != nil {
			return nil, err
		}
		guildLevel = w.Level
	}

	out, err := h.ServiceProvider.PlayerService.OpenChest(ctx, &player.OpenChestInput{PlayerID: id, GuildLevel: guildLevel})
	if err != nil {
		return nil, err
	}
	if out.SoulShard {
		return &discordgo.InteractionResponseData{Content: "🔮 The chest held a soul shard!"}, nil
	}
	return &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("🎁 The chest held %s (`%s`)", out.Item.Name, out.Item.ID),
	}, nil
}

func (h *Handler) handleSoulforgeOffer(_ context.Context, _ *discordgo.Session, _ *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	offer, err := h.ServiceProvider.PlayerService.SoulforgeOffer(h.now())
	if err != nil {
		return nil, err
	}
	return ephemeral(fmt.Sprintf("🔥 The soulforge offers **Lv. %d %s** (%s). The offer changes every hour.",
		offer.Level, offer.Name, offer.Category)), nil
}

func (h *Handler) handleSoulforge(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	out, err := h.ServiceProvider.PlayerService.Soulforge(ctx, &player.PlayerInput{PlayerID: id})
	if err != nil {
		return nil, err
	}
	return &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("🔥 <@%d> forged %s!", id, out.Item.Name),
	}, nil
}

func (h *Handler) handleChangeJob(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	out, err := h.ServiceProvider.PlayerService.ChangeJob(ctx, &player.ChangeJobInput{
		PlayerID: id,
		Job:      stringOption(i.ApplicationCommandData(), "job"),
	})
	if err != nil {
		return nil, err
	}
	content := fmt.Sprintf("You are now a %s.", jobTitle(out.Player.Job))
	if out.StatsReset {
		content += " Your stats were reset for the change."
	}
	return embedReply(profileEmbed(out.Player), content), nil
}

func (h *Handler) handleAddStats(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	data := i.ApplicationCommandData()
	p, err := h.ServiceProvider.PlayerService.AddStats(ctx, &player.AddStatsInput{
		PlayerID: id,
		Stat:     stringOption(data, "stat"),
		Points:   int(intOption(data, "points")),
	})
	if err != nil {
		return nil, err
	}
	reply := embedReply(profileEmbed(p), "")
	reply.Flags = discordgo.MessageFlagsEphemeral
	return reply, nil
}

func (h *Handler) handleResetStats(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.profileCommand(ctx, i, "Your stats were reset.", h.ServiceProvider.PlayerService.ResetStats)
}

func (h *Handler) handleRebirth(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.profileCommand(ctx, i, "🌅 You were reborn!", h.ServiceProvider.PlayerService.Rebirth)
}

func (h *Handler) profileCommand(ctx context.Context, i *discordgo.InteractionCreate, content string,
	op func(context.Context, *player.PlayerInput) (*character.Player, error)) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	p, err := op(ctx, &player.PlayerInput{PlayerID: id})
	if err != nil {
		return nil, err
	}
	return embedReply(profileEmbed(p), content), nil
}

func (h *Handler) handlePlayerStatus(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.cosmeticCommand(ctx, i, "text", h.ServiceProvider.PlayerService.SetStatus)
}

func (h *Handler) handlePlayerColour(ctx context.Context, _ *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	return h.cosmeticCommand(ctx, i, "hex", h.ServiceProvider.PlayerService.SetColour)
}

func (h *Handler) cosmeticCommand(ctx context.Context, i *discordgo.InteractionCreate, option string,
	op func(context.Context, *player.CosmeticInput) (*character.Player, error)) (*discordgo.InteractionResponseData, error) {
	id, err := caller(i)
	if err != nil {
		return nil, err
	}
	p, err := op(ctx, &player.CosmeticInput{PlayerID: id, Value: stringOption(i.ApplicationCommandData(), option)})
	if err != nil {
		return nil, err
	}
	reply := embedReply(profileEmbed(p), "")
	reply.Flags = discordgo.MessageFlagsEphemeral
	return reply, nil
}
