package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/character"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/domain/stats"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	commandName = "raid"

	joinButtonPrefix = "raid:join:"
)

// commandFunc handles one subcommand and returns the reply to send
type commandFunc func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error)

// Handler handles all Discord interactions
type Handler struct {
	ServiceProvider *services.Provider
	logger          *zap.Logger
	commands        map[string]commandFunc
	now             func() time.Time

	// ctx outlives individual interactions so raid lobbies can wait out their join window
	ctx    context.Context
	cancel context.CancelFunc
	raids  sync.WaitGroup
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	ServiceProvider *services.Provider
	Logger          *zap.Logger
	Now             func() time.Time
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg.ServiceProvider == nil {
		panic("service provider is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Handler{
		ServiceProvider: cfg.ServiceProvider,
		logger:          logger,
		ctx:             ctx,
		cancel:          cancel,
		now:             cfg.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}
	h.commands = map[string]commandFunc{
		"/start":       h.handleRaidStart,
		"/profile":     h.handleProfile,
		"/inventory":   h.handleInventory,
		"/leaderboard": h.handleLeaderboard,
		"/delete":      h.handleDelete,

		"item/equip":     h.handleEquip,
		"item/unequip":   h.handleUnequip,
		"item/drop":      h.handleDrop,
		"item/reinforce": h.handleReinforce,
		"item/transfer":  h.handleTransfer,

		"shop/chest":     h.handleChest,
		"shop/offer":     h.handleSoulforgeOffer,
		"shop/soulforge": h.handleSoulforge,

		"progress/job":     h.handleChangeJob,
		"progress/stats":   h.handleAddStats,
		"progress/reset":   h.handleResetStats,
		"progress/rebirth": h.handleRebirth,

		"customize/status": h.handlePlayerStatus,
		"customize/colour": h.handlePlayerColour,

		"world/info":    h.handleWorldInfo,
		"world/name":    h.handleWorldName,
		"world/status":  h.handleWorldStatus,
		"world/colour":  h.handleWorldColour,
		"world/channel": h.handleWorldChannel,
	}
	return h
}

// Close cancels every open raid lobby and waits for them to release their leases
func (h *Handler) Close() {
	h.cancel()
	h.raids.Wait()
}

// RegisterCommands registers the slash commands. An empty guildID registers globally.
func (h *Handler) RegisterCommands(s *discordgo.Session, guildID string) error {
	_, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, guildID, []*discordgo.ApplicationCommand{Commands()})
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	return nil
}

// Commands describes the /raid command tree
func Commands() *discordgo.ApplicationCommand {
	itemID := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "id",
		Description: "Item ID from your inventory",
		Required:    true,
	}
	text := func(name, description string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        name,
			Description: description,
			Required:    true,
		}
	}
	sub := func(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        name,
			Description: description,
			Options:     options,
		}
	}
	group := func(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Name:        name,
			Description: description,
			Options:     options,
		}
	}

	jobChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(character.Jobs))
	for _, j := range character.Jobs {
		jobChoices = append(jobChoices, &discordgo.ApplicationCommandOptionChoice{Name: jobTitle(j), Value: string(j)})
	}
	statChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(stats.Primaries))
	for _, a := range stats.Primaries {
		statChoices = append(statChoices, &discordgo.ApplicationCommandOptionChoice{Name: strings.ToUpper(string(a)), Value: string(a)})
	}
	minPoints := float64(1)

	return &discordgo.ApplicationCommand{
		Name:        commandName,
		Description: "Guild raids and adventurer progression",
		Options: []*discordgo.ApplicationCommandOption{
			sub("start", "Summon a monster for the guild to fight"),
			sub("profile", "Show an adventurer's profile", &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Whose profile to show",
			}),
			sub("inventory", "List your items"),
			sub("leaderboard", "Top adventurers"),
			sub("delete", "Erase all of your progress", &discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "confirm",
				Description: "This cannot be undone",
				Required:    true,
			}),
			group("item", "Manage your gear",
				sub("equip", "Wear an item", itemID),
				sub("unequip", "Take an item off", itemID),
				sub("drop", "Throw an item away", itemID),
				sub("reinforce", "Spend a soul shard to reinforce an item", itemID),
				sub("transfer", "Give an item to another adventurer", itemID, &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Who receives the item",
					Required:    true,
				}),
			),
			group("shop", "Spend chests and soul shards",
				sub("chest", "Open a chest"),
				sub("offer", "See the soulforge's legendary offer"),
				sub("soulforge", "Buy the soulforge's legendary offer"),
			),
			group("progress", "Grow your adventurer",
				sub("job", "Change job", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "job",
					Description: "The job to take",
					Required:    true,
					Choices:     jobChoices,
				}),
				sub("stats", "Spend stat points",
					&discordgo.ApplicationCommandOption{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "stat",
						Description: "Stat to train",
						Required:    true,
						Choices:     statChoices,
					},
					&discordgo.ApplicationCommandOption{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "points",
						Description: "How many points",
						Required:    true,
						MinValue:    &minPoints,
						MaxValue:    100,
					},
				),
				sub("reset", "Refund your stat points for ten levels"),
				sub("rebirth", "Start over at level 1 with permanent potential"),
			),
			group("customize", "Decorate your profile",
				sub("status", "Set your status line", text("text", "New status")),
				sub("colour", "Set your profile colour", text("hex", "Colour like #ff8800")),
			),
			group("world", "Guild world settings",
				sub("info", "Show the guild's world"),
				sub("name", "Rename the world", text("name", "New name")),
				sub("status", "Set the world status", text("text", "New status")),
				sub("colour", "Set the world colour", text("hex", "Colour like #ff8800")),
				sub("channel", "Hold raids in this channel"),
			),
		},
	}
}

// HandleInteraction routes a Discord interaction to its handler
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		h.handleComponent(s, i)
	}
}

func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != commandName {
		return
	}

	group, sub := commandPath(data)
	route := group + "/" + sub
	fn, ok := h.commands[route]
	if !ok {
		h.logger.Warn("unknown command", zap.String("route", route))
		return
	}

	reply, err := fn(h.ctx, s, i)
	if err != nil {
		h.respondError(s, i, route, err)
		return
	}
	h.respond(s, i, reply)
}

func (h *Handler) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if !strings.HasPrefix(customID, joinButtonPrefix) {
		return
	}

	reply, err := h.handleJoinButton(h.ctx, i, strings.TrimPrefix(customID, joinButtonPrefix))
	if err != nil {
		h.respondError(s, i, "join", err)
		return
	}
	h.respond(s, i, reply)
}

func (h *Handler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, reply *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: reply,
	})
	if err != nil {
		h.logger.Error("failed to respond to interaction", zap.String("interaction_id", i.ID), zap.Error(err))
	}
}

func (h *Handler) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, route string, err error) {
	msg, expected := userMessage(err)
	if !expected {
		h.logger.Error("command failed", zap.String("route", route), zap.Error(err))
	}
	h.respond(s, i, ephemeral("❌ "+msg))
}

func ephemeral(content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
}

func embedReply(embed *discordgo.MessageEmbed, content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
}
