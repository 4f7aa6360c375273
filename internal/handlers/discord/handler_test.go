package discord

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/catalog"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/raid"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
)

const (
	testGuild = "900"
	testUser  = "1001"
)

type HandlerTestSuite struct {
	suite.Suite
	ctx      context.Context
	provider *services.Provider
	handler  *Handler
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctx = context.Background()
	cat, err := catalog.Default()
	s.Require().NoError(err)

	s.provider = services.NewProvider(&services.ProviderConfig{Catalog: cat})
	s.handler = NewHandler(&HandlerConfig{
		ServiceProvider: s.provider,
		Now:             func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func (s *HandlerTestSuite) TearDownTest() {
	s.handler.Close()
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func subOption(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: options,
	}
}

func groupOption(name string, sub *discordgo.ApplicationCommandInteractionDataOption) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommandGroup,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{sub},
	}
}

func stringValue(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func commandInteraction(userID string, perms int64, option *discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "interaction",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   testGuild,
		ChannelID: "77",
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: userID, Username: "aria"},
			Permissions: perms,
		},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    commandName,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{option},
		},
	}}
}

func (s *HandlerTestSuite) run(i *discordgo.InteractionCreate) (*discordgo.InteractionResponseData, error) {
	group, sub := commandPath(i.ApplicationCommandData())
	fn, ok := s.handler.commands[group+"/"+sub]
	s.Require().True(ok, "route %s/%s", group, sub)
	return fn(s.ctx, nil, i)
}

func (s *HandlerTestSuite) TestEveryRegisteredSubcommandIsRouted() {
	for _, opt := range Commands().Options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionSubCommand:
			s.Contains(s.handler.commands, "/"+opt.Name)
		case discordgo.ApplicationCommandOptionSubCommandGroup:
			for _, sub := range opt.Options {
				s.Contains(s.handler.commands, opt.Name+"/"+sub.Name)
			}
		}
	}
}

func (s *HandlerTestSuite) TestProfileCreatesPlayer() {
	reply, err := s.run(commandInteraction(testUser, 0, subOption("profile")))
	s.Require().NoError(err)
	s.Require().Len(reply.Embeds, 1)
	s.Equal("aria · Lv. 1 Novice", reply.Embeds[0].Title)
}

func (s *HandlerTestSuite) TestUnequipStarterWeapon() {
	reply, err := s.run(commandInteraction(testUser, 0,
		groupOption("item", subOption("unequip", stringValue("id", s.starterID())))))
	s.Require().NoError(err)
	s.Contains(reply.Content, "Unequipped")
	s.NotContains(reply.Embeds[0].Description, "[weapon]")
}

func (s *HandlerTestSuite) starterID() string {
	reply, err := s.run(commandInteraction(testUser, 0, subOption("inventory")))
	s.Require().NoError(err)
	desc := reply.Embeds[0].Description
	start := strings.Index(desc, "`")
	end := strings.Index(desc[start+1:], "`")
	s.Require().True(start >= 0 && end > 0, desc)
	return desc[start+1 : start+1+end]
}

func (s *HandlerTestSuite) TestJoinButton() {
	_, err := s.provider.RaidService.Announce(s.ctx, &raid.AnnounceInput{GuildID: 900})
	s.Require().NoError(err)

	click := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		GuildID: testGuild,
		Member:  &discordgo.Member{User: &discordgo.User{ID: testUser, Username: "aria"}},
		Data:    discordgo.MessageComponentInteractionData{CustomID: joinButtonPrefix + testGuild},
	}}

	reply, err := s.handler.handleJoinButton(s.ctx, click, testGuild)
	s.Require().NoError(err)
	s.Contains(reply.Content, "(1 in the party)")
	s.Equal(discordgo.MessageFlagsEphemeral, reply.Flags)

	_, err = s.handler.handleJoinButton(s.ctx, click, testGuild)
	msg, expected := userMessage(err)
	s.True(expected)
	s.Contains(msg, "already")

	_, err = s.handler.handleJoinButton(s.ctx, click, "not-a-guild")
	s.Error(err)

	s.Require().NoError(s.provider.RaidService.Cancel(s.ctx, 900))
}

func (s *HandlerTestSuite) TestWorldChangesNeedManagePermission() {
	rename := groupOption("world", subOption("name", stringValue("name", "Camelot")))

	_, err := s.run(commandInteraction(testUser, 0, rename))
	msg, expected := userMessage(err)
	s.True(expected)
	s.Contains(msg, "Manage Server")

	reply, err := s.run(commandInteraction(testUser, discordgo.PermissionManageServer, rename))
	s.Require().NoError(err)
	s.Equal("Camelot · Lv. 1", reply.Embeds[0].Title)
}

func (s *HandlerTestSuite) TestRaidChannelIsEnforced() {
	setChannel := groupOption("world", subOption("channel"))
	_, err := s.run(commandInteraction(testUser, discordgo.PermissionManageServer, setChannel))
	s.Require().NoError(err)

	start := commandInteraction(testUser, 0, subOption("start"))
	start.ChannelID = "78"
	_, err = s.run(start)
	msg, expected := userMessage(err)
	s.True(expected)
	s.Contains(msg, "<#77>")
}

func (s *HandlerTestSuite) TestSoulforgeOffer() {
	reply, err := s.run(commandInteraction(testUser, 0, groupOption("shop", subOption("offer"))))
	s.Require().NoError(err)
	s.Contains(reply.Content, "The soulforge offers")
}
