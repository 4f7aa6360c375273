package discord

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// commandPath returns the subcommand group and subcommand names of a /raid invocation
func commandPath(data discordgo.ApplicationCommandInteractionData) (group, sub string) {
	if len(data.Options) == 0 {
		return "", ""
	}
	first := data.Options[0]
	switch first.Type {
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if len(first.Options) > 0 {
			return first.Name, first.Options[0].Name
		}
		return first.Name, ""
	case discordgo.ApplicationCommandOptionSubCommand:
		return "", first.Name
	}
	return "", ""
}

// findOption searches the option tree, drilling through subcommand groups and subcommands
func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for len(options) > 0 {
		for _, opt := range options {
			if opt.Name == name {
				return opt
			}
		}
		if len(options[0].Options) == 0 {
			break
		}
		options = options[0].Options
	}
	return nil
}

func stringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	opt := findOption(data.Options, name)
	if opt == nil {
		return ""
	}
	return opt.StringValue()
}

func intOption(data discordgo.ApplicationCommandInteractionData, name string) int64 {
	opt := findOption(data.Options, name)
	if opt == nil {
		return 0
	}
	return opt.IntValue()
}

// userOption returns the snowflake of a user option without resolving it through the session
func userOption(data discordgo.ApplicationCommandInteractionData, name string) (int64, bool) {
	opt := findOption(data.Options, name)
	if opt == nil {
		return 0, false
	}
	id, ok := opt.Value.(string)
	if !ok {
		return 0, false
	}
	return parseSnowflake(id)
}

func parseSnowflake(id string) (int64, bool) {
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// invoker returns the user behind an interaction in guilds and DMs alike
func invoker(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func displayName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	if u := invoker(i); u != nil {
		if u.GlobalName != "" {
			return u.GlobalName
		}
		return u.Username
	}
	return ""
}
