package discord

import (
	"fmt"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// RecoverMiddleware wraps handler functions to recover from panics
func RecoverMiddleware(logger *zap.Logger, handlerName string, handler func(*discordgo.Session, *discordgo.InteractionCreate)) func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("handler panicked",
					zap.String("handler", handlerName),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))

				respondWithError(logger, s, i, genericFailure)
			}
		}()

		handler(s, i)
	}
}

// respondWithError attempts to send an error message to the user
func respondWithError(logger *zap.Logger, s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	// Try different response methods based on interaction state
	responses := []func() error{
		// Try responding if not yet responded
		func() error {
			return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: ephemeral(fmt.Sprintf("❌ %s", message)),
			})
		},
		// Try followup if the interaction was already answered
		func() error {
			_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
				Content: fmt.Sprintf("❌ %s", message),
				Flags:   discordgo.MessageFlagsEphemeral,
			})
			return err
		},
	}

	for _, respond := range responses {
		if err := respond(); err == nil {
			return
		}
	}

	logger.Warn("failed to send error response", zap.String("message", message))
}
