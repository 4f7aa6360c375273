package discord

import (
	"errors"

	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
)

const genericFailure = "Something went wrong, please try again later."

// userMessage turns a service error into text safe to show in Discord.
// Only caller mistakes and game rule rejections are echoed back.
func userMessage(err error) (string, bool) {
	switch dnderr.GetCode(err) {
	case dnderr.CodeInvalidArgument,
		dnderr.CodeValidation,
		dnderr.CodeNotFound,
		dnderr.CodeAlreadyExists,
		dnderr.CodeFailedPrecondition,
		dnderr.CodeConflict:
	default:
		return genericFailure, false
	}

	// Prefer the innermost reason over the wrapping context
	var msg string
	for e := err; e != nil; e = errors.Unwrap(e) {
		if de, ok := e.(*dnderr.Error); ok {
			msg = de.Message
		}
	}
	if msg == "" {
		msg = err.Error()
	}
	return msg, true
}
