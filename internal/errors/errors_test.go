package errors_test

import (
	"fmt"
	"testing"

	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCodeAndMeta(t *testing.T) {
	base := dnderr.FailedPreconditionf("need %d soul shards", 1).WithMeta("player_id", int64(7))

	wrapped := dnderr.Wrap(base, "reinforce rejected")

	assert.Equal(t, dnderr.CodeFailedPrecondition, wrapped.Code)
	assert.True(t, dnderr.IsFailedPrecondition(wrapped))
	assert.Equal(t, int64(7), dnderr.GetMeta(wrapped)["player_id"])
	assert.Equal(t, "reinforce rejected: need 1 soul shards", wrapped.Error())
}

func TestWrapForeignErrorIsUnknown(t *testing.T) {
	wrapped := dnderr.Wrap(fmt.Errorf("boom"), "store failed")

	assert.Equal(t, dnderr.CodeUnknown, wrapped.Code)
	assert.Equal(t, dnderr.CodeUnknown, dnderr.GetCode(fmt.Errorf("plain")))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, dnderr.Wrap(nil, "nothing"))
	assert.Nil(t, dnderr.Wrapf(nil, "nothing %d", 1))
	assert.Nil(t, dnderr.WrapWithCode(nil, dnderr.CodeInternal, "nothing"))
}

func TestWrapWithCodeOverrides(t *testing.T) {
	err := dnderr.WrapWithCode(dnderr.NotFoundf("missing"), dnderr.CodeDataLoss, "corrupt")

	assert.True(t, dnderr.IsDataLoss(err))
	assert.False(t, dnderr.IsNotFound(err))
}

func TestPredicatesThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", dnderr.Conflictf("guild %d already raiding", 1))

	assert.True(t, dnderr.IsConflict(err))
	assert.False(t, dnderr.IsInvalidArgument(err))
}
