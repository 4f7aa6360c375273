//go:build integration

package raid_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/catalog"
	mockdice "github.com/KirkDiggler/dungeon-raid-bot/internal/dice/mock"
	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/lease"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/players"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/worlds"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/player"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/raid"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaidAgainstRedis(t *testing.T) {
	ctx := context.Background()
	client := testutils.StartRedisContainer(t)

	cat, err := catalog.Default()
	require.NoError(t, err)

	playerRepo := players.NewRedis(client)
	worldRepo := worlds.NewRedis(client)
	leases := lease.NewRedisManager(&lease.RedisConfig{Client: client})
	roller := mockdice.NewManualMockRoller(0.5)

	playerService := player.NewService(&player.ServiceConfig{
		Repository: playerRepo,
		Leases:     leases,
		Catalog:    cat,
		Roller:     roller,
	})
	svc := raid.NewService(&raid.ServiceConfig{
		Players:       playerRepo,
		Worlds:        worldRepo,
		PlayerService: playerService,
		Leases:        leases,
		Catalog:       cat,
		Roller:        roller,
	})

	hero := testutils.NewTestPlayer(1, "Aria", 10, time.Now())
	hero.Stats.Str = 1000
	require.NoError(t, playerRepo.Put(ctx, hero))

	_, err = svc.Announce(ctx, &raid.AnnounceInput{GuildID: guildID})
	require.NoError(t, err)
	_, err = svc.Join(ctx, &raid.JoinInput{GuildID: guildID, PlayerID: 1})
	require.NoError(t, err)

	// The roster lease is a real SET NX key
	_, err = leases.Acquire(ctx, lease.PlayerKey(1), time.Minute)
	assert.True(t, dnderr.IsConflict(err))

	result, err := svc.Start(ctx, guildID)
	require.NoError(t, err)
	assert.True(t, result.Combat.Victory)

	stored, err := playerRepo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Chest)
	assert.Equal(t, 1, stored.KilledMobs)

	w, err := worldRepo.Get(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, 1, w.KilledMobs)

	for _, key := range []string{lease.GuildKey(guildID), lease.PlayerKey(1)} {
		held, err := leases.Held(ctx, key)
		require.NoError(t, err)
		assert.False(t, held, key)
	}

	leaderboard, err := playerService.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, leaderboard, 1)
	assert.Equal(t, "Aria", leaderboard[0].Name)
}
