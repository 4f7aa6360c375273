package world_test

import (
	"context"
	"errors"
	"testing"
	"time"

	dnderr "github.com/KirkDiggler/dungeon-raid-bot/internal/errors"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/lease"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/worlds"
	mockworlds "github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/worlds/mock"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(repo worlds.Repository, leases lease.Manager) world.Service {
	return world.NewService(&world.ServiceConfig{
		Repository: repo,
		Leases:     leases,
		Now:        func() time.Time { return testNow },
	})
}

func TestWorldService_GetCreatesOnMiss(t *testing.T) {
	repo := worlds.NewInMemoryRepository()
	svc := newService(repo, lease.NewInMemoryManager(nil))

	w, err := svc.Get(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, 1, w.Level)
	assert.Equal(t, 1, w.MobLevel)

	stored, err := repo.Get(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, testNow, stored.LastActive)
}

func TestWorldService_Updates(t *testing.T) {
	ctx := context.Background()
	svc := newService(worlds.NewInMemoryRepository(), lease.NewInMemoryManager(nil))

	w, err := svc.SetName(ctx, &world.UpdateInput{GuildID: 1, Value: "  Dragonspine "})
	require.NoError(t, err)
	assert.Equal(t, "Dragonspine", w.Name)

	w, err = svc.SetColour(ctx, &world.UpdateInput{GuildID: 1, Value: "#00FF00"})
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", w.Colour)
	assert.Equal(t, "Dragonspine", w.Name)

	w, err = svc.SetAdventureChannel(ctx, &world.UpdateInput{GuildID: 1, Value: "555"})
	require.NoError(t, err)
	assert.Equal(t, "555", w.AdventureChannelID)

	_, err = svc.SetName(ctx, &world.UpdateInput{GuildID: 1, Value: " "})
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestWorldService_RejectsDuringRaid(t *testing.T) {
	ctx := context.Background()
	leases := lease.NewInMemoryManager(nil)
	svc := newService(worlds.NewInMemoryRepository(), leases)

	_, err := leases.Acquire(ctx, lease.GuildKey(1), lease.DefaultTTL)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, &world.UpdateInput{GuildID: 1, Value: "busy"})
	assert.True(t, dnderr.IsConflict(err))
}

func TestWorldService_LoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mockworlds.NewMockRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), int64(1)).Return(nil, dnderr.DataLossf("world 1 record is missing its level"))

	svc := newService(repo, lease.NewInMemoryManager(nil))
	_, err := svc.Get(context.Background(), 1)
	assert.True(t, dnderr.IsDataLoss(err))
}

func TestWorldService_SaveFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mockworlds.NewMockRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), int64(1)).Return(nil, dnderr.NotFoundf("world 1 not found"))
	repo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := newService(repo, lease.NewInMemoryManager(nil))
	_, err := svc.Get(context.Background(), 1)
	assert.ErrorContains(t, err, "failed to create world 1")
}
