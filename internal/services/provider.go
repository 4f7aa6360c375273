package services

import (
	"time"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/catalog"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/config"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/dice"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/lease"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/players"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/worlds"
	playerService "github.com/KirkDiggler/dungeon-raid-bot/internal/services/player"
	raidService "github.com/KirkDiggler/dungeon-raid-bot/internal/services/raid"
	worldService "github.com/KirkDiggler/dungeon-raid-bot/internal/services/world"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/uuid"
	"go.uber.org/zap"
)

// Provider holds all service instances
type Provider struct {
	PlayerService playerService.Service
	WorldService  worldService.Service
	RaidService   raidService.Service
	Leases        lease.Manager
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Catalog          *catalog.Catalog // Required
	PlayerRepository players.Repository
	WorldRepository  worlds.Repository
	Leases           lease.Manager
	Game             *config.GameConfig
	Logger           *zap.Logger
	Now              func() time.Time
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	if cfg.Catalog == nil {
		panic("catalog is required")
	}

	// Use in-memory repositories if none provided
	playerRepo := cfg.PlayerRepository
	if playerRepo == nil {
		playerRepo = players.NewInMemoryRepository()
	}

	worldRepo := cfg.WorldRepository
	if worldRepo == nil {
		worldRepo = worlds.NewInMemoryRepository()
	}

	leases := cfg.Leases
	if leases == nil {
		leases = lease.NewInMemoryManager(&lease.InMemoryConfig{Now: cfg.Now})
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	playerRules := playerService.DefaultRules()
	raidRules := raidService.DefaultRules()
	roller := dice.NewRandomRoller()
	if game := cfg.Game; game != nil {
		playerRules.LevelCap = game.LevelCap
		playerRules.InventorySize = game.InventorySize
		playerRules.MaxReinforcement = game.MaxReinforcement

		raidRules.LockTTL = game.RaidLockTTL
		raidRules.MaxRounds = game.MaxRounds
		raidRules.Rewards.PlayerLevelCap = game.LevelCap
		raidRules.Rewards.GuildLevelCap = game.GuildLevelCap
		raidRules.Rewards.ExpMultiplier = game.ExpMultiplier

		if game.Seed != 0 {
			roller = dice.NewSeededRoller(game.Seed)
		}
	}
	ids := uuid.NewGoogleUUIDGenerator()

	playerSvc := playerService.NewService(&playerService.ServiceConfig{
		Repository:    playerRepo,
		Leases:        leases,
		Catalog:       cfg.Catalog,
		Roller:        roller,
		UUIDGenerator: ids,
		Logger:        logger.Named("player"),
		Now:           cfg.Now,
		Rules:         &playerRules,
	})

	worldSvc := worldService.NewService(&worldService.ServiceConfig{
		Repository: worldRepo,
		Leases:     leases,
		Logger:     logger.Named("world"),
		Now:        cfg.Now,
	})

	raidSvc := raidService.NewService(&raidService.ServiceConfig{
		Players:       playerRepo,
		Worlds:        worldRepo,
		PlayerService: playerSvc,
		Leases:        leases,
		Catalog:       cfg.Catalog,
		Roller:        roller,
		UUIDGenerator: ids,
		Logger:        logger.Named("raid"),
		Now:           cfg.Now,
		Rules:         &raidRules,
	})

	return &Provider{
		PlayerService: playerSvc,
		WorldService:  worldSvc,
		RaidService:   raidSvc,
		Leases:        leases,
	}
}
