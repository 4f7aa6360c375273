package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dungeon-raid-bot/internal/catalog"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/config"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/handlers/discord"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/lease"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/observability"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/players"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/repositories/worlds"
	"github.com/KirkDiggler/dungeon-raid-bot/internal/services"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("bot stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cat, err := loadCatalog(cfg.Game.CatalogDir)
	if err != nil {
		return err
	}

	providerConfig := &services.ProviderConfig{
		Catalog: cat,
		Game:    &cfg.Game,
		Logger:  logger,
	}

	redisClient := connectRedis(ctx, cfg.Redis, logger)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("error closing Redis connection", zap.Error(err))
			}
		}()
		providerConfig.PlayerRepository = players.NewRedis(redisClient)
		providerConfig.WorldRepository = worlds.NewRedis(redisClient)
		providerConfig.Leases = lease.NewRedisManager(&lease.RedisConfig{Client: redisClient})
		logger.Info("using Redis for persistence")
	} else {
		providerConfig.Leases = lease.NewInMemoryManager(nil)
		logger.Info("using in-memory repositories")
	}

	lease.NewReaper(&lease.ReaperConfig{
		Manager:  providerConfig.Leases,
		Interval: cfg.Game.SweepInterval,
		Logger:   logger.Named("lease"),
	}).Start(ctx)

	serviceProvider := services.NewProvider(providerConfig)

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return err
	}

	handler := discord.NewHandler(&discord.HandlerConfig{
		ServiceProvider: serviceProvider,
		Logger:          logger.Named("discord"),
	})
	dg.AddHandler(discord.RecoverMiddleware(logger, "interaction", handler.HandleInteraction))

	if err := dg.Open(); err != nil {
		return err
	}
	defer func() {
		if err := dg.Close(); err != nil {
			logger.Warn("failed to close Discord connection", zap.Error(err))
		}
	}()

	// Use empty string for global commands, or set a specific guild ID for testing
	if err := handler.RegisterCommands(dg, cfg.Discord.GuildID); err != nil {
		return err
	}
	if cfg.Discord.GuildID != "" {
		logger.Info("registered guild commands", zap.String("guild_id", cfg.Discord.GuildID))
	} else {
		logger.Info("registered global commands (may take up to 1 hour to propagate)")
	}

	logger.Info("bot is running, press CTRL-C to exit")
	<-ctx.Done()

	logger.Info("shutting down")
	handler.Close()
	return nil
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default()
	}
	return catalog.LoadDir(dir)
}

// connectRedis returns nil when no URL is configured or the server is unreachable
func connectRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	if cfg.URL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		logger.Warn("failed to parse Redis URL, falling back to in-memory", zap.Error(err))
		return nil
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to connect to Redis, falling back to in-memory", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}
