package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Discord DiscordConfig `mapstructure:"discord"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `mapstructure:"token"`
	AppID   string `mapstructure:"app_id"`
	GuildID string `mapstructure:"guild_id"` // Optional: for guild-specific commands
}

// RedisConfig holds Redis-specific configuration. An empty URL keeps everything in memory.
type RedisConfig struct {
	URL         string        `mapstructure:"url"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// LoggingConfig holds structured logging settings
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Format is "json" or "console"
	Format string `mapstructure:"format"`
}

// GameConfig holds the tunable game rules
type GameConfig struct {
	LevelCap         int     `mapstructure:"level_cap"`
	GuildLevelCap    int     `mapstructure:"guild_level_cap"`
	InventorySize    int     `mapstructure:"inventory_size"`
	MaxReinforcement int     `mapstructure:"max_reinforcement"`
	ExpMultiplier    float64 `mapstructure:"exp_multiplier"`
	MaxRounds        int     `mapstructure:"max_rounds"`

	// RaidLockTTL is how long a raid lease outlives a crashed bot
	RaidLockTTL   time.Duration `mapstructure:"raid_lock_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`

	// Seed makes every roll reproducible when non-zero
	Seed int64 `mapstructure:"seed"`

	// CatalogDir overrides the embedded item, monster and job data
	CatalogDir string `mapstructure:"catalog_dir"`
}

// Load reads configuration from an optional YAML file and RAID_ prefixed
// environment variables, then validates the result
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RAID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already configured viper instance
func LoadFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every violation at once
func (c *Config) Validate() error {
	var errs []string

	if c.Discord.Token == "" {
		errs = append(errs, "discord.token is required")
	}
	if c.Discord.AppID == "" {
		errs = append(errs, "discord.app_id is required")
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.LevelCap < 1 {
		errs = append(errs, fmt.Sprintf("game.level_cap must be >= 1, got %d", g.LevelCap))
	}
	if g.GuildLevelCap < 1 {
		errs = append(errs, fmt.Sprintf("game.guild_level_cap must be >= 1, got %d", g.GuildLevelCap))
	}
	if g.InventorySize < 1 {
		errs = append(errs, fmt.Sprintf("game.inventory_size must be >= 1, got %d", g.InventorySize))
	}
	if g.MaxReinforcement < 0 {
		errs = append(errs, fmt.Sprintf("game.max_reinforcement must be >= 0, got %d", g.MaxReinforcement))
	}
	if g.ExpMultiplier <= 0 {
		errs = append(errs, fmt.Sprintf("game.exp_multiplier must be > 0, got %g", g.ExpMultiplier))
	}
	if g.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("game.max_rounds must be >= 1, got %d", g.MaxRounds))
	}
	if g.RaidLockTTL <= 0 {
		errs = append(errs, "game.raid_lock_ttl must be positive")
	}
	if g.SweepInterval <= 0 {
		errs = append(errs, "game.sweep_interval must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Registered so AutomaticEnv can see them during Unmarshal
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.app_id", "")
	v.SetDefault("discord.guild_id", "")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.dial_timeout", "5s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.level_cap", 200)
	v.SetDefault("game.guild_level_cap", 100)
	v.SetDefault("game.inventory_size", 20)
	v.SetDefault("game.max_reinforcement", 25)
	v.SetDefault("game.exp_multiplier", 1.5)
	v.SetDefault("game.max_rounds", 500)
	v.SetDefault("game.raid_lock_ttl", "180s")
	v.SetDefault("game.sweep_interval", "10m")
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.catalog_dir", "")
}
