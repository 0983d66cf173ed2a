package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides applied after the config file is parsed.
const (
	EnvBotToken     = "BOT_TOKEN"
	EnvGuildID      = "GUILD_ID"
	EnvOwnerID      = "OWNER_ID"
	EnvRecheckMS    = "RECHECK_MS"
	EnvProductName  = "PRODUCT_NAME"
	EnvProductURL   = "PRODUCT_URL"
	EnvDatabasePath = "DATABASE_PATH"
)

// LoadGlobalConfig loads configuration from a YAML file, applies environment
// variable overrides, and validates the result. A missing file is not an
// error when providedPath is empty: defaults plus environment are used.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	if providedPath != "" {
		data, err := os.ReadFile(providedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", providedPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", providedPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *GlobalConfig) {
	if token := os.Getenv(EnvBotToken); token != "" {
		cfg.DiscordConfig.Token = token
	}
	if guildID := os.Getenv(EnvGuildID); guildID != "" {
		cfg.DiscordConfig.GuildID = guildID
	}
	if ownerID := os.Getenv(EnvOwnerID); ownerID != "" {
		cfg.DiscordConfig.OwnerID = ownerID
	}
	if name := os.Getenv(EnvProductName); name != "" {
		cfg.ProductConfig.Name = name
	}
	if url := os.Getenv(EnvProductURL); url != "" {
		cfg.ProductConfig.URL = url
	}
	if dbPath := os.Getenv(EnvDatabasePath); dbPath != "" {
		cfg.StorageConfig.DatabasePath = dbPath
	}

	// Recheck interval is expressed in milliseconds for compatibility with
	// existing deployments.
	if ms := os.Getenv(EnvRecheckMS); ms != "" {
		if parsed, err := strconv.ParseInt(ms, 10, 64); err == nil && parsed > 0 {
			cfg.WatcherConfig.RecheckInterval = time.Duration(parsed) * time.Millisecond
		}
	}
}
