package config

import (
	"time"

	"github.com/riisdev/updatebot/internal/logger"
)

// GlobalConfig contains all configuration sections for the application.
type GlobalConfig struct {
	DiscordConfig DiscordConfig `json:"discord,omitempty" yaml:"discord,omitempty"`
	WatcherConfig WatcherConfig `json:"watcher,omitempty" yaml:"watcher,omitempty"`
	ProductConfig ProductConfig `json:"product,omitempty" yaml:"product,omitempty"`
	StorageConfig StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty"`
	LogConfig     logger.Config `json:"log,omitempty" yaml:"log,omitempty"`
}

// DiscordConfig contains Discord-specific settings.
type DiscordConfig struct {
	Token   string `json:"token,omitempty" yaml:"token,omitempty" validate:"required"`
	GuildID string `json:"guild_id,omitempty" yaml:"guild_id,omitempty" validate:"required,number"`
	OwnerID string `json:"owner_id,omitempty" yaml:"owner_id,omitempty" validate:"required,number"`
}

// WatcherConfig contains settings for the version-watch engine.
type WatcherConfig struct {
	RecheckInterval     time.Duration `json:"recheck_interval,omitempty" yaml:"recheck_interval,omitempty" validate:"min=1s"`
	RequestTimeout      time.Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty" validate:"min=1s"`
	MaxConcurrentChecks int           `json:"max_concurrent_checks,omitempty" yaml:"max_concurrent_checks,omitempty" validate:"min=1"`
	UserAgent           string        `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Accept              string        `json:"accept,omitempty" yaml:"accept,omitempty"`
}

// ProductConfig identifies the product the bot reports on.
type ProductConfig struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
}

// StorageConfig contains persistence settings.
type StorageConfig struct {
	DatabasePath string `json:"database_path,omitempty" yaml:"database_path,omitempty" validate:"required"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values.
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		DiscordConfig: DiscordConfig{},
		WatcherConfig: NewDefaultWatcherConfig(),
		ProductConfig: ProductConfig{},
		StorageConfig: StorageConfig{
			DatabasePath: "data/botdata.db",
		},
		LogConfig: logger.NewDefaultConfig(),
	}
}

// NewDefaultWatcherConfig creates default watcher configuration.
func NewDefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		RecheckInterval:     30 * time.Minute,
		RequestTimeout:      30 * time.Second,
		MaxConcurrentChecks: 4,
		UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:138.0) Gecko/20100101 Firefox/138.0",
		Accept:              "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	}
}
