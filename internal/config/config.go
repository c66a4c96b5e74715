// Package config loads server configuration from a yaml file with
// environment-variable overrides (LIFEGAME_* prefix) and sane defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration for the life game server.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Replay   ReplayConfig   `mapstructure:"replay"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig configures the WebSocket gateway.
type ServerConfig struct {
	Address       string `mapstructure:"address"`
	AllowedOrigin string `mapstructure:"allowed_origin"` // empty allows all origins
}

// GameConfig configures new matches.
type GameConfig struct {
	StartingVitality int `mapstructure:"starting_vitality"`
	MaxVitality      int `mapstructure:"max_vitality"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
}

// DatabaseConfig configures optional match-result persistence. An empty URL
// disables persistence entirely.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// ReplayConfig configures match replay recording.
type ReplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// AuthConfig configures optional gateway authentication. When the bcrypt
// hash is set, clients must authenticate before issuing commands.
type AuthConfig struct {
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
}

// Load reads configuration from the given yaml file (optional), applies
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LIFEGAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origin", "")
	v.SetDefault("game.starting_vitality", 100)
	v.SetDefault("game.max_vitality", 100)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.url", "")
	v.SetDefault("replay.enabled", false)
	v.SetDefault("replay.dir", "replays")
	v.SetDefault("auth.admin_password_hash", "")
}

func (c *Config) validate() error {
	if c.Game.MaxVitality <= 0 {
		return fmt.Errorf("game.max_vitality must be > 0, got %d", c.Game.MaxVitality)
	}
	if c.Game.StartingVitality < 0 || c.Game.StartingVitality > c.Game.MaxVitality {
		return fmt.Errorf("game.starting_vitality %d outside [0, %d]",
			c.Game.StartingVitality, c.Game.MaxVitality)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if c.Replay.Enabled && c.Replay.Dir == "" {
		return fmt.Errorf("replay.dir must be set when replay recording is enabled")
	}
	return nil
}
