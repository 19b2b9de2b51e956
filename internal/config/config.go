// Package config loads and validates runtime configuration. Values come
// from an optional YAML file merged with environment variables; missing
// required values fail fast at startup.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the matcher service.
type Config struct {
	Port        string  `mapstructure:"port"`
	DatabaseURL string  `mapstructure:"database-url"`
	RedisURL    string  `mapstructure:"redis-url"`
	Matching    *Match  `mapstructure:"matching"`
	Stats       *Stats  `mapstructure:"stats"`
	Weights     *Weight `mapstructure:"weights"`
}

// Match tunes the ranking engine's surroundings.
type Match struct {
	// AvailableCap bounds the scan behind the board's available count.
	AvailableCap int `mapstructure:"available-cap"`
}

// Stats configures the statistics cache and its refresh schedule.
type Stats struct {
	CacheTTLMinutes      int `mapstructure:"cache-ttl-minutes"`
	RefreshIntervalHours int `mapstructure:"refresh-interval-hours"`
}

// Weight overrides the default scoring weights. All four must be set
// together; the defaults are 0.30/0.40/0.20/0.10.
type Weight struct {
	Experience float64 `mapstructure:"experience"`
	Skills     float64 `mapstructure:"skills"`
	Location   float64 `mapstructure:"location"`
	Keywords   float64 `mapstructure:"keywords"`
}

// Load unmarshals the viper state into a validated Config.
func Load() (*Config, error) {
	viper.SetDefault("port", "8083")
	viper.SetDefault("stats.cache-ttl-minutes", 30)
	viper.SetDefault("stats.refresh-interval-hours", 6)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database-url is required (DATABASE_URL)")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("redis-url is required (REDIS_URL)")
	}
	if cfg.Stats != nil && cfg.Stats.RefreshIntervalHours < 1 {
		return nil, fmt.Errorf("stats.refresh-interval-hours must be a positive integer, got %d", cfg.Stats.RefreshIntervalHours)
	}

	return &cfg, nil
}
