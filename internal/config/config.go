// Package config loads and validates runtime configuration at startup.
// Environment variables are the primary source (same names as the other
// jobmate services); an optional config file can supply the same keys.
// Fail-fast: Validate reports the first missing required value.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the match service.
type Config struct {
	Port                string `mapstructure:"match-port"`
	GRPCPort            string `mapstructure:"match-grpc-port"`
	DatabaseURL         string `mapstructure:"database-url"`
	RedisURL            string `mapstructure:"redis-url"`
	AdzunaAppID         string `mapstructure:"adzuna-app-id"`
	AdzunaAppKey        string `mapstructure:"adzuna-app-key"`
	AdzunaCountry       string `mapstructure:"adzuna-country"` // e.g. "fr", "gb", "us"
	ScrapeIntervalHours int    `mapstructure:"scrape-interval-hours"`
	FollowUpSpec        string `mapstructure:"followup-spec"` // cron spec for reminder sweeps
	RateLimitPerMinute  int    `mapstructure:"rate-limit-per-minute"`
	LogJSON             bool   `mapstructure:"json"`
	LogDebug            bool   `mapstructure:"debug"`
}

var defaults = map[string]any{
	"match-port":            "8083",
	"match-grpc-port":       "9083",
	"adzuna-country":        "fr",
	"scrape-interval-hours": 6,
	"followup-spec":         "@every 1h",
	"rate-limit-per-minute": 60,
}

// Bind registers defaults and environment bindings on v. Keys use dashes
// (config file style); environment variables use the upper snake form, so
// "database-url" reads DATABASE_URL.
func Bind(v *viper.Viper) {
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about; make env-only keys known.
	for _, k := range []string{"database-url", "redis-url", "adzuna-app-id", "adzuna-app-key"} {
		_ = v.BindEnv(k)
	}
	_ = v.BindEnv("json", "LOG_JSON")
	_ = v.BindEnv("debug", "LOG_DEBUG")
}

// Load reads the optional file at path (if non-empty) and returns the
// merged configuration. It does not validate required values.
func Load(v *viper.Viper, path string) (*Config, error) {
	Bind(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values the long-running server needs.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.ScrapeIntervalHours < 1 {
		return fmt.Errorf("SCRAPE_INTERVAL_HOURS must be a positive integer, got %d", c.ScrapeIntervalHours)
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be a positive integer, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// ValidateDatabase checks only what migrations need.
func (c *Config) ValidateDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}
