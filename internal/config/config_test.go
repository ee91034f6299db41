package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/match-service/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobmate")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "8083", cfg.Port)
	assert.Equal(t, "9083", cfg.GRPCPort)
	assert.Equal(t, "fr", cfg.AdzunaCountry)
	assert.Equal(t, 6, cfg.ScrapeIntervalHours)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, "postgres://localhost/jobmate", cfg.DatabaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MATCH_PORT", "9000")
	t.Setenv("SCRAPE_INTERVAL_HOURS", "12")
	t.Setenv("LOG_JSON", "true")

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 12, cfg.ScrapeIntervalHours)
	assert.True(t, cfg.LogJSON)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database-url: postgres://file/db\nrate-limit-per-minute: 5\n"), 0o600))

	cfg, err := config.Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/db", cfg.DatabaseURL)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := config.Config{DatabaseURL: "postgres://x", RedisURL: "redis://x", ScrapeIntervalHours: 1, RateLimitPerMinute: 1}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *config.Config){
		"DATABASE_URL":          func(c *config.Config) { c.DatabaseURL = "" },
		"REDIS_URL":             func(c *config.Config) { c.RedisURL = "" },
		"SCRAPE_INTERVAL_HOURS": func(c *config.Config) { c.ScrapeIntervalHours = 0 },
		"RATE_LIMIT_PER_MINUTE": func(c *config.Config) { c.RateLimitPerMinute = -1 },
	}
	for name, mutate := range cases {
		c := valid
		mutate(&c)
		err := c.Validate()
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), name)
	}

	assert.NoError(t, (&config.Config{DatabaseURL: "postgres://x"}).ValidateDatabase())
	assert.Error(t, (&config.Config{}).ValidateDatabase())
}
