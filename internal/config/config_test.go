package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFillsDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Database.URL = "postgres://localhost/rentiva"
	cfg.JWT.Secret = "secret"

	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 8, cfg.Search.ConcurrencyLimit)
	assert.Equal(t, 5*time.Second, cfg.SearchCallTimeout())
	assert.Equal(t, 60*time.Second, cfg.SearchCacheTTL())
	assert.Equal(t, ":8080", cfg.ServerAddress())
	assert.NotEmpty(t, cfg.Scheduler.FinishBookings)
	assert.Equal(t, 24, cfg.Scheduler.PendingMaxAgeHours)
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.JWT.Secret = "secret"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database url")
}

func TestValidateRequiresJWTSecret(t *testing.T) {
	cfg := &Config{}
	cfg.Database.URL = "postgres://localhost/rentiva"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://env/rentiva")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://env/rentiva", cfg.Database.URL)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
}
