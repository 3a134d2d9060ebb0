package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, 4, cfg.Workers)
	assert.False(t, cfg.Migrate)
	assert.False(t, cfg.UsesSQLite())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("DATABASE_URL", "sqlite:///tmp/recipes.db")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("APP_MIGRATE", "true")
	t.Setenv("RATE_RPS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.HTTPPort)
	assert.True(t, cfg.UsesSQLite())
	assert.Equal(t, "/tmp/recipes.db", cfg.SQLitePath())
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.True(t, cfg.Migrate)
	assert.Equal(t, 7, cfg.RateRPS)
}

func TestProdRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_ACCESS_SECRET", "a-real-secret")
	t.Setenv("JWT_REFRESH_SECRET", "another-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
}
