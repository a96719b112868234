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

	assert.Equal(t, "marketplace-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 60*time.Second, cfg.Catalog.CacheTTL())
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "0")
	t.Setenv("AUTH_BCRYPT_COST", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9999", cfg.App.Addr())
	assert.Equal(t, time.Duration(0), cfg.Catalog.CacheTTL())
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
}
