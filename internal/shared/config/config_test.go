package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("API_PREFIX", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "/v1", cfg.Server.APIPrefix)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "data/kepler_data.csv", cfg.Dataset.Path)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, ":8000", cfg.ListenAddr())
}

func TestLoadPortFallsBackToServerPort(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown STORAGE_DRIVER")
}

func TestLoadRequiresSecretWhenAuthEnabled(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestConnectionString(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "require",
	}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=require", cfg.ConnectionString())

	cfg.Database.URL = "postgres://u:p@db/n"
	assert.Equal(t, "postgres://u:p@db/n", cfg.ConnectionString())
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "/v1", normalizePrefix("v1/"))
	assert.Equal(t, "/api/v2", normalizePrefix("/api/v2"))
	assert.Equal(t, "", normalizePrefix("/"))
}
