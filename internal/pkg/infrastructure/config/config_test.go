package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "smart-house-registry", cfg.Service.Name)
	assert.Equal(t, "8880", cfg.Service.Port)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.False(t, cfg.Messaging.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestThatEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("SMARTHOUSE_SERVICE_PORT", "9090")
	t.Setenv("SMARTHOUSE_DATABASE_DRIVER", "sqlite")
	t.Setenv("SMARTHOUSE_DATABASE_PATH", "/tmp/house.db")
	t.Setenv("SMARTHOUSE_MESSAGING_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Service.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/house.db", cfg.Database.Path)
	assert.True(t, cfg.Messaging.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := []byte("log:\n  level: debug\ndatabase:\n  driver: postgres\n  host: db.local\n")
	require.NoError(t, os.WriteFile(path, contents, 0o600))
	t.Setenv("SMARTHOUSE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, "require", cfg.Database.SSLMode)
}

func TestThatUnknownDriverIsRejected(t *testing.T) {
	t.Setenv("SMARTHOUSE_DATABASE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestThatPostgresRequiresHost(t *testing.T) {
	t.Setenv("SMARTHOUSE_DATABASE_DRIVER", "postgres")

	_, err := Load()
	assert.Error(t, err)
}
