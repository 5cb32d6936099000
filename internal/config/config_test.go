package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Reads the file", func(t *testing.T) {
		// Given: a config file with every section
		path := writeConfig(t, `
log-level: debug
http-port: "8080"
mode: table
scoring: strict
turn-timeout: 45s
room-id-length: 6
public-url: https://play.example.com
storage:
  driver: redis
redis:
  host: cache
  port: 6380
`)

		// When: the config is loaded
		conf, err := Load(path)

		// Then: every field is populated from the file
		require.NoError(t, err)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "table", conf.Mode)
		assert.Equal(t, "strict", conf.Scoring)
		assert.Equal(t, 45*time.Second, conf.TurnTimeout)
		assert.Equal(t, 6, conf.RoomIDLength)
		assert.Equal(t, "https://play.example.com", conf.PublicURL)
		assert.Equal(t, StorageRedis, conf.Storage.Driver)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
	})

	t.Run("Falls back to the environment", func(t *testing.T) {
		// Given: no config file and a port in the environment
		t.Setenv("PORT", "4000")

		// When: a missing path is loaded
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: defaults apply and the env wins
		require.NoError(t, err)
		assert.Equal(t, "4000", conf.HTTPPort)
		assert.Equal(t, "rooms", conf.Mode)
		assert.Equal(t, "permissive", conf.Scoring)
		assert.Equal(t, StorageMemory, conf.Storage.Driver)
		assert.Equal(t, 5, conf.RoomIDLength)
		assert.Zero(t, conf.TurnTimeout)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "mode: rooms\n")
		t.Setenv("GAME_MODE", "table")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "table", conf.Mode)
	})

	t.Run("Rejects an unknown storage driver", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  driver: sqlite\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrUnknownStorage)
	})

	t.Run("MustLoad panics on a broken file", func(t *testing.T) {
		path := writeConfig(t, "log-level: [\n")

		assert.Panics(t, func() { MustLoad(path) })
	})
}

func TestConfig_SlogLevel(t *testing.T) {
	conf := &Config{LogLevel: "warn"}
	assert.Equal(t, "WARN", conf.SlogLevel().String())

	conf.LogLevel = "verbose"
	assert.Equal(t, "INFO", conf.SlogLevel().String())
}
