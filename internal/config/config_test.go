package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":8080"
database:
  path: `+filepath.Join(t.TempDir(), "db", "test.db")+`
  timeout_seconds: 10
redis:
  address: "localhost:6379"
  channel: "hotel:events"
telegram:
  ops_chat_id: 42
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "hotel:events", cfg.Redis.Channel)
	assert.Equal(t, int64(42), cfg.Telegram.OpsChatID)
	assert.Equal(t, 10, cfg.Database.TimeoutSeconds)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "database:\n  path: "+filepath.Join(dir, "test.db")+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "digierge:events", cfg.Redis.Channel)
	assert.Equal(t, int64(0), cfg.Telegram.OpsChatID)
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "redis.internal:6379")
	path := writeConfig(t, `
database:
  path: `+filepath.Join(t.TempDir(), "test.db")+`
redis:
  address: "${TEST_REDIS_ADDR}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Address)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	path := writeConfig(t, `
server:
  addr: ":8080"
database:
  path: `+filepath.Join(t.TempDir(), "test.db")+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "env.db"))

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Addr)
}

func TestStoreTimeout(t *testing.T) {
	var cfg Config
	assert.Equal(t, "5s", cfg.StoreTimeout().String())
	cfg.Database.TimeoutSeconds = 30
	assert.Equal(t, "30s", cfg.StoreTimeout().String())
}
