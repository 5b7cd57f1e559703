package config_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/spiritual/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spiritual.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.StoreFile, cfg.Store)
	assert.Equal(t, config.CatalogFile, cfg.Catalog)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, filepath.Join(cfg.DataDir, "profiles"), cfg.Profiles())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
data_dir: /srv/spiritual
store: redis
redis:
  addr: cache:6379
  db: 2
  ttl: 90s
http:
  addr: ":9000"
`)
	t.Setenv("SPIRITUAL_REDIS_DB", "5")
	t.Setenv("SPIRITUAL_LOG_LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/spiritual", cfg.DataDir)
	assert.Equal(t, config.StoreRedis, cfg.Store)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 5, cfg.Redis.DB, "env overrides the file")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "spiritual:profile:", cfg.Redis.Prefix, "defaults survive a partial file")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "colour: blue\n"},
		{"bad store", "store: postgres\n"},
		{"bad catalog", "catalog: s3\n"},
		{"bad duration", "redis:\n  ttl: soon\n"},
		{"short key", "profile_key: " + base64.StdEncoding.EncodeToString([]byte("short")) + "\n"},
		{"malformed yaml", "store: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestConfig_Key(t *testing.T) {
	key := strings.Repeat("k", 32)
	cfg := config.Default()
	cfg.ProfileKey = base64.StdEncoding.EncodeToString([]byte(key))

	got, err := cfg.Key()
	require.NoError(t, err)
	assert.Equal(t, []byte(key), got)

	cfg.ProfileKey = ""
	got, err = cfg.Key()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConfig_EnsureDirs(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")

	require.NoError(t, cfg.EnsureDirs())
	assert.DirExists(t, cfg.DataDir)
	assert.DirExists(t, cfg.Profiles())
}
