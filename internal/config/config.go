// Package config resolves Spiritual's runtime configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// SPIRITUAL_* environment variables. Command-line flags are applied by the
// CLI on top of the result.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "spiritual.yaml"

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "SPIRITUAL_"

// Store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Catalog backends.
const (
	CatalogFile = "file"
	CatalogLoam = "loam"
)

// ErrInvalidConfig is returned for values that fail validation.
var ErrInvalidConfig = errors.New("invalid config")

// Redis configures the Redis profile store.
type Redis struct {
	Addr     string        `mapstructure:"addr" env:"ADDR"`
	Password string        `mapstructure:"password" env:"PASSWORD"`
	DB       int           `mapstructure:"db" env:"DB"`
	Prefix   string        `mapstructure:"prefix" env:"PREFIX"`
	TTL      time.Duration `mapstructure:"ttl" env:"TTL"`
}

// HTTP configures the HTTP server.
type HTTP struct {
	Addr string `mapstructure:"addr" env:"ADDR"`
}

// Config is the resolved configuration.
type Config struct {
	DataDir    string `mapstructure:"data_dir" env:"DATA_DIR"`
	ProfileDir string `mapstructure:"profile_dir" env:"PROFILE_DIR"`
	CatalogDir string `mapstructure:"catalog_dir" env:"CATALOG_DIR"`
	Store      string `mapstructure:"store" env:"STORE"`
	Catalog    string `mapstructure:"catalog" env:"CATALOG"`
	LogLevel   string `mapstructure:"log_level" env:"LOG_LEVEL"`
	// ProfileKey is a base64 AES-256 key. When set, profiles are encrypted at rest.
	ProfileKey string `mapstructure:"profile_key" env:"PROFILE_KEY"`
	Redis      Redis  `mapstructure:"redis" envPrefix:"REDIS_"`
	HTTP       HTTP   `mapstructure:"http" envPrefix:"HTTP_"`
}

// Default returns the built-in configuration.
func Default() Config {
	dataDir := "spiritual"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, "spiritual")
	}
	return Config{
		DataDir:    dataDir,
		CatalogDir: "assets",
		Store:      StoreFile,
		Catalog:    CatalogFile,
		LogLevel:   "info",
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: "spiritual:profile:",
		},
		HTTP: HTTP{Addr: ":8080"},
	}
}

// Load resolves the configuration. An empty path means DefaultFile, which
// may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.applyFile(path, explicit); err != nil {
		return Config{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

// Validate checks backend names and the profile key.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	switch c.Catalog {
	case CatalogFile, CatalogLoam:
	default:
		return fmt.Errorf("%w: unknown catalog %q", ErrInvalidConfig, c.Catalog)
	}
	if _, err := c.Key(); err != nil {
		return err
	}
	return nil
}

// Profiles returns the profile directory, <DataDir>/profiles unless set.
func (c Config) Profiles() string {
	if c.ProfileDir != "" {
		return c.ProfileDir
	}
	return filepath.Join(c.DataDir, "profiles")
}

// Key decodes ProfileKey. A nil key means encryption is off.
func (c Config) Key() ([]byte, error) {
	if strings.TrimSpace(c.ProfileKey) == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.ProfileKey)
	if err != nil {
		return nil, fmt.Errorf("%w: profile_key is not base64: %w", ErrInvalidConfig, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: profile_key must be 32 bytes, got %d", ErrInvalidConfig, len(key))
	}
	return key, nil
}

// EnsureDirs creates the data and profile directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, c.Profiles()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
