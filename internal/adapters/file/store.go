package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/spiritual/internal/logging"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/wire"
)

// Store implements ports.ProfileStore using the local filesystem.
// It stores each profile as "<player_name>.json" in a configured directory.
type Store struct {
	BasePath string
	logger   *slog.Logger
}

type Option func(*Store)

// WithLogger sets the logger used to report skipped profile files.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to "~/spiritual/profiles".
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		home, _ := os.UserHomeDir()
		basePath = filepath.Join(home, "spiritual", "profiles")
	}
	s := &Store{BasePath: basePath, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) path(playerName string) string {
	return filepath.Join(s.BasePath, playerName+".json")
}

// Save persists the profile to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, profile *domain.Profile) error {
	playerName := profile.PlayerName()
	if err := domain.ValidatePlayerName(playerName); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure profile directory: %w", err)
	}

	var buf bytes.Buffer
	if err := profile.Instance().Encode(&buf); err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	// Same directory as the destination, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, ".tmp-"+playerName+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := s.path(playerName)
	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing profile for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to profile: %w", err)
	}
	return nil
}

// Load reads and validates a profile file.
func (s *Store) Load(ctx context.Context, playerName string) (*domain.Profile, error) {
	if err := domain.ValidatePlayerName(playerName); err != nil {
		return nil, err
	}
	return s.loadFile(s.path(playerName))
}

func (s *Store) loadFile(path string) (*domain.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	defer f.Close()

	data, err := wire.DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidProfile, err)
	}
	return domain.LoadProfile(data)
}

// Delete removes the profile file.
func (s *Store) Delete(ctx context.Context, playerName string) error {
	if err := domain.ValidatePlayerName(playerName); err != nil {
		return err
	}
	err := os.Remove(s.path(playerName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete profile file: %w", err)
	}
	return nil
}

// List returns the player names of the valid profiles in the directory.
// Files that do not decode or are not valid profiles are skipped. The
// listed name is the file stem.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || name[0] == '.' {
			continue
		}
		if _, err := s.loadFile(filepath.Join(s.BasePath, name)); err != nil {
			s.logger.Debug("Skipping profile file", "file", name, "error", err)
			continue
		}
		names = append(names, name[:len(name)-len(".json")])
	}
	sort.Strings(names)
	return names, nil
}
