package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/spiritual/pkg/domain"
)

// Store implements ports.ProfileStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Profile
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Profile),
	}
}

// Save persists a copy of the profile in memory.
func (s *Store) Save(ctx context.Context, profile *domain.Profile) error {
	if err := domain.ValidatePlayerName(profile.PlayerName()); err != nil {
		return err
	}
	copied := profile.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[copied.PlayerName()] = copied
	return nil
}

// Load retrieves a copy of the profile, so callers can't mutate store state by pointer.
func (s *Store) Load(ctx context.Context, playerName string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.data[playerName]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return profile.Clone(), nil
}

// Delete removes the profile.
func (s *Store) Delete(ctx context.Context, playerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, playerName)
	return nil
}

// List returns the stored player names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
