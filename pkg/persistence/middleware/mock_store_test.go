package middleware_test

import (
	"context"
	"sort"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
type MockStore struct {
	data map[string]*domain.Profile
	err  error
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Profile),
	}
}

func (s *MockStore) Save(ctx context.Context, profile *domain.Profile) error {
	if s.err != nil {
		return s.err
	}
	s.data[profile.PlayerName()] = profile.Clone()
	return nil
}

func (s *MockStore) Load(ctx context.Context, playerName string) (*domain.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	profile, ok := s.data[playerName]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return profile.Clone(), nil
}

func (s *MockStore) Delete(ctx context.Context, playerName string) error {
	delete(s.data, playerName)
	return s.err
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, s.err
}

var _ ports.ProfileStore = (*MockStore)(nil)
