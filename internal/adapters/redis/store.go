package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/wire"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces profile keys.
const DefaultPrefix = "spiritual:profile:"

// Store implements ports.ProfileStore using Redis.
// Each profile is a JSON string under "<prefix><player_name>"; a sorted set
// under "<prefix>index" tracks the stored names and their expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for profiles.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for profiles.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client, so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(playerName string) string {
	return s.prefix + playerName
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the profile dump to Redis and indexes its player name.
func (s *Store) Save(ctx context.Context, profile *domain.Profile) error {
	playerName := profile.PlayerName()
	if err := domain.ValidatePlayerName(playerName); err != nil {
		return err
	}
	data, err := wire.MarshalJSON(profile.Dump())
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(playerName), data, s.ttl)

	// Score = expiry. Without TTL the entry never leaves the index.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: playerName,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves and validates the profile from Redis.
func (s *Store) Load(ctx context.Context, playerName string) (*domain.Profile, error) {
	if err := domain.ValidatePlayerName(playerName); err != nil {
		return nil, err
	}
	val, err := s.client.Get(ctx, s.key(playerName)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	data, err := wire.UnmarshalJSON(val)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidProfile, err)
	}
	return domain.LoadProfile(data)
}

// Delete removes the profile and its index entry.
func (s *Store) Delete(ctx context.Context, playerName string) error {
	if err := domain.ValidatePlayerName(playerName); err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(playerName))
	pipe.ZRem(ctx, s.indexKey(), playerName)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the indexed player names, sorted, after pruning expired ones.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired profiles: %w", err)
	}

	// Every member shares a score when TTL is off, so ZRANGE order is
	// lexicographic. With TTL it is by expiry, hence the sort.
	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
