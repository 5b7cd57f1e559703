// Package persistence coordinates profile reads and writes on top of a
// ports.ProfileStore.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed writer can hold a profile lock.
const DefaultLockTTL = 10 * time.Second

// Profiles creates and updates profiles. Every write stamps last_update.
type Profiles struct {
	Store   ports.ProfileStore
	Locker  ports.ProfileLocker // optional
	Now     func() time.Time
	LockTTL time.Duration
}

// NewProfiles returns a Profiles over store. locker may be nil.
func NewProfiles(store ports.ProfileStore, locker ports.ProfileLocker) *Profiles {
	return &Profiles{
		Store:   store,
		Locker:  locker,
		Now:     time.Now,
		LockTTL: DefaultLockTTL,
	}
}

func (p *Profiles) lock(ctx context.Context, playerName string) (ports.UnlockFunc, error) {
	if p.Locker == nil {
		return func(context.Context) error { return nil }, nil
	}
	unlock, err := p.Locker.Lock(ctx, playerName, p.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock profile %s: %w", playerName, err)
	}
	return unlock, nil
}

func (p *Profiles) save(ctx context.Context, profile *domain.Profile) error {
	profile.Touch(p.Now())
	return p.Store.Save(ctx, profile)
}

// Create stores a fresh profile for playerName.
// Returns domain.ErrProfileExists if one is already stored.
func (p *Profiles) Create(ctx context.Context, playerName string) (profile *domain.Profile, err error) {
	profile, err = domain.NewProfile(playerName)
	if err != nil {
		return nil, err
	}
	unlock, err := p.lock(ctx, playerName)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, unlock(ctx)) }()

	_, err = p.Store.Load(ctx, playerName)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", domain.ErrProfileExists, playerName)
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, err
	}
	if err := p.save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update loads the player's profile, applies fn and saves the result, all
// under the player's lock. Nothing is saved if fn fails.
func (p *Profiles) Update(ctx context.Context, playerName string, fn func(*domain.Profile) error) (profile *domain.Profile, err error) {
	unlock, err := p.lock(ctx, playerName)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, unlock(ctx)) }()

	profile, err = p.Store.Load(ctx, playerName)
	if err != nil {
		return nil, err
	}
	if err := fn(profile); err != nil {
		return nil, err
	}
	if err := p.save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
