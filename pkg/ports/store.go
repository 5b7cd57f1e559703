package ports

import (
	"context"

	"github.com/aretw0/spiritual/pkg/domain"
)

// ProfileStore defines the interface for persisting player profiles.
// Profiles are keyed by player name.
type ProfileStore interface {
	// Save persists the profile under its player name, replacing any previous version.
	Save(ctx context.Context, profile *domain.Profile) error

	// Load retrieves the profile for a player.
	// Returns domain.ErrProfileNotFound if no profile exists and
	// domain.ErrInvalidProfile if the stored data is not a valid profile.
	Load(ctx context.Context, playerName string) (*domain.Profile, error)

	// Delete removes the profile for a player. Deleting a missing profile is not an error.
	Delete(ctx context.Context, playerName string) error

	// List returns the names of players whose stored profiles are valid, sorted.
	List(ctx context.Context) ([]string, error)
}
