package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a held lock.
type UnlockFunc func(ctx context.Context) error

// ProfileLocker serializes read-modify-write cycles on one player's profile,
// across processes when the implementation is distributed.
type ProfileLocker interface {
	// Lock blocks until the lock for key is held or ctx is done. The lock
	// expires after ttl if it is never released.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
