package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.ProfileStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation at debug level, and failures
// other than a missing profile at error level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.ProfileStore) ports.ProfileStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, player string, start time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(start)}
	if player != "" {
		attrs = append(attrs, "player", player)
	}
	switch {
	case err == nil:
		m.logger.DebugContext(ctx, "Profile store", attrs...)
	case errors.Is(err, domain.ErrProfileNotFound):
		m.logger.DebugContext(ctx, "Profile store", append(attrs, "error", err)...)
	default:
		m.logger.ErrorContext(ctx, "Profile store failed", append(attrs, "error", err)...)
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, profile *domain.Profile) error {
	start := time.Now()
	err := m.next.Save(ctx, profile)
	m.log(ctx, "save", profile.PlayerName(), start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, playerName string) (*domain.Profile, error) {
	start := time.Now()
	profile, err := m.next.Load(ctx, playerName)
	m.log(ctx, "load", playerName, start, err)
	return profile, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, playerName string) error {
	start := time.Now()
	err := m.next.Delete(ctx, playerName)
	m.log(ctx, "delete", playerName, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err)
	return names, err
}
