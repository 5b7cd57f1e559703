package spiritual

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/spiritual/internal/logging"
	"github.com/aretw0/spiritual/pkg/adapters/memory"
	"github.com/aretw0/spiritual/pkg/catalog"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/persistence"
	"github.com/aretw0/spiritual/pkg/persistence/middleware"
	"github.com/aretw0/spiritual/pkg/ports"
	"github.com/aretw0/spiritual/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrNoCatalog is returned by Catalog when no catalog source is configured.
var ErrNoCatalog = errors.New("no catalog source configured")

// ErrUnknownRecord is returned when a record name is not registered.
var ErrUnknownRecord = errors.New("unknown record")

// Engine is the high-level entry point for the Spiritual library.
// It wires a profile store (with its middlewares), a profile locker and an
// optional catalog source.
type Engine struct {
	store    ports.ProfileStore
	locker   ports.ProfileLocker
	source   ports.CatalogSource
	logger   *slog.Logger
	registry prometheus.Registerer
	key      []byte
	profiles *persistence.Profiles
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithProfileStore sets the backing profile store (default: in memory).
func WithProfileStore(store ports.ProfileStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker sets the profile locker (default: in-process).
func WithLocker(locker ports.ProfileLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithCatalogSource sets where catalog entries are read from.
func WithCatalogSource(source ports.CatalogSource) Option {
	return func(e *Engine) {
		e.source = source
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics registers profile store metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithEncryption encrypts profiles at rest with a 32-byte AES key.
func WithEncryption(key []byte) Option {
	return func(e *Engine) {
		e.key = key
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.locker == nil {
		eng.locker = memory.NewLocker()
	}

	// Outermost first: logging and metrics observe calls as the caller made them.
	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(eng.logger)}
	if eng.registry != nil {
		mws = append(mws, middleware.NewMetrics(eng.registry).Middleware())
	}
	if eng.key != nil {
		if len(eng.key) != 32 {
			return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(eng.key))
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: eng.key}))
	}
	eng.store = middleware.Chain(eng.store, mws...)
	eng.profiles = persistence.NewProfiles(eng.store, eng.locker)

	return eng, nil
}

// Profiles returns the profile service.
func (e *Engine) Profiles() *persistence.Profiles {
	return e.profiles
}

// Store returns the decorated profile store.
func (e *Engine) Store() ports.ProfileStore {
	return e.store
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// Catalog loads and validates the catalog from the configured source.
func (e *Engine) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	if e.source == nil {
		return nil, ErrNoCatalog
	}
	return catalog.NewLoader(e.source, catalog.WithLogger(e.logger)).Load(ctx)
}

// Source returns the catalog source, or nil.
func (e *Engine) Source() ports.CatalogSource {
	return e.source
}

// Record looks up a game record by name ("Profile", "Mob", ...).
func Record(name string) (*schema.Record, error) {
	r, ok := domain.Records().Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecord, name)
	}
	return r, nil
}

// Validate checks a wire value against a game record and loads it.
// On failure, the error lists every failing field.
func Validate(recordName string, v any) (*schema.Instance, error) {
	r, err := Record(recordName)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(v); err != nil {
		return nil, err
	}
	return r.Load(v)
}
