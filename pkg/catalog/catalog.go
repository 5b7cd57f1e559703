// Package catalog loads the game world (abilities, pieces, mobs, recipes and
// tilemaps) from a CatalogSource, validates every entry against its record and
// indexes entries by name.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/aretw0/spiritual/internal/logging"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/ports"
	"github.com/aretw0/spiritual/pkg/schema"
)

// EntryError attributes a load failure to a catalog entry.
type EntryError struct {
	ID  string
	Err error
}

func (e *EntryError) Error() string { return fmt.Sprintf("%s: %v", e.ID, e.Err) }
func (e *EntryError) Unwrap() error { return e.Err }

// Catalog is a validated, name-indexed view of the game world.
type Catalog struct {
	entries  map[domain.Kind]map[string]*schema.Instance
	tilemaps map[string]*domain.Tilemap
}

func newCatalog() *Catalog {
	c := &Catalog{
		entries:  make(map[domain.Kind]map[string]*schema.Instance),
		tilemaps: make(map[string]*domain.Tilemap),
	}
	for _, k := range domain.Kinds() {
		c.entries[k] = make(map[string]*schema.Instance)
	}
	return c
}

// Get returns an entry by kind and name. Tilemaps are returned as their
// TilemapData instance; use Tilemap for the resolved grid.
func (c *Catalog) Get(kind domain.Kind, name string) (*schema.Instance, error) {
	inst, ok := c.entries[kind][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, domain.EntryID(kind, name))
	}
	return inst, nil
}

func (c *Catalog) Ability(name string) (*schema.Instance, error) { return c.Get(domain.KindAbility, name) }
func (c *Catalog) Piece(name string) (*schema.Instance, error)   { return c.Get(domain.KindPiece, name) }
func (c *Catalog) Mob(name string) (*schema.Instance, error)     { return c.Get(domain.KindMob, name) }
func (c *Catalog) Recipe(name string) (*schema.Instance, error)  { return c.Get(domain.KindRecipe, name) }

// Tilemap returns the resolved tilemap with the given name.
func (c *Catalog) Tilemap(name string) (*domain.Tilemap, error) {
	tm, ok := c.tilemaps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, domain.EntryID(domain.KindTilemap, name))
	}
	return tm, nil
}

// Names returns the entry names of a kind, sorted.
func (c *Catalog) Names(kind domain.Kind) []string {
	names := make([]string, 0, len(c.entries[kind]))
	for name := range c.entries[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of entries.
func (c *Catalog) Len() int {
	n := 0
	for _, m := range c.entries {
		n += len(m)
	}
	return n
}

// Loader builds a Catalog from a CatalogSource.
type Loader struct {
	source ports.CatalogSource
	logger *slog.Logger
}

type Option func(*Loader)

// WithLogger sets the logger used to report skipped entries.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a loader over source.
func NewLoader(source ports.CatalogSource, opts ...Option) *Loader {
	l := &Loader{
		source: source,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every entry, loads it against the record of its kind and
// cross-checks references. IDs outside the known kinds are skipped.
// All problems are reported together as a *schema.AggregateError of
// *EntryError; no catalog is returned unless every entry is valid.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	ids, err := l.source.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog entries: %w", err)
	}

	byKind := make(map[domain.Kind][]string)
	for _, id := range ids {
		kind, _, ok := domain.ParseEntryID(id)
		if !ok {
			l.logger.Debug("Skipping catalog entry outside known kinds", "id", id)
			continue
		}
		byKind[kind] = append(byKind[kind], id)
	}

	c := newCatalog()
	var errs []error
	for _, kind := range domain.Kinds() {
		for _, id := range byKind[kind] {
			if err := l.loadEntry(ctx, c, kind, id); err != nil {
				errs = append(errs, &EntryError{ID: id, Err: err})
			}
		}
	}
	errs = append(errs, checkReferences(c)...)

	if len(errs) > 0 {
		return nil, &schema.AggregateError{Errors: errs}
	}
	l.logger.Debug("Catalog loaded",
		"abilities", len(c.entries[domain.KindAbility]),
		"pieces", len(c.entries[domain.KindPiece]),
		"mobs", len(c.entries[domain.KindMob]),
		"recipes", len(c.entries[domain.KindRecipe]),
		"tilemaps", len(c.tilemaps),
	)
	return c, nil
}

func (l *Loader) loadEntry(ctx context.Context, c *Catalog, kind domain.Kind, id string) error {
	rec, _ := kind.Record()
	raw, err := l.source.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	inst, err := rec.Load(raw)
	if err != nil {
		return err
	}

	_, name, _ := domain.ParseEntryID(id)
	if kind != domain.KindTilemap {
		name = domain.EntryName(inst)
	}
	if _, dup := c.entries[kind][name]; dup {
		return fmt.Errorf("duplicate %s name %q", kind, name)
	}

	if kind == domain.KindTilemap {
		tm, err := domain.FromData(inst)
		if err != nil {
			return err
		}
		c.tilemaps[name] = tm
	}
	c.entries[kind][name] = inst
	return nil
}

// checkReferences reports mob abilities that name no known ability.
func checkReferences(c *Catalog) []error {
	var errs []error
	for _, name := range c.Names(domain.KindMob) {
		mob := c.entries[domain.KindMob][name]
		for _, a := range mob.List("abilities") {
			ability, _ := a.(string)
			if _, ok := c.entries[domain.KindAbility][ability]; !ok {
				errs = append(errs, &EntryError{
					ID:  domain.EntryID(domain.KindMob, name),
					Err: fmt.Errorf("%w: ability %q", domain.ErrEntryNotFound, ability),
				})
			}
		}
	}
	return errs
}
