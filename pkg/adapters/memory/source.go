package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/schema"
	"github.com/aretw0/spiritual/pkg/wire"
)

// Source implements ports.CatalogSource using an in-memory map.
type Source struct {
	entries map[string]any
}

// NewSource creates a Source from loose Go values keyed by entry ID.
// Values are normalized to the wire model.
func NewSource(data map[string]any) (*Source, error) {
	entries := make(map[string]any, len(data))
	for id, v := range data {
		wv, err := wire.Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", id, err)
		}
		entries[id] = wv
	}
	return &Source{entries: entries}, nil
}

// NewFromInstances creates a Source from record instances, dumping each one.
// Instances are keyed by kind and domain.EntryName.
// This handles serialization automatically, improving DX for tests.
func NewFromInstances(kind domain.Kind, instances ...*schema.Instance) (*Source, error) {
	entries := make(map[string]any, len(instances))
	for _, inst := range instances {
		name := domain.EntryName(inst)
		if name == "" {
			return nil, fmt.Errorf("%s instance missing name", inst.Record().Name())
		}
		entries[domain.EntryID(kind, name)] = inst.Dump()
	}
	return &Source{entries: entries}, nil
}

// Add stores or replaces an entry.
func (s *Source) Add(id string, v any) error {
	wv, err := wire.Normalize(v)
	if err != nil {
		return fmt.Errorf("entry %s: %w", id, err)
	}
	s.entries[id] = wv
	return nil
}

// GetEntry returns a copy of the entry's wire value.
func (s *Source) GetEntry(ctx context.Context, id string) (any, error) {
	v, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	return schema.Clone(v), nil
}

// ListEntries returns all entry IDs.
func (s *Source) ListEntries(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
