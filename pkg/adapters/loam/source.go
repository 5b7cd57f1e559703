package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/wire"
)

// Source adapts a Loam repository to the ports.CatalogSource interface.
// Documents live at "<kind>/<name>.<ext>"; their metadata (the JSON object,
// or the YAML/Markdown frontmatter) is the entry value.
//
// Loam decodes metadata into Go maps, so entry key order is not preserved:
// keys come back sorted.
type Source struct {
	Repo core.Repository
}

// New creates a new Loam adapter.
func New(repo core.Repository) *Source {
	return &Source{Repo: repo}
}

// Open initializes a strict, read-only Loam repository at dir.
func Open(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open loam repository: %w", err)
	}
	return New(repo), nil
}

// GetEntry retrieves an entry by its "<kind>/<name>" ID.
func (s *Source) GetEntry(ctx context.Context, id string) (any, error) {
	kind, name, ok := domain.ParseEntryID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	entryID := domain.EntryID(kind, name)

	index, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := index[entryID]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, entryID)
	}

	doc, err := s.Repo.Get(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", entryID, err)
	}
	meta := map[string]any(doc.Metadata)
	if meta == nil {
		meta = map[string]any{}
	}
	v, err := wire.Normalize(meta)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", entryID, err)
	}
	return v, nil
}

// ListEntries lists all catalog entries in the repository, sorted.
// Documents outside the kind directories are ignored.
func (s *Source) ListEntries(ctx context.Context) ([]string, error) {
	index, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// index maps entry IDs to the document IDs that define them.
func (s *Source) index(ctx context.Context) (map[string]string, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		kind, name, ok := domain.ParseEntryID(doc.ID)
		if !ok {
			continue
		}
		id := domain.EntryID(kind, name)
		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: entry '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
	}
	return seen, nil
}
