package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/wire"
)

var entryExtensions = []string{".json", ".yaml", ".yml"}

// Source implements ports.CatalogSource over a directory laid out as
// "<root>/<kind>/<name>.<json|yaml|yml>". Entry IDs are "<kind>/<name>".
type Source struct {
	Root string
}

// NewSource creates a Source rooted at dir.
func NewSource(dir string) *Source {
	return &Source{Root: dir}
}

// GetEntry decodes the entry file, choosing the codec by extension.
func (s *Source) GetEntry(ctx context.Context, id string) (any, error) {
	kind, name, ok := domain.ParseEntryID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
	}
	for _, ext := range entryExtensions {
		p := filepath.Join(s.Root, string(kind), name+ext)
		f, err := os.Open(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read entry %s: %w", id, err)
		}
		v, err := wire.Decode(f, wire.FormatFor(p))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", id, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, id)
}

// ListEntries walks the kind directories. Two files with the same stem in
// one kind directory are a collision.
func (s *Source) ListEntries(ctx context.Context) ([]string, error) {
	seen := make(map[string]string)
	ids := []string{}

	for _, kind := range domain.Kinds() {
		dir := filepath.Join(s.Root, string(kind))
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		for _, e := range entries {
			ext := filepath.Ext(e.Name())
			if e.IsDir() || !isEntryExt(ext) {
				continue
			}
			id := path.Join(string(kind), strings.TrimSuffix(e.Name(), ext))
			if existing, ok := seen[id]; ok {
				return nil, fmt.Errorf("collision detected: entry '%s' is defined in both '%s' and '%s'", id, existing, e.Name())
			}
			seen[id] = e.Name()
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func isEntryExt(ext string) bool {
	for _, e := range entryExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
