package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/spiritual/pkg/domain"
	"github.com/aretw0/spiritual/pkg/ports"
	"github.com/aretw0/spiritual/pkg/schema"
)

// CatalogSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.CatalogSource.
// setupData maps each entry ID the source was seeded with to its expected wire value.
func CatalogSourceContractTest(t *testing.T, source ports.CatalogSource, setupData map[string]any) {
	t.Helper()
	ctx := context.Background()

	// 1. Test GetEntry (Success)
	t.Run("GetEntry_Success", func(t *testing.T) {
		for id, expected := range setupData {
			got, err := source.GetEntry(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error getting entry %s: %v", id, err)
			}
			if !schema.Equal(got, expected) {
				t.Errorf("content mismatch for %s. got %v, want %v", id, got, expected)
			}
		}
	})

	// 2. Test GetEntry (NotFound)
	t.Run("GetEntry_NotFound", func(t *testing.T) {
		_, err := source.GetEntry(ctx, "mobs/non-existent-entry")
		if !errors.Is(err, domain.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound for non-existent entry, got %v", err)
		}
	})

	// 3. Test ListEntries
	t.Run("ListEntries", func(t *testing.T) {
		ids, err := source.ListEntries(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing entries: %v", err)
		}

		if len(ids) != len(setupData) {
			t.Errorf("expected %d entries, got %d (%v)", len(setupData), len(ids), ids)
		}

		for i := 1; i < len(ids); i++ {
			if ids[i-1] >= ids[i] {
				t.Errorf("entries not sorted: %q before %q", ids[i-1], ids[i])
			}
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}
		for id := range setupData {
			if !lookup[id] {
				t.Errorf("entry %s missing from list", id)
			}
		}
	})
}
