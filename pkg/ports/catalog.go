package ports

import "context"

// CatalogSource defines how the catalog retrieves its entries.
// This allows the storage layer (files, Loam, memory) to be decoupled.
type CatalogSource interface {
	// GetEntry retrieves the wire value of an entry by ID ("<kind>/<name>").
	// Returns domain.ErrEntryNotFound if the entry does not exist.
	GetEntry(ctx context.Context, id string) (any, error)

	// ListEntries returns the IDs of all entries, sorted.
	ListEntries(ctx context.Context) ([]string, error)
}
