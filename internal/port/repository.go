package port

import (
	"context"

	"docqa/internal/domain"
)

// Repository lists and fetches documents from a document store.
type Repository interface {
	// List returns every eligible document under folderID, recursing into
	// sub-folders. Order is unspecified; each folder is visited once.
	List(ctx context.Context, folderID string) ([]domain.DocumentRef, error)

	// Fetch returns the plain-text content of one document. Content that
	// cannot be decoded yields "" with a nil error so a single bad
	// document never aborts an indexing run.
	Fetch(ctx context.Context, ref domain.DocumentRef) (string, error)
}
