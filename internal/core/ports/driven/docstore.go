package driven

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// DocumentStore persists normalised documents and remembers the most
// recent successful ingestion.
type DocumentStore interface {
	// SaveDocument stores or replaces a document without touching the
	// latest-ingestion pointer.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveProcessed stores or replaces doc and marks it as the latest
	// ingestion in one step. On error neither change is visible.
	SaveProcessed(ctx context.Context, doc *domain.Document) error

	// Latest returns the most recently processed document.
	// Returns domain.ErrNotFound if nothing has been processed.
	Latest(ctx context.Context) (*domain.Document, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns every stored document ordered by ID.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document. Deleting the latest document
	// clears the pointer.
	DeleteDocument(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
