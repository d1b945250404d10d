package driving

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// DocumentService manages stored documents.
type DocumentService interface {
	// List returns all stored documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Latest returns the processed document.
	Latest(ctx context.Context) (*domain.Document, error)

	// Add stores text under id after normalising it. It does not change
	// the processed document.
	Add(ctx context.Context, id, title, text string) (*domain.Document, error)

	// Delete removes a document.
	Delete(ctx context.Context, id string) error
}
