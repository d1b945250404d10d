package driving

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// RetrievalService answers keyword queries against stored text.
type RetrievalService interface {
	// Retrieve returns the context window around the first query keyword
	// found in the processed document, or "" when none matches.
	// Returns domain.ErrNoProcessedDocument before any successful ingestion.
	Retrieve(ctx context.Context, query string) (string, error)

	// RetrieveWindow is Retrieve with match position and bounds.
	// A nil window means no keyword matched.
	RetrieveWindow(ctx context.Context, query string) (*domain.ContextWindow, error)

	// RetrieveRanked scores every stored document by case-insensitive
	// occurrences of the whole query and returns at most topK of them,
	// highest score first. Documents scoring zero are never returned.
	RetrieveRanked(ctx context.Context, query string, topK int) ([]domain.RankedDocument, error)
}
