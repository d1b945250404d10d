package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/normalisers/whitespace"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages stored documents.
type DocumentService struct {
	state      *State
	store      driven.DocumentStore
	normaliser driven.Normaliser
	now        func() time.Time
}

// NewDocumentService creates a new document service.
func NewDocumentService(state *State, store driven.DocumentStore, normaliser driven.Normaliser) *DocumentService {
	return &DocumentService{
		state:      state,
		store:      store,
		normaliser: normaliser,
		now:        time.Now,
	}
}

// List returns all stored documents ordered by ID.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	return s.store.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	return s.store.GetDocument(ctx, id)
}

// Latest returns the processed document, or domain.ErrNoProcessedDocument.
func (s *DocumentService) Latest(ctx context.Context) (*domain.Document, error) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()

	doc, err := s.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoProcessedDocument
		}
		return nil, err
	}
	return doc, nil
}

// Add normalises text and stores it under id. Ranked retrieval sees it;
// the processed document does not change.
func (s *DocumentService) Add(ctx context.Context, id, title, text string) (*domain.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}
	if title == "" {
		title = whitespace.Title(id)
	}

	now := s.now()
	doc := &domain.Document{
		ID:        id,
		Title:     title,
		Content:   s.normaliser.Normalise(text),
		RunID:     uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("add document %s: %w", id, err)
	}
	return doc, nil
}

// Delete removes a document. Deleting the processed document clears it.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.store.DeleteDocument(ctx, id)
}
