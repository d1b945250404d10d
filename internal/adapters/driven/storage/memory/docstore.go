package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Used for the memory storage backend and in tests.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	latest    string
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(doc)
	return nil
}

// SaveProcessed stores doc and points the processed reference at it.
func (s *DocumentStore) SaveProcessed(ctx context.Context, doc *domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(doc)
	s.latest = doc.ID
	return nil
}

// put keeps the original CreatedAt on replace. Caller holds the lock.
func (s *DocumentStore) put(doc *domain.Document) {
	stored := *doc
	if prev, ok := s.documents[doc.ID]; ok && !prev.CreatedAt.IsZero() {
		stored.CreatedAt = prev.CreatedAt
	}
	s.documents[doc.ID] = stored
}

// Latest returns the processed document.
func (s *DocumentStore) Latest(_ context.Context) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == "" {
		return nil, domain.ErrNotFound
	}
	doc, ok := s.documents[s.latest]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents ordered by ID.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// DeleteDocument removes a document and clears the processed reference
// if it pointed at it.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	if s.latest == id {
		s.latest = ""
	}
	return nil
}

// Close releases resources (no-op for memory store).
func (s *DocumentStore) Close() error {
	return nil
}
