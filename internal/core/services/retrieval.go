package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// foldCacheSize bounds the number of case-folded texts kept in memory.
const foldCacheSize = 128

// RetrievalService finds keyword context in stored documents.
type RetrievalService struct {
	state *State
	store driven.DocumentStore
	folds *lru.Cache[string, string]
}

// NewRetrievalService creates a retrieval service reading from store.
// state must be the one shared with the IngestService writing to store.
func NewRetrievalService(state *State, store driven.DocumentStore) *RetrievalService {
	folds, err := lru.New[string, string](foldCacheSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &RetrievalService{
		state: state,
		store: store,
		folds: folds,
	}
}

// Retrieve returns the window around the first query keyword found in the
// processed document, or "" when no keyword matches.
func (s *RetrievalService) Retrieve(ctx context.Context, query string) (string, error) {
	window, err := s.RetrieveWindow(ctx, query)
	if err != nil {
		return "", err
	}
	if window == nil {
		return "", nil
	}
	return window.Text, nil
}

// RetrieveWindow is Retrieve with the match position and bounds.
func (s *RetrievalService) RetrieveWindow(ctx context.Context, query string) (*domain.ContextWindow, error) {
	s.state.mu.RLock()
	doc, err := s.store.Latest(ctx)
	s.state.mu.RUnlock()

	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoProcessedDocument
	}
	if err != nil {
		return nil, fmt.Errorf("load processed document: %w", err)
	}

	window := s.window(doc, query)
	if window == nil {
		logger.Debug("retrieve: no keyword of %q in %s", query, doc.ID)
	} else {
		logger.Debug("retrieve: %q at byte %d of %s, window [%d,%d)",
			window.Keyword, window.Position, doc.ID, window.Start, window.End)
	}
	return window, nil
}

// window scans the query keywords in order and cuts the window around
// the first occurrence of the first keyword present in doc.
func (s *RetrievalService) window(doc *domain.Document, query string) *domain.ContextWindow {
	if doc.Content == "" {
		return nil
	}
	folded := s.folded(doc)

	for _, keyword := range strings.Fields(foldCase(query)) {
		pos := strings.Index(folded, keyword)
		if pos < 0 {
			continue
		}

		start := max(0, pos-domain.ContextRadius)
		end := min(len(doc.Content), pos+len(keyword)+domain.ContextRadius)
		start, end = runeBounds(doc.Content, start, end, pos, len(keyword))

		return &domain.ContextWindow{
			DocumentID: doc.ID,
			Keyword:    keyword,
			Position:   pos,
			Start:      start,
			End:        end,
			Text:       doc.Content[start:end],
		}
	}
	return nil
}

// RetrieveRanked scores every stored document by non-overlapping,
// case-insensitive occurrences of the whole query. Ties are ordered by ID.
func (s *RetrievalService) RetrieveRanked(ctx context.Context, query string, topK int) ([]domain.RankedDocument, error) {
	needle := foldCase(query)
	if topK <= 0 || strings.TrimSpace(needle) == "" {
		return nil, nil
	}

	s.state.mu.RLock()
	docs, err := s.store.ListDocuments(ctx)
	s.state.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var ranked []domain.RankedDocument
	for i := range docs {
		score := strings.Count(s.folded(&docs[i]), needle)
		if score == 0 {
			continue
		}
		ranked = append(ranked, domain.RankedDocument{
			ID:    docs[i].ID,
			Title: docs[i].Title,
			Score: score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	logger.Debug("rank: %q matched %d of %d documents", query, len(ranked), len(docs))
	return ranked, nil
}

// folded returns the case-folded content of doc, cached per version.
func (s *RetrievalService) folded(doc *domain.Document) string {
	key := doc.CacheKey()
	if f, ok := s.folds.Get(key); ok {
		return f
	}
	f := foldCase(doc.Content)
	s.folds.Add(key, f)
	return f
}
