package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
	"github.com/custodia-labs/groundwork/internal/normalisers/whitespace"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService extracts, normalises and stores PDFs.
type IngestService struct {
	state      *State
	extractor  driven.TextExtractor
	normaliser driven.Normaliser
	store      driven.DocumentStore
	artifacts  driven.TextArtifactWriter

	// ingestMu serialises ingestions; state is only write-locked for the swap.
	ingestMu sync.Mutex
	now      func() time.Time
}

// NewIngestService creates an ingest service. state must be shared with
// the RetrievalService reading from store.
func NewIngestService(
	state *State,
	extractor driven.TextExtractor,
	normaliser driven.Normaliser,
	store driven.DocumentStore,
	artifacts driven.TextArtifactWriter,
) *IngestService {
	return &IngestService{
		state:      state,
		extractor:  extractor,
		normaliser: normaliser,
		store:      store,
		artifacts:  artifacts,
		now:        time.Now,
	}
}

// Ingest runs extract → normalise → stage artifact → store swap → commit
// artifact. Any failure leaves the store, the processed document and the
// artifact as they were; a failed commit rolls the store back.
func (s *IngestService) Ingest(ctx context.Context, path string) (*domain.IngestReport, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	id := filepath.Clean(abs)

	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	runID := uuid.NewString()
	logger.Section("Ingest")
	logger.Info("run %s: extracting %s with %s", runID, id, s.extractor.Name())

	raw, err := s.extractor.Extract(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", id, err)
	}
	for _, d := range raw.Diagnostics {
		logger.Warn("run %s: %v", runID, d)
	}

	now := s.now()
	doc := &domain.Document{
		ID:        id,
		URI:       id,
		Title:     whitespace.Title(id),
		Content:   s.normaliser.Normalise(raw.Text),
		Pages:     raw.Pages,
		RunID:     runID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.Content == "" {
		logger.Info("run %s: %s has no extractable text", runID, id)
	}

	staged, err := s.artifacts.Stage(doc)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", id, err)
	}

	artifactPath, err := s.swap(ctx, doc, staged)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", id, err)
	}
	report := &domain.IngestReport{
		Document:     doc,
		ArtifactPath: artifactPath,
		Diagnostics:  raw.Diagnostics,
	}

	logger.Info("run %s: stored %d chars from %d pages, artifact %s",
		runID, len(doc.Content), doc.Pages, artifactPath)
	return report, nil
}

// swap stores doc as the processed document and publishes the staged
// artifact under the exclusive lock. If the artifact cannot be published
// the previous store state is put back.
func (s *IngestService) swap(ctx context.Context, doc *domain.Document, staged driven.StagedArtifact) (string, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	prev, err := s.snapshot(ctx, doc.ID)
	if err != nil {
		s.discard(staged)
		return "", err
	}

	if err := s.store.SaveProcessed(ctx, doc); err != nil {
		s.discard(staged)
		return "", fmt.Errorf("store document: %w", err)
	}

	path, err := staged.Commit()
	if err != nil {
		if rerr := s.restore(context.WithoutCancel(ctx), doc.ID, prev); rerr != nil {
			logger.Error("roll back %s: %v", doc.ID, rerr)
		}
		return "", err
	}
	return path, nil
}

// storeSnapshot is what a failed commit restores.
type storeSnapshot struct {
	latest *domain.Document
	same   *domain.Document
}

func (s *IngestService) snapshot(ctx context.Context, id string) (storeSnapshot, error) {
	var snap storeSnapshot
	latest, err := s.store.Latest(ctx)
	switch {
	case err == nil:
		snap.latest = latest
	case !errors.Is(err, domain.ErrNotFound):
		return snap, fmt.Errorf("read latest document: %w", err)
	}

	same, err := s.store.GetDocument(ctx, id)
	switch {
	case err == nil:
		snap.same = same
	case !errors.Is(err, domain.ErrNotFound):
		return snap, fmt.Errorf("read document %s: %w", id, err)
	}
	return snap, nil
}

func (s *IngestService) restore(ctx context.Context, id string, snap storeSnapshot) error {
	if snap.same != nil {
		if err := s.store.SaveDocument(ctx, snap.same); err != nil {
			return err
		}
	} else if err := s.store.DeleteDocument(ctx, id); err != nil {
		return err
	}
	if snap.latest != nil {
		return s.store.SaveProcessed(ctx, snap.latest)
	}
	return nil
}

func (s *IngestService) discard(staged driven.StagedArtifact) {
	if err := staged.Discard(); err != nil {
		logger.Warn("discard staged artifact: %v", err)
	}
}
