package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/normalisers/whitespace"
)

type ingestFixture struct {
	svc       *IngestService
	retrieval *RetrievalService
	extractor *fakeExtractor
	artifacts *fakeArtifacts
	store     *failingStore
}

func newIngestFixture() *ingestFixture {
	state := NewState()
	store := &failingStore{DocumentStore: memory.NewDocumentStore()}
	extractor := newFakeExtractor()
	artifacts := &fakeArtifacts{}
	svc := NewIngestService(state, extractor, whitespace.New(), store, artifacts)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return &ingestFixture{
		svc:       svc,
		retrieval: NewRetrievalService(state, store),
		extractor: extractor,
		artifacts: artifacts,
		store:     store,
	}
}

func absPath(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	require.NoError(t, err)
	return abs
}

func TestIngest_Success(t *testing.T) {
	f := newIngestFixture()
	path := absPath(t, "report.pdf")
	f.extractor.results[path] = &domain.RawText{Text: "Hello   World\n\nFoo", Pages: 2}

	report, err := f.svc.Ingest(context.Background(), "report.pdf")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, path, report.Document.ID)
	assert.Equal(t, "Hello World Foo", report.Document.Content)
	assert.Equal(t, 2, report.Document.Pages)
	assert.Equal(t, "report", report.Document.Title)
	assert.NotEmpty(t, report.Document.RunID)
	assert.Equal(t, f.artifacts.PathFor(path), report.ArtifactPath)
	assert.Equal(t, []string{path}, f.artifacts.committed)
	assert.Empty(t, f.artifacts.discarded)

	text, err := f.retrieval.Retrieve(context.Background(), "world")
	require.NoError(t, err)
	assert.Equal(t, "Hello World Foo", text)
}

func TestIngest_EmptyPath(t *testing.T) {
	f := newIngestFixture()

	_, err := f.svc.Ingest(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.extractor.calls)
}

func TestIngest_EmptyTextIsSuccess(t *testing.T) {
	f := newIngestFixture()
	path := absPath(t, "blank.pdf")
	f.extractor.results[path] = &domain.RawText{Pages: 1}

	report, err := f.svc.Ingest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "", report.Document.Content)

	text, err := f.retrieval.Retrieve(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestIngest_DiagnosticsReported(t *testing.T) {
	f := newIngestFixture()
	path := absPath(t, "partial.pdf")
	diag := domain.NewDiagnostic(domain.StageText, 2, "", fmt.Errorf("bad page"))
	f.extractor.results[path] = &domain.RawText{Text: "page one", Pages: 2, Diagnostics: []domain.Diagnostic{diag}}

	report, err := f.svc.Ingest(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, 2, report.Diagnostics[0].Page)
}

func TestIngest_FailureKeepsPreviousDocument(t *testing.T) {
	ctx := context.Background()
	f := newIngestFixture()
	good := absPath(t, "good.pdf")
	bad := absPath(t, "bad.pdf")
	f.extractor.results[good] = &domain.RawText{Text: "the original words"}
	f.extractor.errs[bad] = fmt.Errorf("%w: not a pdf", domain.ErrUnreadable)

	_, err := f.svc.Ingest(ctx, good)
	require.NoError(t, err)

	report, err := f.svc.Ingest(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrUnreadable)
	assert.Nil(t, report)

	text, err := f.retrieval.Retrieve(ctx, "original")
	require.NoError(t, err)
	assert.Equal(t, "the original words", text)
	assert.Equal(t, []string{good}, f.artifacts.staged)
}

func TestIngest_FailedThenSuccessful(t *testing.T) {
	ctx := context.Background()
	f := newIngestFixture()
	path := absPath(t, "flaky.pdf")
	f.extractor.errs[path] = domain.ErrUnreadable

	_, err := f.svc.Ingest(ctx, path)
	require.Error(t, err)

	_, err = f.retrieval.Retrieve(ctx, "words")
	assert.ErrorIs(t, err, domain.ErrNoProcessedDocument)

	delete(f.extractor.errs, path)
	f.extractor.results[path] = &domain.RawText{Text: "fresh words"}

	_, err = f.svc.Ingest(ctx, path)
	require.NoError(t, err)

	text, err := f.retrieval.Retrieve(ctx, "words")
	require.NoError(t, err)
	assert.Equal(t, "fresh words", text)
}

func TestIngest_StageFailure(t *testing.T) {
	f := newIngestFixture()
	path := absPath(t, "doc.pdf")
	f.extractor.results[path] = &domain.RawText{Text: "text"}
	f.artifacts.stageErr = fmt.Errorf("%w: disk full", domain.ErrIOFailure)

	report, err := f.svc.Ingest(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrIOFailure)
	assert.Nil(t, report)

	_, err = f.store.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngest_StoreFailureDiscardsArtifact(t *testing.T) {
	ctx := context.Background()
	f := newIngestFixture()
	first := absPath(t, "first.pdf")
	second := absPath(t, "second.pdf")
	f.extractor.results[first] = &domain.RawText{Text: "first text"}
	f.extractor.results[second] = &domain.RawText{Text: "second text"}

	_, err := f.svc.Ingest(ctx, first)
	require.NoError(t, err)

	f.store.fail = true
	report, err := f.svc.Ingest(ctx, second)
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, report)
	assert.Equal(t, []string{second}, f.artifacts.discarded)
	assert.Equal(t, []string{first}, f.artifacts.committed)

	latest, err := f.store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, latest.ID)
}

func TestIngest_CommitFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	commitErr := fmt.Errorf("%w: rename", domain.ErrIOFailure)

	t.Run("nothing processed before", func(t *testing.T) {
		f := newIngestFixture()
		path := absPath(t, "doc.pdf")
		f.extractor.results[path] = &domain.RawText{Text: "never published"}
		f.artifacts.commitErr = commitErr

		report, err := f.svc.Ingest(ctx, path)
		assert.ErrorIs(t, err, domain.ErrIOFailure)
		assert.Nil(t, report)

		_, err = f.store.Latest(ctx)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = f.store.GetDocument(ctx, path)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("same path restores previous version", func(t *testing.T) {
		f := newIngestFixture()
		path := absPath(t, "doc.pdf")
		f.extractor.results[path] = &domain.RawText{Text: "version one"}
		first, err := f.svc.Ingest(ctx, path)
		require.NoError(t, err)

		f.extractor.results[path] = &domain.RawText{Text: "version two"}
		f.artifacts.commitErr = commitErr
		_, err = f.svc.Ingest(ctx, path)
		assert.ErrorIs(t, err, domain.ErrIOFailure)

		latest, err := f.store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "version one", latest.Content)
		assert.Equal(t, first.Document.RunID, latest.RunID)

		text, err := f.retrieval.Retrieve(ctx, "version")
		require.NoError(t, err)
		assert.Equal(t, "version one", text)
	})

	t.Run("other path keeps previous latest", func(t *testing.T) {
		f := newIngestFixture()
		old := absPath(t, "old.pdf")
		path := absPath(t, "new.pdf")
		f.extractor.results[old] = &domain.RawText{Text: "old text"}
		f.extractor.results[path] = &domain.RawText{Text: "new text"}
		_, err := f.svc.Ingest(ctx, old)
		require.NoError(t, err)

		f.artifacts.commitErr = commitErr
		_, err = f.svc.Ingest(ctx, path)
		assert.ErrorIs(t, err, domain.ErrIOFailure)

		latest, err := f.store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, old, latest.ID)
		_, err = f.store.GetDocument(ctx, path)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestIngest_ReingestReplacesContent(t *testing.T) {
	ctx := context.Background()
	f := newIngestFixture()
	path := absPath(t, "doc.pdf")

	f.extractor.results[path] = &domain.RawText{Text: "version one"}
	r1, err := f.svc.Ingest(ctx, path)
	require.NoError(t, err)

	f.extractor.results[path] = &domain.RawText{Text: "version two"}
	r2, err := f.svc.Ingest(ctx, path)
	require.NoError(t, err)

	assert.NotEqual(t, r1.Document.RunID, r2.Document.RunID)

	text, err := f.retrieval.Retrieve(ctx, "version")
	require.NoError(t, err)
	assert.Equal(t, "version two", text)

	docs, err := f.store.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
