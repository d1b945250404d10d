package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "groundwork-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func newDoc(id, content string) *domain.Document {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Document{
		ID:        id,
		URI:       "/docs/" + id + ".pdf",
		Title:     id,
		Content:   content,
		Pages:     2,
		RunID:     "run-" + id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, "documents.db", filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.DocumentStore().SaveProcessed(ctx, newDoc("a", "alpha")))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	latest, err := store.DocumentStore().Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alpha", latest.Content)
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	doc := newDoc("a", "Hello World Foo")
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.URI, got.URI)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, 2, got.Pages)
	assert.Equal(t, "run-a", got.RunID)
	assert.WithinDuration(t, doc.UpdatedAt, got.UpdatedAt, time.Millisecond)
}

func TestDocumentStore_GetMissing(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.DocumentStore().GetDocument(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_UpsertReplacesContent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	first := newDoc("a", "old")
	require.NoError(t, docs.SaveDocument(ctx, first))

	second := newDoc("a", "new")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	second.UpdatedAt = first.UpdatedAt.Add(time.Hour)
	require.NoError(t, docs.SaveDocument(ctx, second))

	got, err := docs.GetDocument(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Content)
	assert.WithinDuration(t, first.CreatedAt, got.CreatedAt, time.Millisecond, "created_at is kept")

	all, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDocumentStore_Latest(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	_, err := docs.Latest(ctx)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, docs.SaveProcessed(ctx, newDoc("a", "alpha")))
	require.NoError(t, docs.SaveProcessed(ctx, newDoc("b", "beta")))

	latest, err := docs.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)

	// SaveDocument does not move the pointer
	require.NoError(t, docs.SaveDocument(ctx, newDoc("c", "gamma")))
	latest, err = docs.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", latest.ID)
}

func TestDocumentStore_SaveProcessedCancelled(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	docs := store.DocumentStore()

	require.NoError(t, docs.SaveProcessed(context.Background(), newDoc("a", "alpha")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, docs.SaveProcessed(ctx, newDoc("b", "beta")))

	latest, err := docs.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", latest.ID)
	_, err = docs.GetDocument(context.Background(), "b")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_DeleteClearsLatest(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	require.NoError(t, docs.SaveProcessed(ctx, newDoc("a", "alpha")))
	require.NoError(t, docs.DeleteDocument(ctx, "a"))

	_, err := docs.Latest(ctx)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = docs.DeleteDocument(ctx, "a")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentStore_ListOrdered(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()
	docs := store.DocumentStore()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, docs.SaveDocument(ctx, newDoc(id, id)))
	}

	all, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})
}
