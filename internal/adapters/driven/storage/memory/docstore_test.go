package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "a", Content: "alpha"}))

	doc, err := store.GetDocument(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", doc.Content)

	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_ReturnsCopies(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	original := &domain.Document{ID: "a", Content: "alpha"}
	require.NoError(t, store.SaveDocument(ctx, original))
	original.Content = "mutated"

	doc, err := store.GetDocument(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", doc.Content)
}

func TestDocumentStore_ReplaceKeepsCreatedAt(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveProcessed(ctx, &domain.Document{ID: "a", Content: "old", CreatedAt: created}))
	require.NoError(t, store.SaveProcessed(ctx, &domain.Document{ID: "a", Content: "new", CreatedAt: created.Add(time.Hour)}))

	doc, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", doc.Content)
	assert.Equal(t, created, doc.CreatedAt)
}

func TestDocumentStore_Latest(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.SaveProcessed(ctx, &domain.Document{ID: "a"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "b"}))

	doc, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", doc.ID)
}

func TestDocumentStore_SaveProcessedCancelled(t *testing.T) {
	store := NewDocumentStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.SaveProcessed(ctx, &domain.Document{ID: "a"}), context.Canceled)

	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Delete(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveProcessed(ctx, &domain.Document{ID: "a"}))
	require.NoError(t, store.DeleteDocument(ctx, "a"))

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.DeleteDocument(ctx, "a"), domain.ErrNotFound)
}

func TestDocumentStore_ListOrdered(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: id}))
	}

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
	assert.Equal(t, "c", docs[2].ID)
}

func TestDocumentStore_ConcurrentAccess(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.SaveProcessed(ctx, &domain.Document{ID: "doc", Content: "x"})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Latest(ctx)
		}()
	}
	wg.Wait()

	doc, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "doc", doc.ID)
}

func TestDocumentStore_Close(t *testing.T) {
	assert.NoError(t, NewDocumentStore().Close())
}
