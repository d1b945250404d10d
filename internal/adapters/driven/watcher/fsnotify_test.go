package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFSNotifyWatcher_DefaultDebounce(t *testing.T) {
	w, err := NewFSNotifyWatcher(0)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestWatch_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(target, []byte("v0"), 0o600))

	w, err := NewFSNotifyWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Watch(ctx, target)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte{byte('a' + i)}, 0o600))
	}

	select {
	case got := <-events:
		abs, _ := filepath.Abs(target)
		assert.Equal(t, abs, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	select {
	case extra := <-events:
		t.Fatalf("burst produced a second event: %s", extra)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(target, nil, 0o600))

	w, err := NewFSNotifyWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Watch(ctx, target)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.pdf"), []byte("x"), 0o600))

	select {
	case got := <-events:
		t.Fatalf("unexpected event for %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := NewFSNotifyWatcher(0)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Watch(ctx, filepath.Join(dir, "doc.pdf"))
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	w, err := NewFSNotifyWatcher(0)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "doc.pdf"))
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	w, err := NewFSNotifyWatcher(0)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
