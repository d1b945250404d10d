// Package watcher provides file change notification adapters.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// Ensure FSNotifyWatcher implements the interface.
var _ driven.FileWatcher = (*FSNotifyWatcher)(nil)

// FSNotifyWatcher watches a single file through its parent directory, so
// editors that replace the file by rename are still seen.
type FSNotifyWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	once     sync.Once
}

// NewFSNotifyWatcher creates a watcher. A non-positive debounce uses DefaultDebounce.
func NewFSNotifyWatcher(debounce time.Duration) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FSNotifyWatcher{watcher: w, debounce: debounce}, nil
}

// Watch emits path after each quiet period following a write or create of
// the file. The channel closes when ctx is done or the watcher is closed.
func (w *FSNotifyWatcher) Watch(ctx context.Context, path string) (<-chan string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	abs = filepath.Clean(abs)

	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan string, 1)
	go w.loop(ctx, abs, out)
	return out, nil
}

func (w *FSNotifyWatcher) loop(ctx context.Context, target string, out chan<- string) {
	defer close(out)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", target, err)

		case <-timer.C:
			pending = false
			select {
			case out <- target:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Close stops the watcher. Safe to call more than once.
func (w *FSNotifyWatcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
	})
	return err
}
