package driven

import "context"

// FileWatcher reports changes to a single file.
type FileWatcher interface {
	// Watch emits path each time the file is written or re-created,
	// coalescing bursts. The channel closes when ctx is done.
	Watch(ctx context.Context, path string) (<-chan string, error)

	// Close stops all watches.
	Close() error
}
