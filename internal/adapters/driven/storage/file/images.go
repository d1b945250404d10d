package file

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure PNGSink implements the interface.
var _ driven.ImageSink = (*PNGSink)(nil)

// PNGSink writes decoded images as PNG files named page_<n>_<name>.png.
// Existing files are overwritten.
type PNGSink struct{}

// NewPNGSink creates a PNG sink.
func NewPNGSink() *PNGSink {
	return &PNGSink{}
}

// Prepare creates dir and any missing parents.
func (s *PNGSink) Prepare(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", domain.ErrIOFailure, dir, err)
	}
	return nil
}

// Write encodes img to dir.
func (s *PNGSink) Write(dir string, img *domain.PageImage) (string, error) {
	path := filepath.Join(dir, img.FileName())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %w", domain.ErrIOFailure, path, err)
	}

	if err := png.Encode(f, img.Image); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: encode %s: %w", domain.ErrIOFailure, path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %w", domain.ErrIOFailure, path, err)
	}
	return path, nil
}
