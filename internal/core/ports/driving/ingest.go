package driving

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// IngestService turns a PDF into a stored, normalised document.
type IngestService interface {
	// Ingest extracts, normalises and stores the PDF at path, writes its
	// plain-text artifact and marks it as the processed document.
	// On error the store, the artifact and the processed pointer are
	// left as they were.
	Ingest(ctx context.Context, path string) (*domain.IngestReport, error)
}

// ImageService extracts embedded raster images from a PDF.
type ImageService interface {
	// ExtractImages writes every decodable image XObject of the PDF at
	// path into dir as page_<n>_<name>.png. Undecodable streams are
	// skipped. Returns domain.ErrUnreadable or domain.ErrIOFailure for
	// whole-operation failures.
	ExtractImages(ctx context.Context, path, dir string) (*domain.ImageReport, error)
}
