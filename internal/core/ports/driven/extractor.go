package driven

import (
	"context"
	"image"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// TextExtractor pulls the textual content out of a PDF.
//
// Implementations return domain.ErrUnreadable when the file cannot be
// opened or parsed at all. Per-page and per-object failures are recorded
// in RawText.Diagnostics and do not fail the call. An empty Text is a
// successful result.
type TextExtractor interface {
	// Extract reads the PDF at path.
	Extract(ctx context.Context, path string) (*domain.RawText, error)

	// Name identifies the extractor in logs.
	Name() string
}

// ImageVisitor receives each image stream found by an ImageExtractor.
// Returning an error stops the walk and the error is returned as is.
type ImageVisitor func(stream *domain.ImageStream) error

// ImageExtractor walks a PDF's page resources and reports image streams.
type ImageExtractor interface {
	// Walk parses the PDF at path and calls visit for every image XObject
	// with a positive declared width and height, pages in document order.
	// Parse failures return domain.ErrUnreadable; per-stream failures
	// are returned as diagnostics.
	Walk(ctx context.Context, path string, visit ImageVisitor) ([]domain.Diagnostic, error)
}

// ImageDecoder turns an encoded image stream into pixels.
type ImageDecoder interface {
	// Decode returns the image or an error matching domain.ErrDecodeSkipped.
	Decode(stream *domain.ImageStream) (image.Image, error)

	// Downscale shrinks img to maxWidth, keeping the aspect ratio.
	// Images already narrow enough, or maxWidth <= 0, are returned unchanged.
	Downscale(img image.Image, maxWidth int) image.Image
}

// ImageSink persists decoded images.
type ImageSink interface {
	// Prepare creates dir if absent.
	Prepare(dir string) error

	// Write stores img in dir and returns the written path.
	Write(dir string, img *domain.PageImage) (string, error)
}
