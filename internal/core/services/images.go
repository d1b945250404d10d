package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure ImageService implements the interface.
var _ driving.ImageService = (*ImageService)(nil)

// ImageService writes the decodable images of a PDF to a directory.
type ImageService struct {
	walker   driven.ImageExtractor
	decoder  driven.ImageDecoder
	sink     driven.ImageSink
	maxWidth int
}

// NewImageService creates an image service. Images wider than maxWidth
// are downscaled; zero keeps original sizes.
func NewImageService(walker driven.ImageExtractor, decoder driven.ImageDecoder, sink driven.ImageSink, maxWidth int) *ImageService {
	return &ImageService{
		walker:   walker,
		decoder:  decoder,
		sink:     sink,
		maxWidth: maxWidth,
	}
}

// ExtractImages walks the PDF's image XObjects and writes each decodable
// one to dir. The document is parsed before dir is created, so an
// unreadable PDF leaves the filesystem untouched.
func (s *ImageService) ExtractImages(ctx context.Context, path, dir string) (*domain.ImageReport, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty output directory", domain.ErrInvalidInput)
	}

	logger.Section("Images")
	report := &domain.ImageReport{Dir: dir}
	prepared := false

	walkDiags, err := s.walker.Walk(ctx, path, func(stream *domain.ImageStream) error {
		if !prepared {
			if err := s.sink.Prepare(dir); err != nil {
				return err
			}
			prepared = true
		}
		return s.write(dir, stream, report)
	})
	report.Diagnostics = append(report.Diagnostics, walkDiags...)
	report.Skipped += len(walkDiags)
	if err != nil {
		return report, fmt.Errorf("extract images from %s: %w", path, err)
	}

	if !prepared {
		if err := s.sink.Prepare(dir); err != nil {
			return report, fmt.Errorf("extract images from %s: %w", path, err)
		}
	}

	for _, d := range report.Diagnostics {
		logger.Warn("images: %v", d)
	}
	logger.Info("images: wrote %d, skipped %d, into %s", len(report.Written), report.Skipped, dir)
	return report, nil
}

// write decodes one stream and hands it to the sink. Decode failures are
// recorded and absorbed; sink failures abort the walk.
func (s *ImageService) write(dir string, stream *domain.ImageStream, report *domain.ImageReport) error {
	img, err := s.decoder.Decode(stream)
	if err != nil {
		report.Diagnostics = append(report.Diagnostics,
			domain.NewDiagnostic(domain.StageImage, stream.Page, stream.Name, err))
		report.Skipped++
		return nil
	}

	if s.maxWidth > 0 {
		img = s.decoder.Downscale(img, s.maxWidth)
	}

	written, err := s.sink.Write(dir, &domain.PageImage{
		Page:  stream.Page,
		Name:  stream.Name,
		Image: img,
	})
	if err != nil {
		return err
	}
	logger.Debug("images: %s -> %s", stream, written)
	report.Written = append(report.Written, written)
	return nil
}
