package objectgraph

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure ImageExtractor implements the interface.
var _ driven.ImageExtractor = (*ImageExtractor)(nil)

// ImageExtractor enumerates image XObjects page by page.
type ImageExtractor struct{}

// NewImageExtractor creates an image stream walker.
func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

// Walk visits every XObject stream with positive Width and Height,
// whatever its Subtype. Pages are
// visited in document order and XObjects in name order. Streams without
// dimensions are skipped silently; Flate streams that fail to decompress
// are skipped with a diagnostic.
func (e *ImageExtractor) Walk(ctx context.Context, path string, visit driven.ImageVisitor) ([]domain.Diagnostic, error) {
	arena, err := Open(path)
	if err != nil {
		return nil, err
	}
	pages, err := arena.Pages()
	if err != nil {
		return nil, err
	}

	var diags []domain.Diagnostic
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return diags, err
		}

		xobjects, ok := arena.Dict(page.Resources["XObject"])
		if !ok {
			continue
		}
		for _, name := range SortedKeys(xobjects) {
			stream, diag := arena.imageStream(page.Number, name, xobjects[name])
			if diag != nil {
				logger.Debug("images: %v", *diag)
				diags = append(diags, *diag)
				continue
			}
			if stream == nil {
				continue
			}
			if err := visit(stream); err != nil {
				return diags, err
			}
		}
	}
	return diags, nil
}

// imageStream builds the ImageStream for one XObject entry. It returns
// (nil, nil) for entries that are silently skipped.
func (a *Arena) imageStream(page int, name string, ref types.Object) (*domain.ImageStream, *domain.Diagnostic) {
	sd, ok := a.Stream(ref)
	if !ok {
		return nil, nil
	}
	width, _ := a.Int(sd.Dict["Width"])
	height, _ := a.Int(sd.Dict["Height"])
	if width <= 0 || height <= 0 || width > math.MaxUint32 || height > math.MaxUint32 {
		logger.Debug("images: page %d /%s: no usable dimensions (%dx%d), skipped", page, name, width, height)
		return nil, nil
	}

	filterName, filter := a.filter(sd.Dict["Filter"])
	stream := &domain.ImageStream{
		Page:       page,
		Name:       name,
		Width:      int(width),
		Height:     int(height),
		Filter:     filter,
		FilterName: filterName,
		Raw:        sd.Raw,
	}

	if filter == domain.FilterFlate {
		decoded, err := Decode(sd)
		if err != nil {
			d := domain.NewDiagnostic(domain.StageImage, page, name, fmt.Errorf("inflate: %w", err))
			return nil, &d
		}
		stream.Decoded = decoded
	}
	return stream, nil
}

// filter reads a Filter entry. A one-element array counts as its element;
// longer chains are unsupported.
func (a *Arena) filter(o types.Object) (string, domain.Filter) {
	if o == nil {
		return "", domain.FilterUnsupported
	}
	if name, ok := a.Name(o); ok {
		return name, domain.ParseFilterName(name)
	}
	arr, ok := a.Array(o)
	if !ok {
		return "", domain.FilterUnsupported
	}
	names := make([]string, 0, len(arr))
	for _, item := range arr {
		n, _ := a.Name(item)
		names = append(names, n)
	}
	joined := strings.Join(names, ",")
	if len(names) == 1 {
		return joined, domain.ParseFilterName(names[0])
	}
	return joined, domain.FilterUnsupported
}
