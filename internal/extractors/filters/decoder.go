// Package filters decodes image streams by compression filter.
//
// The supported set is closed: DCT streams are decoded as JPEG files and
// Flate streams are read as raw RGBA pixels. Anything else is skipped.
package filters

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // DCT streams
	_ "image/png"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.ImageDecoder = (*Decoder)(nil)

// Decoder decodes DCT and Flate image streams.
type Decoder struct{}

// NewDecoder creates a filter decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode returns the stream's pixels. Every failure matches
// domain.ErrDecodeSkipped.
func (d *Decoder) Decode(s *domain.ImageStream) (image.Image, error) {
	if err := validateBounds(s.Width, s.Height); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDecodeSkipped, s, err)
	}

	switch s.Filter {
	case domain.FilterDCT:
		img, _, err := image.Decode(bytes.NewReader(s.Raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrDecodeSkipped, s, err)
		}
		return img, nil

	case domain.FilterFlate:
		want := s.Width * s.Height * 4
		if len(s.Decoded) != want {
			return nil, fmt.Errorf("%w: %s: %d bytes, want %d for RGBA", domain.ErrDecodeSkipped, s, len(s.Decoded), want)
		}
		pix := make([]byte, want)
		copy(pix, s.Decoded)
		return &image.RGBA{
			Pix:    pix,
			Stride: s.Width * 4,
			Rect:   image.Rect(0, 0, s.Width, s.Height),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %s: unsupported filter", domain.ErrDecodeSkipped, s)
	}
}
