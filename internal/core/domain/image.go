package domain

import (
	"fmt"
	"image"
	"strings"
)

// Filter is the closed set of image stream compression filters
// that can be decoded. Everything else is FilterUnsupported.
type Filter int

const (
	// FilterUnsupported is any filter, or filter chain, outside the supported set.
	FilterUnsupported Filter = iota

	// FilterDCT is JPEG (DCTDecode). The raw stream bytes are a JPEG file.
	FilterDCT

	// FilterFlate is zlib/deflate (FlateDecode). The decompressed bytes
	// are read as raw RGBA pixels.
	FilterFlate
)

// ParseFilterName maps a PDF filter name to a Filter.
// Both the full and the inline-image abbreviated names are accepted.
func ParseFilterName(name string) Filter {
	switch strings.TrimPrefix(name, "/") {
	case "DCTDecode", "DCT":
		return FilterDCT
	case "FlateDecode", "Fl":
		return FilterFlate
	default:
		return FilterUnsupported
	}
}

// String returns the PDF filter name.
func (f Filter) String() string {
	switch f {
	case FilterDCT:
		return "DCTDecode"
	case FilterFlate:
		return "FlateDecode"
	default:
		return "Unsupported"
	}
}

// ImageStream is an image XObject found while walking a page's resources.
// It lives only for the duration of one extraction operation.
type ImageStream struct {
	// Page is the 1-based page index.
	Page int

	// Name is the XObject resource name without the leading slash.
	Name string

	// Width and Height are the declared pixel dimensions.
	Width  int
	Height int

	// Filter is the parsed compression filter.
	Filter Filter

	// FilterName is the declared filter as written in the stream dictionary.
	FilterName string

	// Raw holds the encoded stream bytes.
	Raw []byte

	// Decoded holds the decompressed bytes for Flate streams.
	Decoded []byte
}

// FileName returns the deterministic output file name page_<page>_<name>.png.
func (s *ImageStream) FileName() string {
	return fmt.Sprintf("page_%d_%s.png", s.Page, sanitizeName(s.Name))
}

// String identifies the stream in logs and diagnostics.
func (s *ImageStream) String() string {
	return fmt.Sprintf("page %d /%s (%dx%d %s)", s.Page, s.Name, s.Width, s.Height, s.FilterName)
}

// PageImage is a decoded image ready to be written.
type PageImage struct {
	Page  int
	Name  string
	Image image.Image
}

// FileName returns the same name as the stream the image was decoded from.
func (p *PageImage) FileName() string {
	return fmt.Sprintf("page_%d_%s.png", p.Page, sanitizeName(p.Name))
}

// ImageReport summarises an image extraction run.
type ImageReport struct {
	// Dir is the output directory.
	Dir string

	// Written lists the files written, in processing order.
	Written []string

	// Skipped counts streams that were not written.
	Skipped int

	// Diagnostics lists per-stream failures.
	Diagnostics []Diagnostic
}

// sanitizeName keeps XObject names usable as a single path element.
func sanitizeName(name string) string {
	if name == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
}
