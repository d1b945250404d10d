// Package domain defines the core business entities for groundwork.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a normalised, stored PDF text
//   - RawText: extractor output before normalisation
//   - ImageStream / PageImage: embedded raster images found in a PDF
//   - ContextWindow / RankedDocument: retrieval results
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
