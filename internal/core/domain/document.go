package domain

import "time"

// Document is a stored, normalised text.
// Content is always the normalised form, never raw extracted text.
type Document struct {
	// ID is the unique identifier: the cleaned absolute source path
	// for ingested PDFs, or a caller-chosen logical id.
	ID string

	// URI is the original location. Empty for documents added as text.
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the normalised text.
	Content string

	// Pages is the number of pages the extractor visited.
	Pages int

	// RunID identifies the ingestion run that produced this version.
	RunID string

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the document was last replaced.
	UpdatedAt time.Time
}

// CacheKey identifies this version of the document's content.
func (d *Document) CacheKey() string {
	return d.ID + "@" + d.RunID + "@" + d.UpdatedAt.UTC().Format(time.RFC3339Nano)
}

// IngestReport describes a completed ingestion.
type IngestReport struct {
	// Document is the stored document.
	Document *Document

	// ArtifactPath is the plain-text file written for this ingestion.
	ArtifactPath string

	// Diagnostics lists the per-page or per-object failures absorbed
	// during extraction.
	Diagnostics []Diagnostic
}
