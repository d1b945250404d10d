package driven

import "github.com/custodia-labs/groundwork/internal/core/domain"

// TextArtifactWriter writes the plain-text output file of an ingestion.
// Writing is two-phase so the file only changes once the store has
// accepted the document.
type TextArtifactWriter interface {
	// Stage writes doc's content to a temporary file next to its final path.
	Stage(doc *domain.Document) (StagedArtifact, error)

	// PathFor returns the final artifact path for a document ID.
	PathFor(id string) string
}

// StagedArtifact is a written but not yet visible artifact.
type StagedArtifact interface {
	// Commit moves the staged file into place and returns its path.
	Commit() (string, error)

	// Discard removes the staged file.
	Discard() error
}
