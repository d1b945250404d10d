package driving

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// AskService runs the full pipeline for one question.
type AskService interface {
	// Ask optionally ingests req.PDFPath and extracts its images, then
	// retrieves context for req.Query and asks the language model.
	// Ingestion and image failures are recorded on the Answer and do not
	// stop retrieval.
	Ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error)
}
