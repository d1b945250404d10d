package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, backend or strategy.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmptyQuery indicates a query with no keywords.
	ErrEmptyQuery = errors.New("empty query")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Extraction Errors.

	// ErrUnreadable indicates the document cannot be opened or parsed at all.
	// It is fatal to the requested operation and leaves stored state untouched.
	ErrUnreadable = errors.New("document unreadable")

	// ErrDecodeSkipped marks a per-object or per-stream failure.
	// It is absorbed into a Diagnostic and never aborts an operation.
	ErrDecodeSkipped = errors.New("decode skipped")

	// ErrIOFailure indicates an output artifact could not be created or written.
	ErrIOFailure = errors.New("output i/o failure")

	// Retrieval Errors.

	// ErrNoProcessedDocument indicates retrieval before any successful ingestion.
	// Callers should treat it as "no context available".
	ErrNoProcessedDocument = errors.New("no processed document")
)
