// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Pulls raw text out of a PDF
//   - Normaliser: Collapses whitespace in extracted text
//   - DocumentStore: Document persistence and the latest-ingestion pointer
//   - TextArtifactWriter: Plain-text output files
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ImageExtractor, ImageDecoder, ImageSink: Embedded image extraction.
//   - LLMService: Language model calls. Without it, ask is disabled.
//   - FileWatcher: Re-ingest on change.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or normaliser package
package driven
