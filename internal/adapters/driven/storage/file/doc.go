// Package file writes ingestion outputs to the local filesystem: the
// plain-text artifact of each ingested document and the PNG files of
// extracted images.
package file
