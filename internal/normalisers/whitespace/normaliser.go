// Package whitespace normalises extracted text into a single run of
// space-separated tokens.
package whitespace

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser collapses whitespace.
type Normaliser struct{}

// New creates a new whitespace normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise replaces every maximal run of whitespace with one space and
// trims both ends. It never fails and is idempotent.
func (n *Normaliser) Normalise(text string) string {
	return Normalise(text)
}

// Normalise is the package-level form of Normaliser.Normalise.
func Normalise(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Title derives a human-readable title from a file path.
func Title(path string) string {
	filename := filepath.Base(path)

	// Remove the extension for a cleaner title
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return Normalise(filename)
}
