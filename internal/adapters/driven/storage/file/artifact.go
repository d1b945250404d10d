package file

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure TextWriter implements the interface.
var _ driven.TextArtifactWriter = (*TextWriter)(nil)

// TextWriter writes <dir>/<base>-<hash>.txt where base is the document
// ID's file name without extension and hash is the first 8 hex digits of
// sha256(id). Distinct IDs with the same base name never collide.
type TextWriter struct {
	dir string
}

// NewTextWriter creates a writer rooted at dir. The directory is created
// on the first Stage.
func NewTextWriter(dir string) *TextWriter {
	return &TextWriter{dir: dir}
}

// Dir returns the output directory.
func (w *TextWriter) Dir() string {
	return w.dir
}

// PathFor returns the artifact path for a document ID.
func (w *TextWriter) PathFor(id string) string {
	base := strings.TrimSuffix(filepath.Base(id), filepath.Ext(id))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "document"
	}
	sum := sha256.Sum256([]byte(id))
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.txt", base, hex.EncodeToString(sum[:4])))
}

// Stage writes the document content to a temp file in the output directory.
func (w *TextWriter) Stage(doc *domain.Document) (driven.StagedArtifact, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", domain.ErrIOFailure, w.dir, err)
	}

	final := w.PathFor(doc.ID)
	tmp, err := os.CreateTemp(w.dir, filepath.Base(final)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %w", domain.ErrIOFailure, err)
	}

	if _, err := tmp.WriteString(doc.Content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("%w: write %s: %w", domain.ErrIOFailure, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("%w: close %s: %w", domain.ErrIOFailure, tmp.Name(), err)
	}

	return &stagedFile{tmp: tmp.Name(), final: final}, nil
}

type stagedFile struct {
	tmp   string
	final string
}

func (s *stagedFile) Commit() (string, error) {
	if err := os.Rename(s.tmp, s.final); err != nil {
		os.Remove(s.tmp)
		return "", fmt.Errorf("%w: rename to %s: %w", domain.ErrIOFailure, s.final, err)
	}
	return s.final, nil
}

func (s *stagedFile) Discard() error {
	if err := os.Remove(s.tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove %s: %w", domain.ErrIOFailure, s.tmp, err)
	}
	return nil
}
