// Package textpass extracts PDF text with a dedicated per-page text pass.
package textpass

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads page text through the PDF's fonts and text operators.
type Extractor struct{}

// New creates a new text pass extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the extractor in logs.
func (e *Extractor) Name() string {
	return string(domain.StrategyText)
}

// Extract reads every page in order. A page that fails is recorded as a
// diagnostic and skipped; a file that cannot be parsed is ErrUnreadable.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.RawText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", path, domain.ErrUnreadable, err)
	}

	reader, err := openReader(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, domain.ErrUnreadable, err)
	}

	n := reader.NumPage()
	raw := &domain.RawText{Source: path, Pages: n}
	texts := make([]string, 0, n)

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := pageText(reader, i)
		if err != nil {
			d := domain.NewDiagnostic(domain.StageText, i, "", err)
			logger.Debug("textpass: %v", d)
			raw.Diagnostics = append(raw.Diagnostics, d)
			continue
		}
		if text != "" {
			texts = append(texts, text)
		}
	}

	raw.Text = strings.Join(texts, "\n")
	logger.Debug("textpass: %s: %d pages, %d bytes, %d diagnostics", path, n, len(raw.Text), len(raw.Diagnostics))
	return raw, nil
}

// openReader parses the cross-reference structure. The parser panics on
// some malformed files, so panics are turned into errors.
func openReader(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("parser panic: %v", p)
		}
	}()
	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return r, nil
}

func pageText(reader *pdf.Reader, i int) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("page panic: %v", p)
		}
	}()
	page := reader.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
