package objectgraph

import (
	"context"
	"errors"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure TextExtractor implements the interface.
var _ driven.TextExtractor = (*TextExtractor)(nil)

// TextExtractor decompresses each page's content streams and concatenates
// the literal strings shown by text operators.
type TextExtractor struct{}

// NewTextExtractor creates a content-stream text extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Name identifies the extractor in logs.
func (e *TextExtractor) Name() string {
	return string(domain.StrategyContent)
}

// Extract reads every page in document order. A content stream that cannot
// be decompressed is skipped with a diagnostic.
func (e *TextExtractor) Extract(ctx context.Context, path string) (*domain.RawText, error) {
	arena, err := Open(path)
	if err != nil {
		return nil, err
	}
	pages, err := arena.Pages()
	if err != nil {
		return nil, err
	}

	raw := &domain.RawText{Source: path, Pages: len(pages)}
	texts := make([]string, 0, len(pages))

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, diags := arena.pageText(page)
		raw.Diagnostics = append(raw.Diagnostics, diags...)
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}

	raw.Text = strings.Join(texts, "\n")
	logger.Debug("content: %s: %d pages, %d bytes, %d diagnostics", path, len(pages), len(raw.Text), len(raw.Diagnostics))
	return raw, nil
}

func (a *Arena) pageText(page Page) (string, []domain.Diagnostic) {
	contents, ok := page.Dict["Contents"]
	if !ok {
		return "", nil
	}

	refs := []types.Object{contents}
	if arr, ok := a.Array(contents); ok {
		refs = arr
	}

	var (
		sb    strings.Builder
		diags []domain.Diagnostic
	)
	for _, ref := range refs {
		sd, ok := a.Stream(ref)
		if !ok {
			d := domain.NewDiagnostic(domain.StageContent, page.Number, refLabel(ref), errors.New("content is not a stream"))
			logger.Debug("content: %v", d)
			diags = append(diags, d)
			continue
		}
		data, err := Decode(sd)
		if err != nil {
			d := domain.NewDiagnostic(domain.StageContent, page.Number, refLabel(ref), err)
			logger.Debug("content: %v", d)
			diags = append(diags, d)
			continue
		}
		sb.WriteString(ShowText(data))
		sb.WriteByte('\n')
	}
	return sb.String(), diags
}
