// Package extractors selects a text extractor for an extraction strategy.
package extractors

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/extractors/objectgraph"
	"github.com/custodia-labs/groundwork/internal/extractors/textpass"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// ForStrategy returns the text extractor for strategy.
func ForStrategy(strategy domain.ExtractionStrategy) (driven.TextExtractor, error) {
	switch strategy {
	case domain.StrategyText, "":
		return textpass.New(), nil
	case domain.StrategyContent:
		return objectgraph.NewTextExtractor(), nil
	case domain.StrategyAuto:
		return NewFallback(textpass.New(), objectgraph.NewTextExtractor()), nil
	default:
		return nil, fmt.Errorf("%w: extraction strategy %q", domain.ErrUnsupportedType, strategy)
	}
}

// Ensure Fallback implements the interface.
var _ driven.TextExtractor = (*Fallback)(nil)

// Fallback tries extractors in order and returns the first non-empty
// result. Diagnostics of every attempt are kept.
type Fallback struct {
	chain []driven.TextExtractor
}

// NewFallback creates a Fallback over chain.
func NewFallback(chain ...driven.TextExtractor) *Fallback {
	return &Fallback{chain: chain}
}

// Name identifies the extractor in logs.
func (f *Fallback) Name() string {
	return string(domain.StrategyAuto)
}

// Extract runs the chain. If every extractor fails, the last error is
// returned; if some succeed but all are empty, the first success is.
func (f *Fallback) Extract(ctx context.Context, path string) (*domain.RawText, error) {
	var (
		first   *domain.RawText
		lastErr error
		diags   []domain.Diagnostic
	)

	for _, e := range f.chain {
		raw, err := e.Extract(ctx, path)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logger.Debug("auto: %s failed: %v", e.Name(), err)
			lastErr = err
			continue
		}
		diags = append(diags, raw.Diagnostics...)
		if !raw.IsEmpty() {
			raw.Diagnostics = diags
			logger.Debug("auto: using %s", e.Name())
			return raw, nil
		}
		if first == nil {
			first = raw
		}
		logger.Debug("auto: %s returned no text", e.Name())
	}

	if first != nil {
		first.Diagnostics = diags
		return first, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no extractors configured", domain.ErrUnreadable)
	}
	return nil, lastErr
}
