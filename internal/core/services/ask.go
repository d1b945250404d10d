package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService runs ingest, images, retrieval and generation in sequence.
type AskService struct {
	ingest    driving.IngestService
	images    driving.ImageService
	retrieval driving.RetrievalService
	llm       driven.LLMService
	opts      driven.GenerateOptions
}

// NewAskService creates the pipeline orchestrator. images may be nil;
// llm may be nil, in which case Ask returns domain.ErrLLMUnavailable.
func NewAskService(
	ingest driving.IngestService,
	images driving.ImageService,
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	opts driven.GenerateOptions,
) *AskService {
	return &AskService{
		ingest:    ingest,
		images:    images,
		retrieval: retrieval,
		llm:       llm,
		opts:      opts,
	}
}

// Ask answers req.Query. Ingestion and image failures are logged and
// recorded on the Answer; retrieval then runs against whatever is stored.
// A request with a system text or history goes through Chat, otherwise
// through Generate.
func (s *AskService) Ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if s.llm == nil {
		return nil, fmt.Errorf("%w: no provider configured. Run 'groundwork settings llm'", domain.ErrLLMUnavailable)
	}

	answer := &domain.Answer{
		Query: req.Query,
		Model: s.llm.ModelName(),
	}

	if req.PDFPath != "" {
		report, err := s.ingest.Ingest(ctx, req.PDFPath)
		answer.Ingest = report
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			answer.IngestErr = err
			logger.Warn("ingestion failed, answering from stored state: %v", err)
		}

		if req.ImageDir != "" && s.images != nil {
			images, err := s.images.ExtractImages(ctx, req.PDFPath, req.ImageDir)
			answer.Images = images
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				answer.ImageErr = err
				logger.Warn("image extraction failed: %v", err)
			}
		}
	}

	retrieved, err := s.retrieval.Retrieve(ctx, req.Query)
	switch {
	case errors.Is(err, domain.ErrNoProcessedDocument):
		logger.Info("no processed document, asking without context")
	case err != nil:
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	answer.Context = retrieved
	answer.Prompt = BuildPrompt(retrieved, req.Query)

	logger.Debug("ask: %d chars of context, model %s", len(retrieved), answer.Model)
	var response string
	if req.IsChat() {
		msgs := BuildChatMessages(req.System, req.History, answer.Prompt)
		logger.Debug("ask: chat with %d messages", len(msgs))
		response, err = s.llm.Chat(ctx, msgs, s.opts)
	} else {
		response, err = s.llm.Generate(ctx, answer.Prompt, s.opts)
	}
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	answer.Response = response
	return answer, nil
}
