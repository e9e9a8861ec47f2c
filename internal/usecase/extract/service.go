package extract

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/domain/photo"
	"github.com/kailas-cloud/securephotos/internal/logger"
)

// Extractor turns a natural-language photo query into structured metadata
// with a single completion call.
type Extractor struct {
	llm Completer
}

// New creates an extractor.
func New(llm Completer) *Extractor {
	return &Extractor{llm: llm}
}

// Extract asks the model for metadata matching query and decodes its answer.
// Provider failures wrap domain.ErrLLMProviderError; undecodable output is a
// *domain.ModelOutputError.
func (e *Extractor) Extract(ctx context.Context, query string) (photo.Metadata, error) {
	log := logger.FromContext(ctx)

	res, err := e.llm.Complete(ctx, domain.CompletionRequest{
		System: SystemPrompt,
		User:   BuildPrompt(query),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrLLMProviderError) {
			err = fmt.Errorf("%w: %w", domain.ErrLLMProviderError, err)
		}
		return photo.Metadata{}, fmt.Errorf("complete: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(res.TotalTokens)

	log.Debug("Raw model output", zap.String("content", res.Content))
	cleaned := StripCodeFence(res.Content)
	if cleaned != res.Content {
		log.Debug("Cleaned model output", zap.String("content", cleaned))
	}

	m, err := photo.MetadataFromJSON([]byte(cleaned))
	if err != nil {
		return photo.Metadata{}, domain.NewModelOutputError(cleaned, err)
	}
	return m, nil
}
