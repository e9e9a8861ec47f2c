package semantic

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/domain/photo"
	"github.com/kailas-cloud/securephotos/internal/logger"
	"github.com/kailas-cloud/securephotos/internal/metrics"
)

// DefaultLimit is the number of images returned when none is configured.
const DefaultLimit = 5

// Result is the outcome of a semantic search.
type Result struct {
	Query  string // trimmed
	Images []photo.Image
}

// Service answers queries by summary-embedding similarity.
type Service struct {
	embed Embedder
	repo  Repository
	limit int
}

// New creates a semantic search service. limit <= 0 means DefaultLimit.
func New(embed Embedder, repo Repository, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{embed: embed, repo: repo, limit: limit}
}

// Search embeds query and returns the top images, best first.
func (s *Service) Search(ctx context.Context, query string) (Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Result{}, domain.ErrEmptyQuery
	}
	backend := s.repo.Backend()

	emb, err := s.embed.Embed(ctx, q)
	if err != nil {
		metrics.ObserveSearch(backend, metrics.OutcomeFailed)
		return Result{}, fmt.Errorf("embed query: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(emb.TotalTokens)

	images, err := s.repo.Nearest(ctx, emb.Embedding, s.limit)
	if err != nil {
		logger.FromContext(ctx).Error("Semantic search failed",
			zap.String("backend", backend), zap.Error(err))
		metrics.ObserveSearch(backend, metrics.OutcomeFailed)
		return Result{}, fmt.Errorf("nearest images: %w", err)
	}

	if len(images) == 0 {
		metrics.ObserveSearch(backend, metrics.OutcomeEmpty)
	} else {
		metrics.ObserveSearch(backend, metrics.OutcomeMatched)
	}
	return Result{Query: q, Images: images}, nil
}
