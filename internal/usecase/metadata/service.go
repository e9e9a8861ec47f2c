package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/domain/photo"
	"github.com/kailas-cloud/securephotos/internal/domain/search/filter"
	"github.com/kailas-cloud/securephotos/internal/logger"
	"github.com/kailas-cloud/securephotos/internal/metrics"
)

// DefaultLimit is the number of images returned when none is configured.
const DefaultLimit = 5

// Backend is the metrics label for filtered scrolls.
const Backend = "qdrant_filter"

// Result is the outcome of a metadata search.
type Result struct {
	Query  string // trimmed
	Images []photo.Image
}

// Service answers natural-language photo queries by metadata filtering.
type Service struct {
	extractor Extractor
	repo      Repository
	limit     int
}

// New creates a metadata search service. limit <= 0 means DefaultLimit.
func New(extractor Extractor, repo Repository, limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{extractor: extractor, repo: repo, limit: limit}
}

// Search extracts metadata from query, builds a conjunctive filter and scrolls
// matching images. A query yielding no criteria returns an empty result without
// touching the vector store.
func (s *Service) Search(ctx context.Context, query string) (Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Result{}, domain.ErrEmptyQuery
	}
	log := logger.FromContext(ctx)

	m, err := s.extractor.Extract(ctx, q)
	if err != nil {
		metrics.ObserveSearch(Backend, metrics.OutcomeFailed)
		return Result{}, fmt.Errorf("extract metadata: %w", err)
	}

	expr, err := filter.FromMetadata(m)
	if errors.Is(err, domain.ErrNoFilterableCriteria) {
		log.Info("No filterable criteria extracted", zap.String("query", q))
		metrics.ObserveSearch(Backend, metrics.OutcomeNoCriteria)
		return Result{Query: q, Images: []photo.Image{}}, nil
	}
	if err != nil {
		metrics.ObserveSearch(Backend, metrics.OutcomeFailed)
		return Result{}, fmt.Errorf("build filter: %w", err)
	}

	images, err := s.repo.FindByFilter(ctx, expr, s.limit)
	if err != nil {
		log.Error("Metadata search failed", zap.String("query", q), zap.Error(err))
		metrics.ObserveSearch(Backend, metrics.OutcomeFailed)
		return Result{}, fmt.Errorf("find by filter: %w", err)
	}

	if len(images) == 0 {
		metrics.ObserveSearch(Backend, metrics.OutcomeEmpty)
	} else {
		metrics.ObserveSearch(Backend, metrics.OutcomeMatched)
	}
	log.Debug("Metadata search completed",
		zap.Stringer("filter", expr),
		zap.Int("matched", len(images)),
	)
	return Result{Query: q, Images: images}, nil
}
