package securephotos

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbQdrant "github.com/kailas-cloud/securephotos/internal/db/qdrant"
	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/domain/photo"
	photorepo "github.com/kailas-cloud/securephotos/internal/repository/photo"
	semanticrepo "github.com/kailas-cloud/securephotos/internal/repository/semantic"
	extractuc "github.com/kailas-cloud/securephotos/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/securephotos/internal/usecase/health"
	metadatauc "github.com/kailas-cloud/securephotos/internal/usecase/metadata"
	semanticuc "github.com/kailas-cloud/securephotos/internal/usecase/semantic"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCollection       = "secure_photos"
)

// store is the part of the Qdrant store the client owns directly.
type store interface {
	Ping(ctx context.Context) error
	Close()
}

type metadataUseCase interface {
	Search(ctx context.Context, query string) (metadatauc.Result, error)
}

type semanticUseCase interface {
	Search(ctx context.Context, query string) (semanticuc.Result, error)
}

// Client is the securephotos SDK entry point.
type Client struct {
	store       store
	metadataSvc metadataUseCase
	semanticSvc semanticUseCase
	healthSvc   healthUseCase
	obs         *observer
}

// New creates a Client and connects to Qdrant.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		collection: defaultCollection,
		vectorName: semanticrepo.DefaultVectorName,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.qdrantURL == "" {
		return nil, errors.New("securephotos: qdrant url required (use WithQdrant)")
	}
	if cfg.completer == nil {
		return nil, errors.New("securephotos: completer required (use WithCompleter)")
	}

	s, err := dbQdrant.NewStore(dbQdrant.Config{URL: cfg.qdrantURL, APIKey: cfg.qdrantAPIKey})
	if err != nil {
		return nil, fmt.Errorf("securephotos: create qdrant store: %w", err)
	}

	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("securephotos: qdrant not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		s.Close()
		return nil, err
	}
	return wireClient(s, cfg, obs), nil
}

func wireClient(s *dbQdrant.Store, cfg *clientConfig, obs *observer) *Client {
	extractor := extractuc.New(&completerAdapter{inner: cfg.completer})
	metadataSvc := metadatauc.New(extractor, photorepo.New(s, cfg.collection), cfg.limit)

	// Pass a nil interface when semantic search is not configured.
	var semanticSvc semanticUseCase
	if cfg.embedder != nil {
		repo := semanticrepo.NewQdrant(s, cfg.collection, cfg.vectorName)
		semanticSvc = semanticuc.New(&embedderAdapter{inner: cfg.embedder}, repo, cfg.limit)
	}

	healthSvc := healthuc.New(healthuc.DefaultTimeout).Register("qdrant", s)

	return &Client{
		store:       s,
		metadataSvc: metadataSvc,
		semanticSvc: semanticSvc,
		healthSvc:   healthSvc,
		obs:         obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks Qdrant connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.record(call{op: "ping", start: start, images: -1, err: err}) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// MetadataSearch extracts metadata from query and returns the photos matching all of it.
// A query without filterable criteria yields an empty result, not an error.
func (c *Client) MetadataSearch(ctx context.Context, query string) (out SearchResult, err error) {
	defer c.traceSearch("search.metadata", time.Now(), &out, &err)

	ctx, usage := domain.NewContextWithUsage(ctx)
	res, err := c.metadataSvc.Search(ctx, query)
	if err != nil {
		return SearchResult{}, fmt.Errorf("metadata search: %w", err)
	}
	return toSearchResult(res.Query, res.Images, usage), nil
}

// SemanticSearch returns the photos whose summaries are closest to query.
func (c *Client) SemanticSearch(ctx context.Context, query string) (out SearchResult, err error) {
	defer c.traceSearch("search.semantic", time.Now(), &out, &err)

	if c.semanticSvc == nil {
		return SearchResult{}, errors.New("securephotos: embedder not configured (use WithEmbedder)")
	}

	ctx, usage := domain.NewContextWithUsage(ctx)
	res, err := c.semanticSvc.Search(ctx, query)
	if err != nil {
		return SearchResult{}, fmt.Errorf("semantic search: %w", err)
	}
	return toSearchResult(res.Query, res.Images, usage), nil
}

func (c *Client) traceSearch(op string, start time.Time, out *SearchResult, err *error) {
	c.obs.record(call{op: op, start: start, images: len(out.Images), tokens: out.Tokens, err: *err})
}

func toSearchResult(query string, images []photo.Image, usage *domain.LLMUsage) SearchResult {
	out := SearchResult{Query: query, Images: make([]Image, len(images))}
	for i, img := range images {
		out.Images[i] = Image{URL: img.URL(), Summary: img.Summary()}
	}
	if usage != nil {
		out.Tokens = usage.TotalTokens
	}
	return out
}

// completerAdapter wraps public Completer to satisfy the extractor's contract.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(
	ctx context.Context, req domain.CompletionRequest,
) (domain.CompletionResult, error) {
	r, err := a.inner.Complete(ctx, CompletionRequest{System: req.System, User: req.User})
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("%w: %w", domain.ErrLLMProviderError, err)
	}
	return domain.CompletionResult{
		Content:          r.Content,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		TotalTokens:      r.TotalTokens,
	}, nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("%w: embed: %w", domain.ErrLLMProviderError, err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
