package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/metrics"
)

const opEmbedding = "embedding"

// Embedder vectorizes text with the configured embedding deployment.
type Embedder struct {
	client *Client
}

// NewEmbedder creates an embedder on top of client.
func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

// Embed implements domain.Embedder. Returns the vector and usage with transport-level metrics.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	cfg := e.client.cfg
	provider, deployment := cfg.Provider, cfg.EmbeddingDeployment

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          openai.EmbeddingModel(deployment),
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           cfg.User,
	}
	if cfg.EmbeddingDimensions > 0 {
		req.Dimensions = cfg.EmbeddingDimensions
	}

	start := time.Now()

	resp, err := e.client.api.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(provider, deployment, opEmbedding, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(provider, deployment, "api_error").Inc()
		return domain.EmbeddingResult{}, parseAPIError("embedding", err)
	}

	if len(resp.Data) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(provider, deployment, opEmbedding, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(provider, deployment, "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrLLMProviderError)
	}

	// Record success metrics
	metrics.LLMRequestsTotal.WithLabelValues(provider, deployment, opEmbedding, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(provider, deployment, opEmbedding).Observe(duration.Seconds())

	totalTokens := resp.Usage.TotalTokens
	promptTokens := resp.Usage.PromptTokens
	if totalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(provider, deployment, "prompt").Add(float64(promptTokens))
		metrics.LLMTokensTotal.WithLabelValues(provider, deployment, "total").Add(float64(totalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck delegates to the shared client.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	return e.client.HealthCheck(ctx)
}
