package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/metrics"
)

const opChat = "chat"

// Completer sends chat completions to the configured chat deployment.
type Completer struct {
	client *Client
}

// NewCompleter creates a chat completer on top of client.
func NewCompleter(client *Client) *Completer {
	return &Completer{client: client}
}

// Complete implements the extractor's completion contract.
// Returns the first choice's content with usage; transport-level metrics are recorded here.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	cfg := c.client.cfg
	provider, deployment := cfg.Provider, cfg.ChatDeployment

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.User})

	start := time.Now()

	resp, err := c.client.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       deployment,
		Messages:    messages,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		User:        cfg.User,
	})

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(provider, deployment, opChat, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(provider, deployment, "api_error").Inc()
		cfg.Logger.Warn("Chat completion failed",
			zap.String("deployment", deployment),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.CompletionResult{}, parseAPIError("chat", err)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(provider, deployment, opChat, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(provider, deployment, "empty_response").Inc()
		return domain.CompletionResult{}, fmt.Errorf("empty chat completion response: %w", domain.ErrLLMProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(provider, deployment, opChat, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(provider, deployment, opChat).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(provider, deployment, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(provider, deployment, "completion").Add(float64(resp.Usage.CompletionTokens))
		metrics.LLMTokensTotal.WithLabelValues(provider, deployment, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return domain.CompletionResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}
