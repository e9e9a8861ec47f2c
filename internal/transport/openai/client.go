package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Supported providers.
const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
)

// DefaultAzureAPIVersion is the Azure OpenAI REST API version used when none is configured.
const DefaultAzureAPIVersion = "2024-12-01-preview"

// Config holds the LLM provider settings shared by the completer and the embedder.
type Config struct {
	Provider            string // azure | openai
	APIKey              string
	Endpoint            string // Azure resource endpoint or OpenAI-compatible base URL
	APIVersion          string // Azure only
	ChatDeployment      string
	EmbeddingDeployment string
	EmbeddingDimensions int
	Temperature         float32
	MaxTokens           int
	User                string
	Logger              *zap.Logger
}

// Client wraps a go-openai client configured for Azure OpenAI or an OpenAI-compatible API.
type Client struct {
	api *openai.Client
	cfg Config
}

// NewClient creates a provider client. Deployment names are passed through as model names.
func NewClient(cfg *Config) (*Client, error) {
	var clientCfg openai.ClientConfig
	switch cfg.Provider {
	case ProviderAzure, "":
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
		clientCfg.APIVersion = cfg.APIVersion
		if clientCfg.APIVersion == "" {
			clientCfg.APIVersion = DefaultAzureAPIVersion
		}
		// Deployment names are used verbatim.
		clientCfg.AzureModelMapperFunc = func(model string) string { return model }
	case ProviderOpenAI:
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			clientCfg.BaseURL = cfg.Endpoint
		}
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	c := *cfg
	if c.Provider == "" {
		c.Provider = ProviderAzure
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return &Client{api: openai.NewClientWithConfig(clientCfg), cfg: c}, nil
}

// Provider returns the configured provider name.
func (c *Client) Provider() string { return c.cfg.Provider }

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
