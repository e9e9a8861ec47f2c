package securephotos

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	qdrantURL    string
	qdrantAPIKey string
	collection   string
	vectorName   string

	completer Completer
	embedder  Embedder

	limit int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithQdrant sets the Qdrant gRPC endpoint, e.g. http://localhost:6334.
func WithQdrant(url, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.qdrantURL = url
		c.qdrantAPIKey = apiKey
	})
}

// WithCollection overrides the collection name. Default: secure_photos.
func WithCollection(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.collection = name
	})
}

// WithVectorName overrides the named vector used by semantic search.
// Default: summary_embedding.
func WithVectorName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorName = name
	})
}

// WithCompleter sets the chat model used for metadata extraction. Required.
func WithCompleter(llm Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = llm
	})
}

// WithEmbedder enables semantic search.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithLimit sets the number of images returned per search. Default: 5.
func WithLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.limit = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
