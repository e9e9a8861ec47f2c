package securephotos

import "context"

// Completer answers a single system+user exchange with a chat model.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// CompletionRequest is one instruction exchange.
type CompletionRequest struct {
	System string
	User   string
}

// CompletionResult carries the raw model text and token counts.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Embedder converts text to vector embeddings.
// Required for semantic search only.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Image is a matched photo.
type Image struct {
	URL     string
	Summary string
}

// SearchResult is the outcome of one search call.
type SearchResult struct {
	Query  string // trimmed
	Images []Image
	Tokens int // model tokens consumed by the call
}
