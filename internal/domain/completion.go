package domain

import "context"

// Completer sends a single system+user exchange to a chat completion model.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// CompletionRequest is one instruction exchange.
type CompletionRequest struct {
	System string
	User   string
}

// CompletionResult carries the raw model text and token usage.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
