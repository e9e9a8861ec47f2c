package domain

import "context"

type llmUsageKey struct{}

// LLMUsage collects completion and embedding token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service writes after each model call; the handler reads it for response headers.
type LLMUsage struct {
	TotalTokens int
	Used        bool // true if a model was called, even on a cache hit with 0 tokens
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *LLMUsage) {
	u := &LLMUsage{}
	return context.WithValue(ctx, llmUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *LLMUsage {
	u, _ := ctx.Value(llmUsageKey{}).(*LLMUsage)
	return u
}

// AddTokens records consumed tokens.
func (u *LLMUsage) AddTokens(n int) {
	if u != nil {
		u.TotalTokens += n
		u.Used = true
	}
}
