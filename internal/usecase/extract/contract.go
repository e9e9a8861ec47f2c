package extract

import (
	"context"

	"github.com/kailas-cloud/securephotos/internal/domain"
)

// Completer sends a chat completion request to the language model.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error)
}
