package securephotos

import "github.com/kailas-cloud/securephotos/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuery             = domain.ErrEmptyQuery
	ErrInvalidRequest         = domain.ErrInvalidRequest
	ErrInvalidModelOutput     = domain.ErrInvalidModelOutput
	ErrLLMProviderError       = domain.ErrLLMProviderError
	ErrVectorStoreUnavailable = domain.ErrVectorStoreUnavailable
)
