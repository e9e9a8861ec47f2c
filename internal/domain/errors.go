package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery signals a query that is blank after trimming.
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrInvalidRequest signals a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNoFilterableCriteria signals that no metadata field was populated.
	ErrNoFilterableCriteria = errors.New("no filterable criteria")
	// ErrInvalidModelOutput signals a completion that is not the expected JSON object.
	ErrInvalidModelOutput = errors.New("model did not return valid structured output")
	// ErrLLMProviderError signals a completion or embedding provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrVectorStoreUnavailable signals a vector database transport or query failure.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
	// ErrRecordStoreUnavailable signals a SQL database failure.
	ErrRecordStoreUnavailable = errors.New("record store unavailable")
)

// ModelOutputError wraps ErrInvalidModelOutput with the cleaned completion text.
type ModelOutputError struct {
	Content string
	Err     error
}

func (e *ModelOutputError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s. Cleaned content:\n%s", ErrInvalidModelOutput.Error(), e.Content)
	}
	return fmt.Sprintf("%s (%v). Cleaned content:\n%s", ErrInvalidModelOutput.Error(), e.Err, e.Content)
}

func (e *ModelOutputError) Unwrap() error { return ErrInvalidModelOutput }

// NewModelOutputError creates an extraction failure quoting the cleaned model text.
func NewModelOutputError(content string, cause error) error {
	return &ModelOutputError{Content: content, Err: cause}
}
