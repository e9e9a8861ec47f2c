package semantic

import (
	"context"

	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/domain/photo"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Repository finds the images nearest to a query vector.
type Repository interface {
	Nearest(ctx context.Context, vector []float32, limit int) ([]photo.Image, error)
	Backend() string
}
