package semantic

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/securephotos/internal/db/qdrant"
	"github.com/kailas-cloud/securephotos/internal/domain"
	domphoto "github.com/kailas-cloud/securephotos/internal/domain/photo"
)

// DefaultVectorName is the named vector holding summary embeddings.
const DefaultVectorName = "summary_embedding"

// qdrantStore is the consumer interface for nearest-neighbour queries (ISP).
type qdrantStore interface {
	Query(ctx context.Context, req qdrant.QueryRequest) ([]qdrant.Point, error)
}

// QdrantRepo finds the images nearest to an embedding in a Qdrant collection.
type QdrantRepo struct {
	store      qdrantStore
	collection string
	using      string
}

// NewQdrant creates a repository over collection, searching the named vector using.
func NewQdrant(s qdrantStore, collection, using string) *QdrantRepo {
	if using == "" {
		using = DefaultVectorName
	}
	return &QdrantRepo{store: s, collection: collection, using: using}
}

// Backend returns the backend label used in metrics.
func (r *QdrantRepo) Backend() string { return "qdrant" }

// Nearest returns up to limit images closest to vector, best first.
func (r *QdrantRepo) Nearest(ctx context.Context, vector []float32, limit int) ([]domphoto.Image, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidRequest)
	}
	points, err := r.store.Query(ctx, qdrant.QueryRequest{
		Collection: r.collection,
		Using:      r.using,
		Vector:     vector,
		Limit:      uint64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", domain.ErrVectorStoreUnavailable, r.collection, err)
	}

	images := make([]domphoto.Image, 0, len(points))
	for _, p := range points {
		url, _ := p.Payload[domphoto.PayloadURL].(string)
		summary, _ := p.Payload[domphoto.PayloadSummary].(string)
		if img, ok := domphoto.NewImage(url, summary); ok {
			images = append(images, img)
		}
	}
	return images, nil
}
