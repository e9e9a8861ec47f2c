package photo

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/securephotos/internal/db/qdrant"
	"github.com/kailas-cloud/securephotos/internal/domain"
	domphoto "github.com/kailas-cloud/securephotos/internal/domain/photo"
	"github.com/kailas-cloud/securephotos/internal/domain/search/filter"
)

// store is the consumer interface for payload-filtered scrolls (ISP).
type store interface {
	Scroll(ctx context.Context, req qdrant.ScrollRequest) ([]qdrant.Point, error)
}

// Repo implements usecase/metadata.Repository on a Qdrant collection.
type Repo struct {
	store      store
	collection string
}

// New creates a photo repository over collection.
func New(s store, collection string) *Repo {
	return &Repo{store: s, collection: collection}
}

// FindByFilter returns up to limit images whose payload satisfies expr.
// Results are in storage order; there is no ranking. Points without a url or summary are skipped.
func (r *Repo) FindByFilter(ctx context.Context, expr filter.Expression, limit int) ([]domphoto.Image, error) {
	if expr.IsEmpty() {
		return nil, domain.ErrNoFilterableCriteria
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidRequest)
	}

	qf, err := qdrant.BuildFilter(expr)
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}

	points, err := r.store.Scroll(ctx, qdrant.ScrollRequest{
		Collection: r.collection,
		Filter:     qf,
		Limit:      uint32(limit), //nolint:gosec // limit is positive and config-bounded
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scroll %s: %w", domain.ErrVectorStoreUnavailable, r.collection, err)
	}

	images := make([]domphoto.Image, 0, len(points))
	for _, p := range points {
		if img, ok := imageFromPayload(p.Payload); ok {
			images = append(images, img)
		}
	}
	return images, nil
}

func imageFromPayload(payload map[string]any) (domphoto.Image, bool) {
	url, _ := payload[domphoto.PayloadURL].(string)
	summary, _ := payload[domphoto.PayloadSummary].(string)
	return domphoto.NewImage(url, summary)
}
