package metadata

import (
	"context"

	"github.com/kailas-cloud/securephotos/internal/domain/photo"
	"github.com/kailas-cloud/securephotos/internal/domain/search/filter"
)

// Extractor turns a query into structured metadata.
type Extractor interface {
	Extract(ctx context.Context, query string) (photo.Metadata, error)
}

// Repository finds images by payload filter.
type Repository interface {
	FindByFilter(ctx context.Context, expr filter.Expression, limit int) ([]photo.Image, error)
}
