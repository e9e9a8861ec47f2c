package semantic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/securephotos/internal/db/weaviate"
	"github.com/kailas-cloud/securephotos/internal/domain"
	domphoto "github.com/kailas-cloud/securephotos/internal/domain/photo"
)

// DefaultClass is the Weaviate class holding photo summaries.
const DefaultClass = "SecurePhotos"

// Weaviate object properties.
const (
	propImagePath      = "image_path"
	propSummary        = "summary"
	propGoogleMetadata = "google_metadata"
)

// weaviateStore is the consumer interface for nearVector queries (ISP).
type weaviateStore interface {
	NearVector(ctx context.Context, req weaviate.NearVectorRequest) ([]weaviate.Object, error)
}

// WeaviateRepo finds the images nearest to an embedding in a Weaviate class.
type WeaviateRepo struct {
	store weaviateStore
	class string
}

// NewWeaviate creates a repository over class (DefaultClass when empty).
func NewWeaviate(s weaviateStore, class string) *WeaviateRepo {
	if class == "" {
		class = DefaultClass
	}
	return &WeaviateRepo{store: s, class: class}
}

// Backend returns the backend label used in metrics.
func (r *WeaviateRepo) Backend() string { return "weaviate" }

// Nearest returns up to limit images closest to vector, best first.
// The image URL is the "url" key of the google_metadata JSON string; objects without
// decodable metadata, a url or a summary are skipped.
func (r *WeaviateRepo) Nearest(ctx context.Context, vector []float32, limit int) ([]domphoto.Image, error) {
	objs, err := r.store.NearVector(ctx, weaviate.NearVectorRequest{
		Class:  r.class,
		Fields: []string{propImagePath, propSummary, propGoogleMetadata},
		Vector: vector,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: near vector %s: %w", domain.ErrVectorStoreUnavailable, r.class, err)
	}

	images := make([]domphoto.Image, 0, len(objs))
	for _, o := range objs {
		summary, _ := o[propSummary].(string)
		url, ok := googleMetadataURL(o[propGoogleMetadata])
		if !ok {
			continue
		}
		if img, ok := domphoto.NewImage(url, summary); ok {
			images = append(images, img)
		}
	}
	return images, nil
}

func googleMetadataURL(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	var meta struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(s), &meta); err != nil {
		return "", false
	}
	return meta.URL, meta.URL != ""
}
