package weaviate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"

	"github.com/kailas-cloud/securephotos/internal/db"
)

var _ db.Pinger = (*Store)(nil)

// Config holds connection parameters for a Weaviate store.
type Config struct {
	URL    string // http(s)://host[:port]
	APIKey string
}

// Store runs vector queries against Weaviate through its GraphQL API.
type Store struct {
	client *weaviate.Client
}

// NewStore creates a Weaviate store.
func NewStore(cfg Config) (*Store, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid weaviate url %q", cfg.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported weaviate url scheme %q", u.Scheme)
	}

	wcfg := weaviate.Config{Host: u.Host, Scheme: u.Scheme}
	if cfg.APIKey != "" {
		wcfg.Headers = map[string]string{"Authorization": "Bearer " + cfg.APIKey}
	}

	client, err := weaviate.NewClient(wcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Store{client: client}, nil
}

// Ping checks that the Weaviate node is live.
func (s *Store) Ping(ctx context.Context) error {
	live, err := s.client.Misc().LiveChecker().Do(ctx)
	if err != nil {
		return &db.Error{Op: db.OpLive, Err: err}
	}
	if !live {
		return &db.Error{Op: db.OpLive, Err: errors.New("node is not live")}
	}
	return nil
}

// NearVectorRequest is a GraphQL Get with a nearVector argument.
type NearVectorRequest struct {
	Class  string
	Fields []string
	Vector []float32
	Limit  int
}

// Object is one returned object's requested properties.
type Object map[string]any

// NearVector returns up to Limit objects of Class nearest to Vector, best first.
func (s *Store) NearVector(ctx context.Context, req NearVectorRequest) ([]Object, error) {
	if req.Class == "" {
		return nil, fmt.Errorf("class name is required")
	}
	if len(req.Fields) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}
	if len(req.Vector) == 0 {
		return nil, fmt.Errorf("vector cannot be empty")
	}

	fields := make([]graphql.Field, 0, len(req.Fields))
	for _, f := range req.Fields {
		fields = append(fields, graphql.Field{Name: f})
	}

	gql := s.client.GraphQL()
	resp, err := gql.Get().
		WithClassName(req.Class).
		WithFields(fields...).
		WithNearVector(gql.NearVectorArgBuilder().WithVector(req.Vector)).
		WithLimit(req.Limit).
		Do(ctx)
	if err != nil {
		return nil, &db.Error{Op: db.OpNearVector, Err: err}
	}

	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			if e != nil {
				msgs = append(msgs, e.Message)
			}
		}
		return nil, &db.Error{Op: db.OpNearVector, Err: errors.New(strings.Join(msgs, "; "))}
	}

	objs, err := parseGet(resp.Data["Get"], req.Class)
	if err != nil {
		return nil, &db.Error{Op: db.OpNearVector, Err: err}
	}
	return objs, nil
}

// parseGet extracts the objects of class from the "Get" section of a GraphQL response.
func parseGet(get any, class string) ([]Object, error) {
	if get == nil {
		return nil, nil
	}
	byClass, ok := get.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected Get section type %T", get)
	}
	raw, ok := byClass[class]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected %s result type %T", class, raw)
	}

	out := make([]Object, 0, len(items))
	for _, item := range items {
		props, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Object(props))
	}
	return out, nil
}
