package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kailas-cloud/securephotos/internal/db"
)

// Point is a retrieved point with its decoded payload. Score is zero for scrolls.
type Point struct {
	ID      string
	Score   float32
	Payload map[string]any
}

// ScrollRequest selects points by payload filter, without ranking.
type ScrollRequest struct {
	Collection string
	Filter     *qdrant.Filter
	Limit      uint32
}

// Scroll returns up to Limit points matching Filter, with payload and without vectors.
func (s *Store) Scroll(ctx context.Context, req ScrollRequest) ([]Point, error) {
	if req.Collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	limit := req.Limit
	resp, err := s.api.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: req.Collection,
		Filter:         req.Filter,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(false),
	})
	if err != nil {
		return nil, rpcError(db.OpScroll, err)
	}

	points := make([]Point, 0, len(resp))
	for _, p := range resp {
		points = append(points, Point{
			ID:      pointID(p.GetId()),
			Payload: convertPayload(p.GetPayload()),
		})
	}
	return points, nil
}

// QueryRequest is a nearest-neighbour query against a named vector.
type QueryRequest struct {
	Collection string
	Using      string // named vector; empty for the default vector
	Vector     []float32
	Filter     *qdrant.Filter
	Limit      uint64
}

// Query returns the Limit nearest points to Vector, best first, with payload.
func (s *Store) Query(ctx context.Context, req QueryRequest) ([]Point, error) {
	if req.Collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	if len(req.Vector) == 0 {
		return nil, fmt.Errorf("vector cannot be empty")
	}

	limit := req.Limit
	q := &qdrant.QueryPoints{
		CollectionName: req.Collection,
		Query:          qdrant.NewQuery(req.Vector...),
		Filter:         req.Filter,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if req.Using != "" {
		q.Using = qdrant.PtrOf(req.Using)
	}

	resp, err := s.api.Query(ctx, q)
	if err != nil {
		return nil, rpcError(db.OpQuery, err)
	}

	points := make([]Point, 0, len(resp))
	for _, p := range resp {
		points = append(points, Point{
			ID:      pointID(p.GetId()),
			Score:   p.GetScore(),
			Payload: convertPayload(p.GetPayload()),
		})
	}
	return points, nil
}

func pointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num)
	case *qdrant.PointId_Uuid:
		return v.Uuid
	default:
		return ""
	}
}

// rpcError tags a failed RPC with its op. A missing collection wraps db.ErrCollectionNotFound.
func rpcError(op string, err error) error {
	if status.Code(err) == codes.NotFound {
		err = fmt.Errorf("%w: %w", db.ErrCollectionNotFound, err)
	}
	return &db.Error{Op: op, Err: err}
}
