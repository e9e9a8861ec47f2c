package qdrant

import (
	"context"
	"errors"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/securephotos/internal/db"
)

// CollectionExists reports whether a collection is present.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	ok, err := s.api.CollectionExists(ctx, name)
	if err != nil {
		return false, &db.Error{Op: db.OpCollectionExists, Err: err}
	}
	return ok, nil
}

// DeleteCollection drops a collection.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if err := s.api.DeleteCollection(ctx, name); err != nil {
		return &db.Error{Op: db.OpDeleteCollection, Err: err}
	}
	return nil
}

// CreateCollection creates the collection with its named vectors, then its payload indexes.
// Every index is attempted; failures are returned joined, each wrapping a *db.Error with
// OpCreateFieldIndex. A failure to create the collection itself returns before any index.
func (s *Store) CreateCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("invalid collection definition: %w", err)
	}

	params := make(map[string]*qdrant.VectorParams, len(def.Vectors))
	for _, v := range def.Vectors {
		params[v.Name] = &qdrant.VectorParams{
			Size:     v.Dim,
			Distance: distance(v.Distance),
		}
	}

	err := s.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: def.Name,
		VectorsConfig:  qdrant.NewVectorsConfigMap(params),
	})
	if err != nil {
		return &db.Error{Op: db.OpCreateCollection, Err: err}
	}

	var errs []error
	for _, f := range def.Fields {
		if err := s.CreateFieldIndex(ctx, def.Name, f); err != nil {
			errs = append(errs, fmt.Errorf("index %q: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

// CreateFieldIndex creates one payload index and waits for it to be applied.
func (s *Store) CreateFieldIndex(ctx context.Context, collection string, f db.IndexField) error {
	req := &qdrant.CreateFieldIndexCollection{
		CollectionName: collection,
		FieldName:      f.Name,
		FieldType:      fieldType(f.Type).Enum(),
		Wait:           qdrant.PtrOf(true),
	}
	if f.Type == db.IndexFieldText && f.Text != nil {
		req.FieldIndexParams = textParams(f.Text)
	}

	if _, err := s.api.CreateFieldIndex(ctx, req); err != nil {
		return &db.Error{Op: db.OpCreateFieldIndex, Err: err}
	}
	return nil
}

// DeleteFieldIndex drops one payload index.
func (s *Store) DeleteFieldIndex(ctx context.Context, collection, field string) error {
	_, err := s.api.DeleteFieldIndex(ctx, &qdrant.DeleteFieldIndexCollection{
		CollectionName: collection,
		FieldName:      field,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return &db.Error{Op: db.OpDeleteFieldIndex, Err: err}
	}
	return nil
}

func distance(d db.DistanceMetric) qdrant.Distance {
	switch d {
	case db.DistanceDot:
		return qdrant.Distance_Dot
	case db.DistanceEuclid:
		return qdrant.Distance_Euclid
	default:
		return qdrant.Distance_Cosine
	}
}

func fieldType(t db.IndexFieldType) qdrant.FieldType {
	switch t {
	case db.IndexFieldInteger:
		return qdrant.FieldType_FieldTypeInteger
	case db.IndexFieldFloat:
		return qdrant.FieldType_FieldTypeFloat
	case db.IndexFieldText:
		return qdrant.FieldType_FieldTypeText
	default:
		return qdrant.FieldType_FieldTypeKeyword
	}
}

func textParams(o *db.TextOptions) *qdrant.PayloadIndexParams {
	p := &qdrant.TextIndexParams{}
	if o.WordTokenizer {
		p.Tokenizer = qdrant.TokenizerType_Word
	}
	if o.MinTokenLen > 0 {
		p.MinTokenLen = qdrant.PtrOf(o.MinTokenLen)
	}
	if o.Lowercase {
		p.Lowercase = qdrant.PtrOf(true)
	}
	return qdrant.NewPayloadIndexParamsText(p)
}
