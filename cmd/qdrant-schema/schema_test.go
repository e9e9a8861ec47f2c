package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/securephotos/internal/db"
)

type mockSchemaStore struct {
	exists      bool
	deleted     []string
	created     *db.CollectionDefinition
	indexes     []db.IndexField
	droppedIdx  []string
	failCreate  map[string]bool
	failDropIdx bool
	createErr   error
}

func (m *mockSchemaStore) CollectionExists(_ context.Context, _ string) (bool, error) {
	return m.exists, nil
}

func (m *mockSchemaStore) DeleteCollection(_ context.Context, name string) error {
	m.deleted = append(m.deleted, name)
	return nil
}

func (m *mockSchemaStore) CreateCollection(_ context.Context, def *db.CollectionDefinition) error {
	m.created = def
	return m.createErr
}

func (m *mockSchemaStore) CreateFieldIndex(_ context.Context, _ string, f db.IndexField) error {
	if m.failCreate[f.Name] {
		return errors.New("index failed")
	}
	m.indexes = append(m.indexes, f)
	return nil
}

func (m *mockSchemaStore) DeleteFieldIndex(_ context.Context, _, field string) error {
	m.droppedIdx = append(m.droppedIdx, field)
	if m.failDropIdx {
		return errors.New("index not found")
	}
	return nil
}

func TestPhotosCollection(t *testing.T) {
	def, err := photosCollection("secure_photos", "summary_embedding", 1536)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(def.Vectors) != 1 || def.Vectors[0].Dim != 1536 || def.Vectors[0].Distance != db.DistanceCosine {
		t.Errorf("unexpected vectors: %+v", def.Vectors)
	}

	types := make(map[string]db.IndexFieldType, len(def.Fields))
	for _, f := range def.Fields {
		types[f.Name] = f.Type
	}
	want := map[string]db.IndexFieldType{
		"image_path":     db.IndexFieldKeyword,
		"summary":        db.IndexFieldText,
		"timestamp":      db.IndexFieldInteger,
		"latitude":       db.IndexFieldFloat,
		"deviceType":     db.IndexFieldKeyword,
		"persons":        db.IndexFieldText,
		"formatted_time": db.IndexFieldText,
	}
	for name, typ := range want {
		if types[name] != typ {
			t.Errorf("%s: type = %v, want %v", name, types[name], typ)
		}
	}
	if len(def.Fields) != 15 {
		t.Errorf("expected 15 indexes, got %d", len(def.Fields))
	}
}

func TestRecreate_DropsExisting(t *testing.T) {
	def, _ := photosCollection("photos", "v", 4)
	s := &mockSchemaStore{exists: true}

	if err := recreate(context.Background(), s, def, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.deleted) != 1 || s.deleted[0] != "photos" {
		t.Errorf("deleted = %v", s.deleted)
	}
	if s.created != def {
		t.Error("expected collection to be created")
	}
}

func TestRecreate_Fresh(t *testing.T) {
	def, _ := photosCollection("photos", "v", 4)
	s := &mockSchemaStore{}

	if err := recreate(context.Background(), s, def, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.deleted) != 0 {
		t.Errorf("expected no delete, got %v", s.deleted)
	}
}

func TestUpdateIndexes_ContinuesOnFailure(t *testing.T) {
	s := &mockSchemaStore{failDropIdx: true, failCreate: map[string]bool{"appName": true}}

	n := updateIndexes(context.Background(), s, "photos", zap.NewNop())
	if n != len(retokenizedFields)-1 {
		t.Errorf("updated = %d, want %d", n, len(retokenizedFields)-1)
	}
	if len(s.droppedIdx) != len(retokenizedFields) {
		t.Errorf("expected every index dropped, got %v", s.droppedIdx)
	}
	for _, f := range s.indexes {
		if f.Type != db.IndexFieldText || f.Text == nil || *f.Text != wordTextIndex {
			t.Errorf("unexpected index %+v", f)
		}
	}
}

func TestRecreate_IndexFailuresKeepCollection(t *testing.T) {
	def, _ := photosCollection("photos", "v", 4)
	s := &mockSchemaStore{createErr: errors.Join(
		fmt.Errorf("index %q: %w", "title", &db.Error{Op: db.OpCreateFieldIndex, Err: errors.New("bad params")}),
		fmt.Errorf("index %q: %w", "persons", &db.Error{Op: db.OpCreateFieldIndex, Err: errors.New("timeout")}),
	)}

	if err := recreate(context.Background(), s, def, zap.NewNop()); err != nil {
		t.Fatalf("expected index failures to be logged, got %v", err)
	}
	if s.created != def {
		t.Error("expected collection to be created")
	}
}

func TestRecreate_CollectionFailure(t *testing.T) {
	def, _ := photosCollection("photos", "v", 4)
	s := &mockSchemaStore{createErr: &db.Error{Op: db.OpCreateCollection, Err: errors.New("unavailable")}}

	err := recreate(context.Background(), s, def, zap.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpCreateCollection {
		t.Errorf("unexpected error: %v", err)
	}
}
