package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/securephotos/internal/db"
)

// retokenizedFields get a word-tokenised text index in update-indexes mode.
var retokenizedFields = []string{"title", "deviceType", "appName", "localFolderName", "image_path"}

var wordTextIndex = db.TextOptions{WordTokenizer: true, MinTokenLen: 2, Lowercase: true}

type schemaStore interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	DeleteCollection(ctx context.Context, name string) error
	CreateCollection(ctx context.Context, def *db.CollectionDefinition) error
	CreateFieldIndex(ctx context.Context, collection string, f db.IndexField) error
	DeleteFieldIndex(ctx context.Context, collection, field string) error
}

func photosCollection(name, vectorName string, size uint64) (*db.CollectionDefinition, error) {
	return db.NewCollection(name).
		Vector(vectorName, size, db.DistanceCosine).
		Keyword("image_path").
		Text("summary").
		Keyword("title").
		Text("description").
		Keyword("imageViews").
		Integer("timestamp").
		Text("formatted_time").
		Keyword("url").
		Float("latitude", "longitude", "altitude").
		Keyword("appName", "deviceType", "localFolderName").
		Text("persons").
		Build()
}

// recreate drops the collection when present and creates it from def.
// Payload index failures are logged and leave the collection in place.
func recreate(ctx context.Context, s schemaStore, def *db.CollectionDefinition, logger *zap.Logger) error {
	exists, err := s.CollectionExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		if err := s.DeleteCollection(ctx, def.Name); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		logger.Info("Deleted existing collection", zap.String("collection", def.Name))
	}

	if err := s.CreateCollection(ctx, def); err != nil {
		if !indexOnly(err) {
			return fmt.Errorf("create collection: %w", err)
		}
		logger.Error("Collection created with missing indexes",
			zap.String("collection", def.Name),
			zap.Error(err),
		)
		return nil
	}
	logger.Info("Created collection",
		zap.String("collection", def.Name),
		zap.Int("indexes", len(def.Fields)),
	)
	return nil
}

// indexOnly reports whether every error joined into err came from payload index creation.
func indexOnly(err error) bool {
	errs := []error{err}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	}
	for _, e := range errs {
		var dbErr *db.Error
		if !errors.As(e, &dbErr) || dbErr.Op != db.OpCreateFieldIndex {
			return false
		}
	}
	return true
}

// updateIndexes replaces keyword indexes with word-tokenised text indexes.
// Failures are logged per field and do not stop the run. Returns the number of fields updated.
func updateIndexes(ctx context.Context, s schemaStore, collection string, logger *zap.Logger) int {
	updated := 0
	for _, name := range retokenizedFields {
		log := logger.With(zap.String("field", name))

		if err := s.DeleteFieldIndex(ctx, collection, name); err != nil {
			log.Warn("Failed to delete index", zap.Error(err))
		}

		opts := wordTextIndex
		f := db.IndexField{Name: name, Type: db.IndexFieldText, Text: &opts}
		if err := s.CreateFieldIndex(ctx, collection, f); err != nil {
			log.Error("Failed to create text index", zap.Error(err))
			continue
		}
		log.Info("Created text index")
		updated++
	}
	return updated
}
