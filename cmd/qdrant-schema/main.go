// Command qdrant-schema bootstraps the photos collection and its payload indexes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	dbQdrant "github.com/kailas-cloud/securephotos/internal/db/qdrant"
	logpkg "github.com/kailas-cloud/securephotos/internal/logger"
	"github.com/kailas-cloud/securephotos/internal/version"
)

const (
	modeCreate        = "create"
	modeUpdateIndexes = "update-indexes"
)

func main() {
	mode := flag.String("mode", modeCreate, "create | update-indexes")
	url := flag.String("url", envOr("QDRANT_URL", "http://localhost:6334"), "qdrant gRPC url")
	apiKey := flag.String("api-key", os.Getenv("QDRANT_API_KEY"), "qdrant api key")
	collection := flag.String("collection", envOr("QDRANT_COLLECTION", "secure_photos"), "collection name")
	vectorName := flag.String("vector", "summary_embedding", "named vector")
	vectorSize := flag.Uint64("size", 1536, "vector size")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	logger, err := logpkg.NewLogger("local", "info")
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	store, err := dbQdrant.NewStore(dbQdrant.Config{URL: *url, APIKey: *apiKey})
	if err != nil {
		logger.Fatal("Failed to create qdrant store", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := store.WaitForReady(ctx, 10*time.Second); err != nil {
		logger.Fatal("Qdrant not ready", zap.Error(err))
	}

	switch *mode {
	case modeCreate:
		def, err := photosCollection(*collection, *vectorName, *vectorSize)
		if err != nil {
			logger.Fatal("Invalid collection definition", zap.Error(err))
		}
		logger.Debug("Collection definition", zap.Stringer("schema", def))
		if err := recreate(ctx, store, def, logger); err != nil {
			logger.Fatal("Failed to create collection", zap.Error(err))
		}
	case modeUpdateIndexes:
		n := updateIndexes(ctx, store, *collection, logger)
		logger.Info("Index update finished", zap.Int("updated", n), zap.Int("total", len(retokenizedFields)))
	default:
		logger.Fatal("Unknown mode", zap.String("mode", *mode))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
