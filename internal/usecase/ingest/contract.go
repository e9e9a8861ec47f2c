package ingest

import (
	"context"

	"github.com/kailas-cloud/securephotos/internal/domain/record"
)

// Fetcher downloads a document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// RecordRepository persists processed records.
type RecordRepository interface {
	Upsert(ctx context.Context, records []record.Record) (int, error)
}
