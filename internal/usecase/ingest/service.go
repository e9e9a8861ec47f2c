package ingest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/domain/record"
	"github.com/kailas-cloud/securephotos/internal/logger"
	"github.com/kailas-cloud/securephotos/internal/metrics"
)

// ProcessResult is a parse report plus the outcome of optional persistence.
type ProcessResult struct {
	Report    record.Report
	Persisted bool
	Inserted  int
}

// Service fetches, parses and stores CSV records.
type Service struct {
	fetcher      Fetcher
	repo         RecordRepository
	allowedHosts []string
}

// New creates an ingest service. repo may be nil when no record store is configured;
// Upload and persisting Process calls then fail with domain.ErrRecordStoreUnavailable.
func New(fetcher Fetcher, repo RecordRepository, allowedHosts []string) *Service {
	return &Service{fetcher: fetcher, repo: repo, allowedHosts: allowedHosts}
}

// Upload upserts records and returns how many were written.
func (s *Service) Upload(ctx context.Context, records []record.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if s.repo == nil {
		return 0, fmt.Errorf("%w: no record store configured", domain.ErrRecordStoreUnavailable)
	}
	n, err := s.repo.Upsert(ctx, records)
	if err != nil {
		logger.FromContext(ctx).Error("Record upsert failed", zap.Int("records", len(records)), zap.Error(err))
		return 0, fmt.Errorf("upsert records: %w", err)
	}
	metrics.RecordsUpsertedTotal.Add(float64(n))
	return n, nil
}

// Process fetches the CSV at csvURL and parses it. Fetch and parse problems are
// reported in the returned Report, never as an error. With persist set, the parsed
// records are upserted; only a persistence failure returns an error.
func (s *Service) Process(ctx context.Context, csvURL string, persist bool) (ProcessResult, error) {
	ctx = logger.WithFields(ctx, zap.String("csv_url", csvURL))
	log := logger.FromContext(ctx)

	if err := validateURL(csvURL, s.allowedHosts); err != nil {
		return ProcessResult{Report: record.Failed(record.ErrInvalidURL, "Invalid CSV URL provided: "+err.Error())}, nil
	}

	data, err := s.fetcher.Fetch(ctx, strings.TrimSpace(csvURL))
	if err != nil {
		log.Warn("CSV fetch failed", zap.Error(err))
		return ProcessResult{Report: record.Failed(record.ErrFetch, "Failed to fetch CSV: "+err.Error())}, nil
	}

	rep := ParseCSV(data)
	countRows(rep)
	log.Info("CSV parsed",
		zap.String("status", string(rep.Status)),
		zap.Int("records", len(rep.Records)),
		zap.Int("row_errors", len(rep.RowErrors)),
	)
	res := ProcessResult{Report: rep}
	if rep.Status == record.StatusError || !persist {
		return res, nil
	}

	n, err := s.Upload(ctx, rep.Records)
	if err != nil {
		return res, err
	}
	res.Persisted = true
	res.Inserted = n
	return res, nil
}

func countRows(rep record.Report) {
	if len(rep.Records) > 0 {
		metrics.CSVRowsTotal.WithLabelValues("ok").Add(float64(len(rep.Records)))
	}
	for _, e := range rep.RowErrors {
		metrics.CSVRowsTotal.WithLabelValues(string(e.Type)).Inc()
	}
}
