package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/domain/record"
	healthuc "github.com/kailas-cloud/securephotos/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/securephotos/internal/usecase/ingest"
	metadatauc "github.com/kailas-cloud/securephotos/internal/usecase/metadata"
	semanticuc "github.com/kailas-cloud/securephotos/internal/usecase/semantic"
)

const (
	maxBodyBytes  = 1 << 20
	maxUploadRows = 10000

	semanticSuccessMessage = "Top-k matched images retrieved successfully."
)

// MetadataSearcher answers queries by metadata filtering.
type MetadataSearcher interface {
	Search(ctx context.Context, query string) (metadatauc.Result, error)
}

// SemanticSearcher answers queries by embedding similarity.
type SemanticSearcher interface {
	Search(ctx context.Context, query string) (semanticuc.Result, error)
}

// Ingester stores records and processes CSV documents.
type Ingester interface {
	Upload(ctx context.Context, records []record.Record) (int, error)
	Process(ctx context.Context, csvURL string, persist bool) (ingestuc.ProcessResult, error)
}

// HealthChecker aggregates dependency checks.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	metadata      MetadataSearcher
	semantic      SemanticSearcher
	ingest        Ingester
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. semantic may be nil when semantic search is disabled.
func NewServer(
	metadata MetadataSearcher,
	semantic SemanticSearcher,
	ingest Ingester,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		metadata: metadata,
		semantic: semantic,
		ingest:   ingest,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		modelOutputHandler,
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrLLMProviderError, http.StatusBadGateway, ErrorResponseCodeLLMProviderError),
		sentinelHandler(domain.ErrVectorStoreUnavailable,
			http.StatusServiceUnavailable, ErrorResponseCodeVectorStoreUnavailable),
		sentinelHandler(domain.ErrRecordStoreUnavailable,
			http.StatusInternalServerError, ErrorResponseCodeRecordStoreUnavailable),
	}
	return s
}

// MetadataQuery handles POST /metadata-query.
func (s *Server) MetadataQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.metadata.Search(ctx, req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setLLMHeaders(w, usage)
	writeJSON(w, http.StatusOK, MetadataSearchResponse{
		Query:         res.Query,
		MatchedImages: imagesToDTO(res.Images),
	})
}

// SemanticQuery handles POST /query.
func (s *Server) SemanticQuery(w http.ResponseWriter, r *http.Request) {
	if s.semantic == nil {
		writeError(w, http.StatusNotImplemented, ErrorResponseCodeSemanticSearchNotEnabled,
			"semantic search is not enabled")
		return
	}

	var req QueryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.semantic.Search(ctx, req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	setLLMHeaders(w, usage)
	writeJSON(w, http.StatusOK, SemanticSearchResponse{
		Query:        res.Query,
		ImageResults: imagesToDTO(res.Images),
		Message:      semanticSuccessMessage,
	})
}

// Upload handles POST /upload.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	var items []RecordItem
	if !decodeBody(w, r, &items) {
		return
	}

	records, err := recordsFromDTO(items)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	n, err := s.ingest.Upload(r.Context(), records)
	if err != nil {
		s.logger.Error("upload failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": safeDomainMessage(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{Status: "success", Inserted: n})
}

// ProcessCSV handles POST /csv/process.
func (s *Server) ProcessCSV(w http.ResponseWriter, r *http.Request) {
	var req ProcessCSVRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CSVURL == "" {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "csv_url is required")
		return
	}

	res, err := s.ingest.Process(r.Context(), req.CSVURL, req.Persist)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := reportToDTO(res.Report)
	resp.Persisted = res.Persisted
	resp.Inserted = res.Inserted
	writeJSON(w, http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func recordsFromDTO(items []RecordItem) ([]record.Record, error) {
	if len(items) > maxUploadRows {
		return nil, fmt.Errorf("at most %d records per upload", maxUploadRows)
	}
	out := make([]record.Record, len(items))
	for i, it := range items {
		if it.ID == nil || it.Value1 == nil || it.Value2 == nil {
			return nil, fmt.Errorf("record %d: id, value1 and value2 are required", i)
		}
		rec := record.New(*it.ID, *it.Value1, *it.Value2)
		if it.Sum != nil {
			rec.Sum = *it.Sum
		}
		out[i] = rec
	}
	return out, nil
}

func setLLMHeaders(w http.ResponseWriter, usage *domain.LLMUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-LLM-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrInvalidRequest,
		domain.ErrInvalidModelOutput,
		domain.ErrLLMProviderError,
		domain.ErrVectorStoreUnavailable,
		domain.ErrRecordStoreUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// modelOutputHandler handles ErrInvalidModelOutput, echoing the cleaned model text.
func modelOutputHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrInvalidModelOutput) {
		return false
	}
	resp := ModelOutputErrorResponse{
		Code:    ErrorResponseCodeInvalidModelOutput,
		Message: msg,
	}
	var moe *domain.ModelOutputError
	if errors.As(err, &moe) {
		resp.Content = moe.Content
	}
	writeJSON(w, http.StatusBadGateway, resp)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
