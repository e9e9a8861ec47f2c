package chi

import (
	"github.com/kailas-cloud/securephotos/internal/domain/photo"
	"github.com/kailas-cloud/securephotos/internal/domain/record"
)

// ErrorResponseCode is the machine-readable error code in ErrorResponse.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest               ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed         ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized             ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInvalidModelOutput       ErrorResponseCode = "invalid_model_output"
	ErrorResponseCodeLLMProviderError         ErrorResponseCode = "llm_provider_error"
	ErrorResponseCodeVectorStoreUnavailable   ErrorResponseCode = "vector_store_unavailable"
	ErrorResponseCodeRecordStoreUnavailable   ErrorResponseCode = "record_store_unavailable"
	ErrorResponseCodeInternalError            ErrorResponseCode = "internal_error"
	ErrorResponseCodeSemanticSearchNotEnabled ErrorResponseCode = "semantic_search_not_enabled"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// ModelOutputErrorResponse adds the cleaned model text to an extraction failure.
type ModelOutputErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
	Content string            `json:"content"`
}

// QueryRequest is the body of POST /metadata-query and POST /query.
type QueryRequest struct {
	Query string `json:"query"`
}

// ImageResult is one matched image.
type ImageResult struct {
	ImageURL string `json:"image_url"`
	Summary  string `json:"summary"`
}

// MetadataSearchResponse is the body of POST /metadata-query.
type MetadataSearchResponse struct {
	Query         string        `json:"query"`
	MatchedImages []ImageResult `json:"matched_images"`
}

// SemanticSearchResponse is the body of POST /query.
type SemanticSearchResponse struct {
	Query        string        `json:"query"`
	ImageResults []ImageResult `json:"image_results"`
	Message      string        `json:"message"`
}

// RecordItem is one row of POST /upload and of a CSV report.
type RecordItem struct {
	ID     *int64 `json:"id"`
	Value1 *int64 `json:"value1"`
	Value2 *int64 `json:"value2"`
	Sum    *int64 `json:"sum"`
}

// UploadResponse is the body of a successful POST /upload.
type UploadResponse struct {
	Status   string `json:"status"`
	Inserted int    `json:"inserted"`
}

// ProcessCSVRequest is the body of POST /csv/process.
type ProcessCSVRequest struct {
	CSVURL  string `json:"csv_url"`
	Persist bool   `json:"persist"`
}

// RowErrorItem describes a CSV row that failed to convert.
type RowErrorItem struct {
	Row         int               `json:"row"`
	Type        string            `json:"type"`
	Message     string            `json:"message"`
	OriginalRow map[string]string `json:"original_row"`
}

// ProcessCSVResponse is the body of POST /csv/process.
type ProcessCSVResponse struct {
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Type      string         `json:"type,omitempty"`
	Records   []RecordItem   `json:"records"`
	Errors    []RowErrorItem `json:"errors,omitempty"`
	Persisted bool           `json:"persisted"`
	Inserted  int            `json:"inserted"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func imagesToDTO(images []photo.Image) []ImageResult {
	out := make([]ImageResult, len(images))
	for i, img := range images {
		out[i] = ImageResult{ImageURL: img.URL(), Summary: img.Summary()}
	}
	return out
}

func recordToDTO(r record.Record) RecordItem {
	return RecordItem{ID: &r.ID, Value1: &r.Value1, Value2: &r.Value2, Sum: &r.Sum}
}

func reportToDTO(rep record.Report) ProcessCSVResponse {
	resp := ProcessCSVResponse{
		Status:  string(rep.Status),
		Message: rep.Message,
		Type:    string(rep.ErrorType),
		Records: make([]RecordItem, len(rep.Records)),
	}
	for i, r := range rep.Records {
		resp.Records[i] = recordToDTO(r)
	}
	for _, e := range rep.RowErrors {
		resp.Errors = append(resp.Errors, RowErrorItem{
			Row:         e.Row,
			Type:        string(e.Type),
			Message:     e.Message,
			OriginalRow: e.OriginalRow,
		})
	}
	return resp
}
