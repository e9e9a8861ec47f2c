package record

// Record is one processed CSV row: two values and their sum.
type Record struct {
	ID     int64
	Value1 int64
	Value2 int64
	Sum    int64
}

// New creates a Record with Sum = value1 + value2.
func New(id, value1, value2 int64) Record {
	return Record{ID: id, Value1: value1, Value2: value2, Sum: value1 + value2}
}

// Status is the overall outcome of a parse.
type Status string

// Parse outcomes.
const (
	StatusSuccess        Status = "success"
	StatusPartialSuccess Status = "partial_success_with_errors"
	StatusError          Status = "error"
)

// ErrorType classifies a parse failure.
type ErrorType string

// Report-level failures.
const (
	ErrInvalidURL       ErrorType = "invalid_url"
	ErrFetch            ErrorType = "fetch_error"
	ErrHeader           ErrorType = "header_error"
	ErrGlobalProcessing ErrorType = "global_processing_error"
)

// Row-level failures.
const (
	ErrRowParse      ErrorType = "row_parse_error"
	ErrMissingColumn ErrorType = "missing_column_error"
)

// RowError describes a CSV row that could not be converted.
type RowError struct {
	Row         int // 1-based, header excluded
	Type        ErrorType
	Message     string
	OriginalRow map[string]string
}

// Report is the outcome of fetching and parsing one CSV document.
type Report struct {
	Status    Status
	Message   string
	ErrorType ErrorType // set only when Status is StatusError
	Records   []Record
	RowErrors []RowError
}

// Failed creates an error report with no records.
func Failed(t ErrorType, msg string) Report {
	return Report{Status: StatusError, ErrorType: t, Message: msg}
}

// Finish derives Status from the collected rows.
func (r *Report) Finish() {
	if len(r.RowErrors) > 0 {
		r.Status = StatusPartialSuccess
		r.Message = "Some rows failed to parse. Check individual records for errors."
		return
	}
	r.Status = StatusSuccess
}
