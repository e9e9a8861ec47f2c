package ingest

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/securephotos/internal/domain/record"
)

func TestParseCSV_Success(t *testing.T) {
	rep := ParseCSV([]byte("id,value1,value2\n1,10,20\n2, 3 ,4\n"))

	if rep.Status != record.StatusSuccess {
		t.Fatalf("Status = %q, want success (%s)", rep.Status, rep.Message)
	}
	want := []record.Record{
		{ID: 1, Value1: 10, Value2: 20, Sum: 30},
		{ID: 2, Value1: 3, Value2: 4, Sum: 7},
	}
	if len(rep.Records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(rep.Records))
	}
	for i := range want {
		if rep.Records[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, rep.Records[i], want[i])
		}
	}
}

func TestParseCSV_StripsBOM(t *testing.T) {
	rep := ParseCSV([]byte("\ufeffid,value1,value2\r\n5,1,1\r\n"))
	if rep.Status != record.StatusSuccess || len(rep.Records) != 1 || rep.Records[0].ID != 5 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestParseCSV_ExtraColumnsAndOrder(t *testing.T) {
	rep := ParseCSV([]byte("note,value2,id,value1\nhello,2,9,1\n"))
	if rep.Status != record.StatusSuccess || len(rep.Records) != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if r := rep.Records[0]; r.ID != 9 || r.Value1 != 1 || r.Value2 != 2 || r.Sum != 3 {
		t.Errorf("record = %+v", r)
	}
}

func TestParseCSV_HeaderError(t *testing.T) {
	tests := []struct {
		name  string
		input string
		found string
	}{
		{"missing column", "id,value1\n1,2\n", "Found: [id, value1]"},
		{"empty document", "", "Found: []"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := ParseCSV([]byte(tt.input))
			if rep.Status != record.StatusError || rep.ErrorType != record.ErrHeader {
				t.Fatalf("unexpected report: %+v", rep)
			}
			if !strings.Contains(rep.Message, "Expected: [id, value1, value2]") {
				t.Errorf("message = %q", rep.Message)
			}
			if !strings.Contains(rep.Message, tt.found) {
				t.Errorf("message = %q, expected to contain %q", rep.Message, tt.found)
			}
		})
	}
}

func TestParseCSV_RowErrors(t *testing.T) {
	rep := ParseCSV([]byte("id,value1,value2\n1,2,3\n2,abc,4\n3,5\n4,1,1\n"))

	if rep.Status != record.StatusPartialSuccess {
		t.Fatalf("Status = %q, want partial_success_with_errors", rep.Status)
	}
	if len(rep.Records) != 2 || rep.Records[0].ID != 1 || rep.Records[1].ID != 4 {
		t.Errorf("good rows = %+v", rep.Records)
	}
	if len(rep.RowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %d", len(rep.RowErrors))
	}

	parseErr := rep.RowErrors[0]
	if parseErr.Row != 2 || parseErr.Type != record.ErrRowParse {
		t.Errorf("first row error = %+v", parseErr)
	}
	if parseErr.OriginalRow["value1"] != "abc" {
		t.Errorf("original row = %v", parseErr.OriginalRow)
	}

	missing := rep.RowErrors[1]
	if missing.Row != 3 || missing.Type != record.ErrMissingColumn {
		t.Errorf("second row error = %+v", missing)
	}
	if !strings.Contains(missing.Message, "value2") {
		t.Errorf("message = %q", missing.Message)
	}
	if _, ok := missing.OriginalRow["value2"]; ok {
		t.Error("original row must only hold present fields")
	}
}

func TestParseCSV_MalformedQuoting(t *testing.T) {
	rep := ParseCSV([]byte("id,value1,value2\n1,\"2,3\n"))
	if rep.Status != record.StatusError || rep.ErrorType != record.ErrGlobalProcessing {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestValidateURL(t *testing.T) {
	allowed := []string{DefaultAllowedHost}
	tests := []struct {
		url     string
		allowed []string
		ok      bool
	}{
		{"https://upload.dify.ai/files/a.csv", allowed, true},
		{"http://UPLOAD.dify.ai:8080/a.csv", allowed, true},
		{"https://evil.example/upload.dify.ai/a.csv", allowed, false},
		{"ftp://upload.dify.ai/a.csv", allowed, false},
		{"upload.dify.ai/a.csv", allowed, false},
		{"https://anything.example/a.csv", nil, true},
		{"https:///a.csv", nil, false},
	}
	for _, tt := range tests {
		err := validateURL(tt.url, tt.allowed)
		if (err == nil) != tt.ok {
			t.Errorf("validateURL(%q) err = %v, want ok=%v", tt.url, err, tt.ok)
		}
	}
}
