package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/securephotos/internal/domain"
	"github.com/kailas-cloud/securephotos/internal/domain/record"
)

// --- Mocks ---

type mockFetcher struct {
	body  []byte
	err   error
	calls int
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	m.calls++
	return m.body, m.err
}

type mockRepo struct {
	got   []record.Record
	err   error
	calls int
}

func (m *mockRepo) Upsert(_ context.Context, records []record.Record) (int, error) {
	m.calls++
	m.got = records
	if m.err != nil {
		return 0, m.err
	}
	return len(records), nil
}

const csvURL = "https://upload.dify.ai/files/data.csv"

func newTestService(f *mockFetcher, r *mockRepo) *Service {
	return New(f, r, []string{DefaultAllowedHost})
}

// --- Tests ---

func TestProcess_InvalidURL(t *testing.T) {
	f := &mockFetcher{}
	svc := newTestService(f, &mockRepo{})

	res, err := svc.Process(context.Background(), "https://remote.example/data.csv", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Report.ErrorType != record.ErrInvalidURL {
		t.Errorf("ErrorType = %q, want invalid_url", res.Report.ErrorType)
	}
	if !strings.HasPrefix(res.Report.Message, "Invalid CSV URL provided") {
		t.Errorf("Message = %q", res.Report.Message)
	}
	if f.calls != 0 {
		t.Error("invalid URL must not be fetched")
	}
}

func TestProcess_FetchError(t *testing.T) {
	svc := newTestService(&mockFetcher{err: errors.New("connection reset")}, &mockRepo{})

	res, err := svc.Process(context.Background(), csvURL, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Report.Status != record.StatusError || res.Report.ErrorType != record.ErrFetch {
		t.Errorf("unexpected report: %+v", res.Report)
	}
	if !strings.Contains(res.Report.Message, "connection reset") {
		t.Errorf("Message = %q", res.Report.Message)
	}
}

func TestProcess_ParseOnly(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(&mockFetcher{body: []byte("id,value1,value2\n1,2,3\n")}, repo)

	res, err := svc.Process(context.Background(), csvURL, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Report.Status != record.StatusSuccess || len(res.Report.Records) != 1 {
		t.Errorf("unexpected report: %+v", res.Report)
	}
	if res.Persisted || repo.calls != 0 {
		t.Error("records must not be persisted without persist flag")
	}
}

func TestProcess_PersistsGoodRows(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(&mockFetcher{body: []byte("id,value1,value2\n1,2,3\n2,x,1\n3,4,5\n")}, repo)

	res, err := svc.Process(context.Background(), csvURL, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Report.Status != record.StatusPartialSuccess {
		t.Errorf("Status = %q", res.Report.Status)
	}
	if !res.Persisted || res.Inserted != 2 {
		t.Errorf("persisted=%v inserted=%d, want true/2", res.Persisted, res.Inserted)
	}
	if len(repo.got) != 2 || repo.got[1].Sum != 9 {
		t.Errorf("upserted = %+v", repo.got)
	}
}

func TestProcess_HeaderErrorIsNotPersisted(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(&mockFetcher{body: []byte("a,b\n1,2\n")}, repo)

	res, err := svc.Process(context.Background(), csvURL, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Report.ErrorType != record.ErrHeader || repo.calls != 0 {
		t.Errorf("unexpected result: %+v (upserts=%d)", res, repo.calls)
	}
}

func TestProcess_PersistFailure(t *testing.T) {
	repo := &mockRepo{err: domain.ErrRecordStoreUnavailable}
	svc := newTestService(&mockFetcher{body: []byte("id,value1,value2\n1,2,3\n")}, repo)

	res, err := svc.Process(context.Background(), csvURL, true)
	if !errors.Is(err, domain.ErrRecordStoreUnavailable) {
		t.Fatalf("expected ErrRecordStoreUnavailable, got %v", err)
	}
	if len(res.Report.Records) != 1 {
		t.Error("report must still be returned on persistence failure")
	}
}

func TestUpload(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(&mockFetcher{}, repo)

	n, err := svc.Upload(context.Background(), []record.Record{record.New(1, 1, 2), record.New(2, 2, 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	n, err = svc.Upload(context.Background(), nil)
	if err != nil || n != 0 {
		t.Errorf("empty upload = %d, %v", n, err)
	}
	if repo.calls != 1 {
		t.Errorf("expected empty upload to skip the store, got %d calls", repo.calls)
	}
}

func TestUpload_NoStore(t *testing.T) {
	svc := New(&mockFetcher{}, nil, nil)

	_, err := svc.Upload(context.Background(), []record.Record{record.New(1, 1, 1)})
	if !errors.Is(err, domain.ErrRecordStoreUnavailable) {
		t.Fatalf("expected ErrRecordStoreUnavailable, got %v", err)
	}
}
