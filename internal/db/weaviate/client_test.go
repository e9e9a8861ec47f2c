package weaviate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kailas-cloud/securephotos/internal/db"
)

func TestParseGet(t *testing.T) {
	get := map[string]any{
		"SecurePhotos": []any{
			map[string]any{"summary": "A lion roaring", "google_metadata": `{"url":"https://p/1"}`},
			"garbage",
			map[string]any{"summary": "A beach"},
		},
	}

	objs, err := parseGet(get, "SecurePhotos")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objs))
	}
	if objs[0]["summary"] != "A lion roaring" {
		t.Errorf("summary = %v", objs[0]["summary"])
	}
}

func TestParseGet_MissingClass(t *testing.T) {
	objs, err := parseGet(map[string]any{"Other": []any{}}, "SecurePhotos")
	if err != nil || objs != nil {
		t.Fatalf("expected no objects, got %v, %v", objs, err)
	}
	if objs, err = parseGet(nil, "SecurePhotos"); err != nil || objs != nil {
		t.Fatalf("expected no objects for nil section, got %v, %v", objs, err)
	}
}

func TestParseGet_BadShape(t *testing.T) {
	if _, err := parseGet([]any{}, "SecurePhotos"); err == nil {
		t.Error("expected error for non-object Get section")
	}
	if _, err := parseGet(map[string]any{"SecurePhotos": "x"}, "SecurePhotos"); err == nil {
		t.Error("expected error for non-list class result")
	}
}

func TestNewStore_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "localhost:8080", "ftp://weaviate"} {
		if _, err := NewStore(Config{URL: u}); err == nil {
			t.Errorf("expected error for %q", u)
		}
	}
}

func newTestServer(t *testing.T, graphqlBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/graphql":
			body, _ := io.ReadAll(r.Body)
			var q struct {
				Query string `json:"query"`
			}
			_ = json.Unmarshal(body, &q)
			if !strings.Contains(q.Query, "SecurePhotos") || !strings.Contains(q.Query, "nearVector") {
				t.Errorf("unexpected query: %s", q.Query)
			}
			_, _ = w.Write([]byte(graphqlBody))
		case "/v1/.well-known/live":
			w.WriteHeader(http.StatusOK)
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
}

func TestNearVector(t *testing.T) {
	srv := newTestServer(t, `{"data":{"Get":{"SecurePhotos":[
		{"image_path":"a.jpg","summary":"A lion","google_metadata":"{\"url\":\"https://p/1\"}"}
	]}}}`)
	defer srv.Close()

	s, err := NewStore(Config{URL: srv.URL})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	objs, err := s.NearVector(context.Background(), NearVectorRequest{
		Class:  "SecurePhotos",
		Fields: []string{"image_path", "summary", "google_metadata"},
		Vector: []float32{0.1, 0.2},
		Limit:  5,
	})
	if err != nil {
		t.Fatalf("NearVector: %v", err)
	}
	if len(objs) != 1 || objs[0]["image_path"] != "a.jpg" {
		t.Errorf("unexpected objects: %v", objs)
	}
}

func TestNearVector_GraphQLErrors(t *testing.T) {
	srv := newTestServer(t, `{"errors":[{"message":"class SecurePhotos not found"}]}`)
	defer srv.Close()

	s, err := NewStore(Config{URL: srv.URL})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	_, err = s.NearVector(context.Background(), NearVectorRequest{
		Class: "SecurePhotos", Fields: []string{"summary"}, Vector: []float32{1}, Limit: 1,
	})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpNearVector {
		t.Fatalf("expected *db.Error, got %v", err)
	}
}

func TestNearVector_Validation(t *testing.T) {
	s := &Store{}
	if _, err := s.NearVector(context.Background(), NearVectorRequest{Fields: []string{"a"}, Vector: []float32{1}}); err == nil {
		t.Error("expected error for empty class")
	}
	if _, err := s.NearVector(context.Background(), NearVectorRequest{Class: "C", Vector: []float32{1}}); err == nil {
		t.Error("expected error for no fields")
	}
	if _, err := s.NearVector(context.Background(), NearVectorRequest{Class: "C", Fields: []string{"a"}}); err == nil {
		t.Error("expected error for empty vector")
	}
}

func TestPing(t *testing.T) {
	srv := newTestServer(t, `{}`)
	defer srv.Close()

	s, err := NewStore(Config{URL: srv.URL})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
