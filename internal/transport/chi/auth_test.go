package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveWithAuth(t *testing.T, keys []string, method, path, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(method, path, http.NoBody)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	BearerAuthMiddleware(keys, PublicPaths...)(ok).ServeHTTP(rr, req)
	return rr
}

func TestBearerAuth_Disabled(t *testing.T) {
	for name, keys := range map[string][]string{
		"nil":    nil,
		"blanks": {"", "  "},
	} {
		t.Run(name, func(t *testing.T) {
			rr := serveWithAuth(t, keys, http.MethodPost, "/metadata-query", "")
			if rr.Code != http.StatusOK {
				t.Errorf("got %d, want 200", rr.Code)
			}
		})
	}
}

func TestBearerAuth(t *testing.T) {
	keys := []string{"alpha", "beta"}
	tests := []struct {
		name    string
		header  string
		want    int
		wantMsg string
	}{
		{"first key", "Bearer alpha", http.StatusOK, ""},
		{"second key", "Bearer beta", http.StatusOK, ""},
		{"scheme is case-insensitive", "bearer alpha", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "missing authorization header"},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "authorization header must use Bearer scheme"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "empty bearer token"},
		{"unknown key", "Bearer gamma", http.StatusUnauthorized, "invalid api key"},
		{"key prefix", "Bearer alph", http.StatusUnauthorized, "invalid api key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveWithAuth(t, keys, http.MethodPost, "/metadata-query", tt.header)
			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusOK {
				return
			}

			if rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("expected WWW-Authenticate challenge")
			}
			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != ErrorResponseCodeUnauthorized || body.Message != tt.wantMsg {
				t.Errorf("got %+v, want code %s message %q", body, ErrorResponseCodeUnauthorized, tt.wantMsg)
			}
		})
	}
}

func TestBearerAuth_PublicPaths(t *testing.T) {
	for _, path := range PublicPaths {
		rr := serveWithAuth(t, []string{"alpha"}, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Errorf("%s: got %d, want 200", path, rr.Code)
		}
	}
	if rr := serveWithAuth(t, []string{"alpha"}, http.MethodPost, "/upload", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("/upload: got %d, want 401", rr.Code)
	}
}
