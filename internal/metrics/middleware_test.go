package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, http.NoBody))
	return rr
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/photos/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	c := httpRequestsTotal.WithLabelValues("GET", "/photos/{id}", "200")
	before := testutil.ToFloat64(c)

	serve(r, "GET", "/photos/1")
	serve(r, "GET", "/photos/2")

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("requests delta = %v, want 2", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/metadata-query", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	tests := []struct {
		method, path, status string
	}{
		{"POST", "/metadata-query", "502"},
		{"GET", "/health", "503"},
	}
	for _, tc := range tests {
		c := httpRequestsTotal.WithLabelValues(tc.method, tc.path, tc.status)
		before := testutil.ToFloat64(c)
		serve(r, tc.method, tc.path)
		if got := testutil.ToFloat64(c) - before; got != 1 {
			t.Errorf("%s %s: delta = %v, want 1", tc.method, tc.path, got)
		}
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", func(http.ResponseWriter, *http.Request) {})

	c := httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")
	before := testutil.ToFloat64(c)

	serve(r, "GET", "/no/such/path/12345")

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("unmatched delta = %v, want 1", got)
	}
}

func TestMiddleware_OutsideChi(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("plain"))
	}))

	c := httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "200")
	before := testutil.ToFloat64(c)

	serve(h, "GET", "/plain")

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("delta = %v, want 1", got)
	}
	if v := testutil.ToFloat64(httpInFlight); v != 0 {
		t.Errorf("in-flight = %v after request, want 0", v)
	}
}
