package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/metadata-query", s.MetadataQuery)
	r.Post("/query", s.SemanticQuery)
	r.Post("/upload", s.Upload)
	r.Post("/csv/process", s.ProcessCSV)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorResponseCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponseCodeBadRequest, "method not allowed")
	})
}
