package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcome labels.
const (
	OutcomeMatched    = "matched"
	OutcomeEmpty      = "empty"
	OutcomeNoCriteria = "no_criteria"
	OutcomeFailed     = "failed"
)

var (
	// SearchOutcomesTotal counts searches by backend (qdrant_filter, qdrant_vector, weaviate) and outcome.
	SearchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_outcomes_total",
			Help:      "Search requests by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	// CSVRowsTotal counts processed CSV rows by result (ok, row_parse_error, missing_column_error).
	CSVRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_rows_total",
			Help:      "Processed CSV rows by result",
		},
		[]string{"result"},
	)

	// RecordsUpsertedTotal counts rows written to the record store.
	RecordsUpsertedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_upserted_total",
			Help:      "Rows upserted into the record store",
		},
	)
)

var registerOnce sync.Once

// Register registers all service metrics with the default registry. Safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			LLMRequestsTotal,
			LLMRequestDuration,
			LLMTokensTotal,
			LLMErrorsTotal,
			EmbeddingCacheTotal,
			SearchOutcomesTotal,
			CSVRowsTotal,
			RecordsUpsertedTotal,
			httpRequestDuration,
			httpRequestsTotal,
			httpInFlight,
		)
	})
}

// ObserveSearch increments the outcome counter for backend.
func ObserveSearch(backend, outcome string) {
	SearchOutcomesTotal.WithLabelValues(backend, outcome).Inc()
}
