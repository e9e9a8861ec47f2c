package securephotos

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation outcomes. Searches that succeed without matches are "empty".
const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)

// call describes one finished client operation.
type call struct {
	op     string
	start  time.Time
	images int // -1 for operations that return no images
	tokens int
	err    error
}

func (c call) outcome() string {
	switch {
	case c.err != nil:
		return outcomeError
	case c.images == 0:
		return outcomeEmpty
	default:
		return outcomeOK
	}
}

type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	tokens     *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	const ns, sub = "securephotos", "sdk"

	operations, err := share(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "operations_total",
		Help:      "Client operations by outcome.",
	}, []string{"operation", "outcome"}))
	if err != nil {
		return nil, err
	}

	// Searches include an LLM round trip, so the buckets reach well past a second.
	duration, err := share(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "operation_duration_seconds",
		Help:      "Client operation latency.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10, 30},
	}, []string{"operation"}))
	if err != nil {
		return nil, err
	}

	tokens, err := share(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "llm_tokens_total",
		Help:      "LLM tokens consumed by client searches.",
	}, []string{"operation"}))
	if err != nil {
		return nil, err
	}

	return &sdkMetrics{operations: operations, duration: duration, tokens: tokens}, nil
}

// share registers c, or returns the equivalent collector another Client already
// registered on reg.
func share[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("securephotos: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("securephotos: metric registered with type %T", are.ExistingCollector)
	}
	return existing, nil
}

// observer logs and measures client operations. A nil observer does nothing.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) record(c call) {
	if o == nil {
		return
	}
	elapsed := time.Since(c.start)
	outcome := c.outcome()

	if m := o.metrics; m != nil {
		m.operations.WithLabelValues(c.op, outcome).Inc()
		m.duration.WithLabelValues(c.op).Observe(elapsed.Seconds())
		if c.tokens > 0 {
			m.tokens.WithLabelValues(c.op).Add(float64(c.tokens))
		}
	}

	if o.logger == nil {
		return
	}
	attrs := []any{"op", c.op, "outcome", outcome, "duration", elapsed}
	if c.images >= 0 {
		attrs = append(attrs, "images", c.images, "tokens", c.tokens)
	}
	if c.err != nil {
		o.logger.Warn("securephotos operation failed", append(attrs, "error", c.err)...)
		return
	}
	o.logger.Debug("securephotos operation completed", attrs...)
}
