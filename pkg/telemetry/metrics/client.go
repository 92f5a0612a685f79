package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics tracks provider call outcomes for the runtime.
//
// Metrics:
//   - scribe_provider_requests_total: calls by provider, model, and kind
//   - scribe_provider_errors_total: failures by provider and error type
//   - scribe_provider_latency_seconds: call latency
//   - scribe_stream_chunks_total: decoded stream deltas
//   - scribe_tokens_total: token usage by provider, model, and direction
type ClientMetrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	chunks   *prometheus.CounterVec
	tokens   *prometheus.CounterVec
}

// NewClientMetrics creates and registers the runtime metrics.
func NewClientMetrics(registry *prometheus.Registry) *ClientMetrics {
	m := &ClientMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scribe",
				Name:      "provider_requests_total",
				Help:      "Total provider calls by provider, model, and call kind",
			},
			[]string{"provider", "model", "kind"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scribe",
				Name:      "provider_errors_total",
				Help:      "Total provider call failures by error type",
			},
			[]string{"provider", "error_type"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "scribe",
				Name:      "provider_latency_seconds",
				Help:      "Provider call latency in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider", "model"},
		),
		chunks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scribe",
				Name:      "stream_chunks_total",
				Help:      "Total decoded streaming deltas by provider",
			},
			[]string{"provider"},
		),
		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "scribe",
				Name:      "tokens_total",
				Help:      "Token usage by provider, model, and direction",
			},
			[]string{"provider", "model", "direction"},
		),
	}

	registry.MustRegister(m.requests, m.errors, m.latency, m.chunks, m.tokens)
	return m
}

// RecordCall records one completed call. kind is "complete", "chat",
// "stream_complete", or "stream_chat".
func (m *ClientMetrics) RecordCall(provider, model, kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(provider, model, kind).Inc()
	m.latency.WithLabelValues(provider, model).Observe(elapsed.Seconds())
}

// RecordError records one failed call by error type ("auth", "rate_limit",
// "server_error", "network", "privacy_block", "parse", "other").
func (m *ClientMetrics) RecordError(provider, errorType string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(provider, errorType).Inc()
}

// RecordChunk records one decoded streaming delta.
func (m *ClientMetrics) RecordChunk(provider string) {
	if m == nil {
		return
	}
	m.chunks.WithLabelValues(provider).Inc()
}

// RecordTokens records token usage for a call.
func (m *ClientMetrics) RecordTokens(provider, model string, prompt, completion int) {
	if m == nil {
		return
	}
	if prompt > 0 {
		m.tokens.WithLabelValues(provider, model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		m.tokens.WithLabelValues(provider, model, "completion").Add(float64(completion))
	}
}
