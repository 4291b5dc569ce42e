// Package metrics holds the Prometheus collectors of the chat service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry   *prometheus.Registry
	responses  *prometheus.CounterVec
	llmLatency *prometheus.HistogramVec
	chunks     prometheus.Counter
	ingestErrs prometheus.Counter
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erpchat",
			Name:      "responses_total",
			Help:      "Chat answers by response type.",
		}, []string{"response_type"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "erpchat",
			Name:      "llm_generate_seconds",
			Help:      "LLM generation latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"outcome"}),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "erpchat",
			Name:      "ingested_chunks_total",
			Help:      "Chunks written to the vector index.",
		}),
		ingestErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "erpchat",
			Name:      "ingest_failures_total",
			Help:      "Documents that failed to ingest.",
		}),
	}
	m.registry.MustRegister(
		m.responses,
		m.llmLatency,
		m.chunks,
		m.ingestErrs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// A nil *Metrics is valid and records nothing.

func (m *Metrics) ObserveResponse(responseType string) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(responseType).Inc()
}

func (m *Metrics) ObserveLLM(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.llmLatency.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) ObserveIngest(chunks int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ingestErrs.Inc()
		return
	}
	m.chunks.Add(float64(chunks))
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
