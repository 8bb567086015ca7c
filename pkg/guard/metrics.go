package guard

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for the admission pipeline. A private
// registry keeps the set isolated from the global default registry so
// embedders and tests can scrape it without cross-talk.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inputLength     prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates a metrics instance with all pipeline metrics registered.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sluice_requests_total",
				Help: "Total number of admission requests by outcome",
			},
			[]string{"outcome"},
		),

		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sluice_rejections_total",
				Help: "Total number of rejected requests by reason",
			},
			[]string{"reason"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sluice_request_duration_seconds",
				Help:    "Admission request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),

		inputLength: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sluice_input_length_chars",
				Help:    "Raw input length in Unicode characters, counted before trimming",
				Buckets: []float64{1, 5, 10, 15, 20, 25, 30, 40, 50, 75, 100},
			},
		),

		registry: registry,
	}

	registry.MustRegister(
		m.requestsTotal,
		m.rejectionsTotal,
		m.requestDuration,
		m.inputLength,
	)

	return m
}

// ObserveProcess records one admission request. The reason label is only
// meaningful for rejected outcomes and is ignored otherwise.
func (m *Metrics) ObserveProcess(outcome, reason string, chars int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(outcome).Inc()
	m.requestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.inputLength.Observe(float64(chars))

	if reason != "" {
		m.rejectionsTotal.WithLabelValues(reason).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for embedders. The
// sluice binary itself never binds a listener.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
