package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure reasons recorded by Metrics.
const (
	ReasonMalformedSelection = "malformed_selection"
	ReasonValidation         = "validation"
	ReasonInference          = "inference"
	ReasonRender             = "render"
)

// Metrics counts assessments. Each instance owns its registry so tests can
// build as many as they like.
type Metrics struct {
	registry    *prometheus.Registry
	assessments *prometheus.CounterVec
	failures    *prometheus.CounterVec
	inference   prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartrisk_assessments_total",
			Help: "Completed risk assessments by band.",
		}, []string{"band"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "heartrisk_assessment_failures_total",
			Help: "Assessments that did not produce a result, by reason.",
		}, []string{"reason"}),
		inference: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "heartrisk_inference_duration_seconds",
			Help:    "Latency of classifier calls.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	m.registry.MustRegister(m.assessments, m.failures, m.inference)
	return m
}

func (m *Metrics) ObserveAssessment(band string) { m.assessments.WithLabelValues(band).Inc() }

func (m *Metrics) ObserveFailure(reason string) { m.failures.WithLabelValues(reason).Inc() }

func (m *Metrics) ObserveInference(seconds float64) { m.inference.Observe(seconds) }

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
