// Package metrics holds the Prometheus collectors of the risk service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"msme-risk/domain"
)

type Metrics struct {
	registry *prometheus.Registry

	AssessmentsTotal  *prometheus.CounterVec
	ScoreDistribution prometheus.Histogram
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "msme",
			Subsystem: "risk",
			Name:      "assessments_total",
			Help:      "Stored submissions by risk label",
		}, []string{"label"}),
		ScoreDistribution: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "msme",
			Subsystem: "risk",
			Name:      "score",
			Help:      "Risk scores of stored submissions",
			Buckets:   []float64{-200, -100, 0, 20, 40, 60, 70, 85, 100, 150},
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "msme",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "msme",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.AssessmentsTotal,
		m.ScoreDistribution,
		m.HTTPRequestsTotal,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAssessment records one stored submission.
func (m *Metrics) ObserveAssessment(result domain.RiskResult) {
	m.AssessmentsTotal.WithLabelValues(result.Label.String()).Inc()
	m.ScoreDistribution.Observe(result.Score)
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
