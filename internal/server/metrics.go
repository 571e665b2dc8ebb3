package server

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments for the transform API.
type Metrics struct {
	registry *prometheus.Registry

	TransformRequests *prometheus.CounterVec // label: outcome={ok,empty_batch,bad_request,error}
	TransformRows     prometheus.Histogram
}

// NewMetrics creates the instruments on a private registry so each
// server instance scrapes only its own series.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TransformRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingcs",
			Name:      "transform_requests_total",
			Help:      "Transform API requests by outcome.",
		}, []string{"outcome"}),
		TransformRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ingcs",
			Name:      "transform_rows",
			Help:      "Rows per transform request.",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
	}
	m.registry.MustRegister(m.TransformRequests, m.TransformRows)
	return m
}
