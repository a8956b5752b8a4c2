package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Requests   *prometheus.CounterVec
	Clustering *prometheus.HistogramVec
	Sessions   prometheus.Gauge
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hclus",
				Name:      "requests_total",
				Help:      "protocol requests by type and outcome",
			}, []string{"request", "outcome"}),
		Clustering: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hclus",
				Name:      "clustering_duration_seconds",
				Help:      "time spent building dendrograms",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			}, []string{"linkage"}),
		Sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "hclus",
				Name:      "sessions",
				Help:      "currently open sessions",
			}),
	}
}
