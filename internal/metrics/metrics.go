package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Success = "ok"
	Failure = "error"
)

var Observer = NewMetrics(prometheus.DefaultRegisterer)

// Metrics records the activity of the clustering service.
type Metrics struct {
	prometheus Prometheus
}

// NewMetrics creates the metrics and registers them with the given registerer.
// A nil registerer keeps the metrics unregistered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		prometheus: NewPrometheusMetrics(),
	}
	if registerer != nil {
		registerer.MustRegister(m.prometheus.Requests, m.prometheus.Clustering, m.prometheus.Sessions)
	}
	return m
}

// Request counts a handled request.
func (m *Metrics) Request(request string, err error) {
	outcome := Success
	if err != nil {
		outcome = Failure
	}
	m.prometheus.Requests.WithLabelValues(request, outcome).Inc()
}

// Clustering tracks the duration of a dendrogram build.
func (m *Metrics) Clustering(linkage string, start time.Time) {
	m.prometheus.Clustering.WithLabelValues(linkage).Observe(time.Since(start).Seconds())
}

// Open tracks a new session.
func (m *Metrics) Open() {
	m.prometheus.Sessions.Inc()
}

// Close tracks a finished session.
func (m *Metrics) Close() {
	m.prometheus.Sessions.Dec()
}

// Handler exposes the metrics of the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
