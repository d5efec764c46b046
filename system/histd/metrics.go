package histd

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	requests *prometheus.CounterVec
	pushes   prometheus.Counter
	rejected prometheus.Counter
	length   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "deltoid",
			Subsystem: "history",
			Name:      "requests_total",
			Help:      "Total JSON-RPC requests by method",
		}, []string{"method"}),
		pushes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "deltoid",
			Subsystem: "history",
			Name:      "pushes_total",
			Help:      "Total states pushed",
		}),
		rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: "deltoid",
			Subsystem: "history",
			Name:      "rejected_total",
			Help:      "Total deltas that failed to patch the current state",
		}),
		length: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "deltoid",
			Subsystem: "history",
			Name:      "length",
			Help:      "Number of snapshots in the history",
		}),
	}
}

// MetricsHandler serves the metrics of s in the Prometheus text format.
func (s *Server) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
