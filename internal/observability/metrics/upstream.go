package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks the calls this service makes to its collaborators:
// the backend API, the transcription API and the feedback endpoint.
type UpstreamMetrics struct {
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight *prometheus.GaugeVec
}

// NewUpstreamMetrics registers the outbound-call collectors on the shared
// server registry so one scrape endpoint serves everything.
func NewUpstreamMetrics(server *HTTPServerMetrics) *UpstreamMetrics {
	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadconsole",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total upstream requests by target, operation and outcome.",
		},
		[]string{"target", "operation", "outcome"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leadconsole",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Upstream request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"target", "operation"},
	)
	requestInFlight := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "leadconsole",
			Subsystem: "upstream",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight upstream requests by target.",
		},
		[]string{"target"},
	)

	server.registry.MustRegister(requestTotal, requestDuration, requestInFlight)

	return &UpstreamMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
	}
}

func (m *UpstreamMetrics) Start(target string) {
	m.requestInFlight.WithLabelValues(target).Inc()
}

func (m *UpstreamMetrics) Finish(target, operation string, duration time.Duration, err error) {
	m.requestInFlight.WithLabelValues(target).Dec()
	m.requestTotal.WithLabelValues(target, operation, outcome(err)).Inc()
	m.requestDuration.WithLabelValues(target, operation).Observe(duration.Seconds())
}
