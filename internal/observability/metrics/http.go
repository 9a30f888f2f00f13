package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	lookupsTotal        *prometheus.CounterVec
	transcriptionsTotal *prometheus.CounterVec
	batchDuration       *prometheus.HistogramVec
	exportsTotal        *prometheus.CounterVec
	feedbackTotal       *prometheus.CounterVec
	cleanupTotal        *prometheus.CounterVec
	sessionsLive        prometheus.GaugeFunc
}

func NewHTTPServerMetrics(service string, liveSessions func() float64) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadconsole",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leadconsole",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "leadconsole",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	lookupsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadconsole",
			Subsystem: "lookup",
			Name:      "requests_total",
			Help:      "Total lead lookups by identifier kind and outcome.",
		},
		[]string{"service", "kind", "outcome"},
	)
	transcriptionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadconsole",
			Subsystem: "transcription",
			Name:      "calls_total",
			Help:      "Total transcription attempts by mode and outcome.",
		},
		[]string{"service", "mode", "outcome"},
	)
	batchDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "leadconsole",
			Subsystem: "transcription",
			Name:      "batch_duration_seconds",
			Help:      "Bulk transcription run duration in seconds.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadconsole",
			Subsystem: "export",
			Name:      "downloads_total",
			Help:      "Total summary exports by format and outcome.",
		},
		[]string{"service", "format", "outcome"},
	)
	feedbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadconsole",
			Subsystem: "feedback",
			Name:      "submissions_total",
			Help:      "Total feedback submissions by outcome.",
		},
		[]string{"service", "outcome"},
	)
	cleanupTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "leadconsole",
			Subsystem: "storage",
			Name:      "cleanups_total",
			Help:      "Total manual storage cleanups by target service and outcome.",
		},
		[]string{"service", "target", "outcome"},
	)
	sessionsLive := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "leadconsole",
			Subsystem: "session",
			Name:      "live",
			Help:      "Number of live console sessions.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
		liveSessions,
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		lookupsTotal,
		transcriptionsTotal,
		batchDuration,
		exportsTotal,
		feedbackTotal,
		cleanupTotal,
		sessionsLive,
	)

	return &HTTPServerMetrics{
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		lookupsTotal:        lookupsTotal,
		transcriptionsTotal: transcriptionsTotal,
		batchDuration:       batchDuration,
		exportsTotal:        exportsTotal,
		feedbackTotal:       feedbackTotal,
		cleanupTotal:        cleanupTotal,
		sessionsLive:        sessionsLive,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath folds session ids and item keys out of the path label so the
// cardinality stays bounded.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/v1/sessions/") {
		return path
	}
	rest := strings.TrimPrefix(path, "/v1/sessions/")
	parts := strings.Split(rest, "/")
	parts[0] = "{session_id}"
	for i := 1; i < len(parts); i++ {
		switch parts[i-1] {
		case "timeline", "messages", "sections", "uploads":
			if parts[i] != "" {
				parts[i] = "{key}"
			}
		}
	}
	return "/v1/sessions/" + strings.Join(parts, "/")
}

func (m *HTTPServerMetrics) RecordLookup(service, kind string, err error) {
	m.lookupsTotal.WithLabelValues(service, orUnknown(kind), outcome(err)).Inc()
}

func (m *HTTPServerMetrics) RecordTranscription(service, mode string, err error) {
	m.transcriptionsTotal.WithLabelValues(service, orUnknown(mode), outcome(err)).Inc()
}

func (m *HTTPServerMetrics) ObserveBatchDuration(service string, duration time.Duration) {
	m.batchDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordExport(service, format string, err error) {
	m.exportsTotal.WithLabelValues(service, orUnknown(format), outcome(err)).Inc()
}

func (m *HTTPServerMetrics) RecordFeedback(service string, err error) {
	m.feedbackTotal.WithLabelValues(service, outcome(err)).Inc()
}

func (m *HTTPServerMetrics) RecordCleanup(service, target string, err error) {
	m.cleanupTotal.WithLabelValues(service, orUnknown(target), outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}
