package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/leadops/lead-console/internal/core/ports"
	"github.com/leadops/lead-console/internal/core/usecase"
	"github.com/leadops/lead-console/internal/observability/metrics"
	"github.com/leadops/lead-console/internal/session"
)

const serviceLabel = "console"

// TrafficConfig carries the traffic-control knobs of the API surface.
type TrafficConfig struct {
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxConcurrent    int
	MaxWaitForSlot   time.Duration
	UploadLimitBytes int64
}

// Dependencies bundles everything the HTTP surface calls into.
type Dependencies struct {
	Logger   *slog.Logger
	Metrics  *metrics.HTTPServerMetrics
	Sessions *session.Store

	Lookup      ports.LeadLookup
	Transcriber ports.TranscriptionOrchestrator
	Storage     ports.StorageOverview
	Feedback    ports.FeedbackService
	Export      *usecase.ExportUseCase
}

type server struct {
	logger   *slog.Logger
	metrics  *metrics.HTTPServerMetrics
	sessions *session.Store

	lookup      ports.LeadLookup
	transcriber ports.TranscriptionOrchestrator
	storage     ports.StorageOverview
	feedback    ports.FeedbackService
	export      *usecase.ExportUseCase

	uploadLimit int64
}

// NewRouter wires the full console surface behind the shared middleware chain:
// request id, access log, metrics, then the traffic gates.
func NewRouter(deps Dependencies, traffic TrafficConfig) http.Handler {
	s := &server{
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		sessions:    deps.Sessions,
		lookup:      deps.Lookup,
		transcriber: deps.Transcriber,
		storage:     deps.Storage,
		feedback:    deps.Feedback,
		export:      deps.Export,
		uploadLimit: traffic.UploadLimitBytes,
	}
	if s.uploadLimit <= 0 {
		s.uploadLimit = 32 << 20
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", deps.Metrics.Handler())

	mux.HandleFunc("POST /v1/sessions", s.handleSessionCreate)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleSessionDelete)

	mux.HandleFunc("POST /v1/sessions/{id}/lookup", s.handleLookup)
	mux.HandleFunc("GET /v1/sessions/{id}/timeline", s.handleTimeline)
	mux.HandleFunc("POST /v1/sessions/{id}/timeline/{key}/toggle", s.handleItemToggle)
	mux.HandleFunc("POST /v1/sessions/{id}/timeline/{key}/transcribe", s.handleTranscribeOne)
	mux.HandleFunc("POST /v1/sessions/{id}/transcribe", s.handleTranscribeBatch)

	mux.HandleFunc("POST /v1/sessions/{id}/summary", s.handleSummaryGenerate)
	mux.HandleFunc("GET /v1/sessions/{id}/summary/view", s.handleSummaryView)
	mux.HandleFunc("POST /v1/sessions/{id}/summary/sections/{index}/toggle", s.handleSectionToggle)
	mux.HandleFunc("GET /v1/sessions/{id}/export/{format}", s.handleExport)

	mux.HandleFunc("GET /v1/sessions/{id}/messages/{key}", s.handleMessages)
	mux.HandleFunc("POST /v1/sessions/{id}/messages/{key}/toggle", s.handleMessagesToggle)
	mux.HandleFunc("POST /v1/sessions/{id}/messages/{key}/day", s.handleDayToggle)

	mux.HandleFunc("GET /v1/sessions/{id}/uploads", s.handleUploadList)
	mux.HandleFunc("PUT /v1/sessions/{id}/uploads/{category}", s.handleUploadPut)
	mux.HandleFunc("DELETE /v1/sessions/{id}/uploads/{category}", s.handleUploadDelete)

	mux.HandleFunc("GET /v1/storage/stats", s.handleStorageStats)
	mux.HandleFunc("POST /v1/storage/cleanup", s.handleStorageCleanup)
	mux.HandleFunc("POST /v1/feedback", s.handleFeedback)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, traffic.MaxConcurrent, traffic.MaxWaitForSlot)
	handler = rateLimitMiddleware(handler, traffic.RateLimitRPS, traffic.RateLimitBurst)
	handler = deps.Metrics.Middleware(serviceLabel, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("write_response_failed", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(out)
}
