package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	httpadapter "github.com/leadops/lead-console/internal/adapters/http"
	"github.com/leadops/lead-console/internal/config"
	"github.com/leadops/lead-console/internal/core/usecase"
	"github.com/leadops/lead-console/internal/infrastructure/backendapi"
	"github.com/leadops/lead-console/internal/infrastructure/feedback"
	"github.com/leadops/lead-console/internal/infrastructure/pdfrender"
	"github.com/leadops/lead-console/internal/infrastructure/resilience"
	"github.com/leadops/lead-console/internal/infrastructure/transcription"
	"github.com/leadops/lead-console/internal/observability/logging"
	"github.com/leadops/lead-console/internal/observability/metrics"
	"github.com/leadops/lead-console/internal/session"
)

// App is the wired console: the HTTP handler plus the background pieces the
// entrypoint runs.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Handler  http.Handler
	Sessions *session.Store
}

// New wires configuration into the full dependency graph. Only the
// storage-admin surface goes through the resilience executor; the lookup,
// summary and transcription paths are single-attempt with no client timeout.
func New(cfg config.Config) *App {
	logger := logging.NewJSONLogger("lead-console", cfg.LogLevel)

	store := session.NewStore(time.Duration(cfg.SessionTTLMinutes)*time.Minute, logger)
	serverMetrics := metrics.NewHTTPServerMetrics("lead-console", func() float64 {
		return float64(store.Len())
	})
	upstreamMetrics := metrics.NewUpstreamMetrics(serverMetrics)

	backend := backendapi.New(cfg.BackendAPIURL, upstreamMetrics)
	transcriber := transcription.New(cfg.TranscriptionAPIURL, upstreamMetrics)
	sink := feedback.New(cfg.FeedbackEndpoint, upstreamMetrics)

	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:        cfg.RetryMaxAttempts,
		RetryInitialBackoff:     time.Duration(cfg.RetryInitialBackoffMS) * time.Millisecond,
		RetryMaxBackoff:         time.Duration(cfg.RetryMaxBackoffMS) * time.Millisecond,
		RetryMultiplier:         cfg.RetryMultiplier,
		BreakerEnabled:          cfg.BreakerEnabled,
		BreakerMinRequests:      uint32(cfg.BreakerMinRequests),
		BreakerFailureRatio:     cfg.BreakerFailureRatio,
		BreakerOpenTimeout:      time.Duration(cfg.BreakerOpenTimeoutSecs) * time.Second,
		BreakerHalfOpenMaxCalls: uint32(cfg.BreakerHalfOpenCalls),
	}, logger)

	storageUC := usecase.NewStorageUseCase(
		resilience.GuardStorageAdmin(backend, executor, "backend"),
		resilience.GuardStorageAdmin(transcriber, executor, "transcription"),
		time.Duration(cfg.CleanupRefreshSeconds)*time.Second,
		logger,
	)

	handler := httpadapter.NewRouter(httpadapter.Dependencies{
		Logger:      logger,
		Metrics:     serverMetrics,
		Sessions:    store,
		Lookup:      usecase.NewLookupUseCase(backend, backend),
		Transcriber: usecase.NewTranscribeUseCase(transcriber),
		Storage:     storageUC,
		Feedback:    usecase.NewFeedbackUseCase(sink),
		Export:      usecase.NewExportUseCase(pdfrender.New()),
	}, httpadapter.TrafficConfig{
		RateLimitRPS:     cfg.APIRateLimitRPS,
		RateLimitBurst:   cfg.APIRateLimitBurst,
		MaxConcurrent:    cfg.APIMaxConcurrent,
		MaxWaitForSlot:   time.Duration(cfg.APIMaxWaitMillis) * time.Millisecond,
		UploadLimitBytes: int64(cfg.UploadLimitMB) << 20,
	})

	return &App{
		Config:   cfg,
		Logger:   logger,
		Handler:  handler,
		Sessions: store,
	}
}
