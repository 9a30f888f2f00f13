package ports

import (
	"context"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
)

// LeadLookup is the inbound contract for the timeline and summary request
// cycles. Both validate the raw identifier before any network call.
type LeadLookup interface {
	Timeline(ctx context.Context, raw string) ([]domain.TimelineEvent, error)
	Summary(ctx context.Context, raw string) (domain.Summary, error)
}

// TranscriptionOrchestrator drives call transcription over timeline items.
// The observer sees every completed bulk item in order, transcript or error.
type TranscriptionOrchestrator interface {
	TranscribeBatch(ctx context.Context, events []domain.TimelineEvent, observe func(domain.BatchItem)) domain.BatchTranscription
	TranscribeOne(ctx context.Context, call domain.CallEvent) (string, error)
}

// StorageOverview aggregates the storage-admin panels of both services.
type StorageOverview interface {
	Stats(ctx context.Context) map[domain.StorageService]*domain.StorageStats
	Snapshot() (map[domain.StorageService]*domain.StorageStats, time.Time)
	Cleanup(ctx context.Context, service domain.StorageService) (domain.StorageStats, error)
}

// FeedbackService submits operator feedback.
type FeedbackService interface {
	Submit(ctx context.Context, feedback domain.Feedback) error
}
