package ports

import (
	"context"

	"github.com/leadops/lead-console/internal/core/domain"
)

// TimelineFetcher retrieves the communication timeline for an identifier.
type TimelineFetcher interface {
	FetchTimeline(ctx context.Context, id domain.Identifier) ([]domain.TimelineEvent, error)
}

// SummaryGenerator requests an AI conversation summary for an identifier.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, id domain.Identifier) (domain.Summary, error)
}

// CallTranscriber converts one call recording reference into transcript text.
type CallTranscriber interface {
	TranscribeCall(ctx context.Context, req domain.TranscriptionRequest) (string, error)
}

// StorageAdmin exposes the storage-admin surface a collaborator service
// provides: aggregate stats and a manual cleanup action.
type StorageAdmin interface {
	StorageStats(ctx context.Context) (domain.StorageStats, error)
	StorageCleanup(ctx context.Context) (domain.StorageStats, error)
}

// FeedbackSink delivers operator feedback to the form-submission endpoint.
type FeedbackSink interface {
	SubmitFeedback(ctx context.Context, feedback domain.Feedback) error
}

// DocumentRenderer turns an export document into downloadable bytes.
type DocumentRenderer interface {
	Render(doc domain.ExportDocument) ([]byte, error)
}
