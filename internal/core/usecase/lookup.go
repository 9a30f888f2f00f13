package usecase

import (
	"context"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/core/ports"
)

// LookupUseCase drives the two independent request cycles against the backend
// service: timeline and summary. Both fail fast on an invalid identifier
// before any network call is made, and a failure of one cycle never touches
// the other's state.
type LookupUseCase struct {
	timelines ports.TimelineFetcher
	summaries ports.SummaryGenerator
}

func NewLookupUseCase(timelines ports.TimelineFetcher, summaries ports.SummaryGenerator) *LookupUseCase {
	return &LookupUseCase{
		timelines: timelines,
		summaries: summaries,
	}
}

func (uc *LookupUseCase) Timeline(ctx context.Context, raw string) ([]domain.TimelineEvent, error) {
	id, err := domain.ParseIdentifier(raw)
	if err != nil {
		return nil, err
	}

	events, err := uc.timelines.FetchTimeline(ctx, id)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUpstream, "fetch timeline", err)
	}
	return events, nil
}

func (uc *LookupUseCase) Summary(ctx context.Context, raw string) (domain.Summary, error) {
	id, err := domain.ParseIdentifier(raw)
	if err != nil {
		return domain.Summary{}, err
	}

	summary, err := uc.summaries.GenerateSummary(ctx, id)
	if err != nil {
		return domain.Summary{}, domain.WrapError(domain.ErrUpstream, "generate summary", err)
	}
	return summary, nil
}
