package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/core/ports"
)

// FeedbackUseCase validates and forwards operator feedback.
type FeedbackUseCase struct {
	sink ports.FeedbackSink
}

func NewFeedbackUseCase(sink ports.FeedbackSink) *FeedbackUseCase {
	return &FeedbackUseCase{sink: sink}
}

// Submit rejects empty messages, then hands the feedback to the sink. The
// optional email rides along unvalidated; the form endpoint owns that check.
func (uc *FeedbackUseCase) Submit(ctx context.Context, feedback domain.Feedback) error {
	feedback.Message = strings.TrimSpace(feedback.Message)
	if feedback.Message == "" {
		return domain.WrapError(domain.ErrInvalidInput, "submit feedback", fmt.Errorf("message is required"))
	}

	if err := uc.sink.SubmitFeedback(ctx, feedback); err != nil {
		return domain.WrapError(domain.ErrUpstream, "submit feedback", err)
	}
	return nil
}
