package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/leadops/lead-console/internal/core/domain"
)

type fakeFeedbackSink struct {
	received []domain.Feedback
	err      error
}

func (f *fakeFeedbackSink) SubmitFeedback(_ context.Context, feedback domain.Feedback) error {
	f.received = append(f.received, feedback)
	return f.err
}

func TestFeedbackRejectsEmptyMessage(t *testing.T) {
	sink := &fakeFeedbackSink{}
	uc := NewFeedbackUseCase(sink)

	for _, message := range []string{"", "   ", "\n\t"} {
		err := uc.Submit(context.Background(), domain.Feedback{Message: message})
		if !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("Submit(%q) error = %v, want invalid input", message, err)
		}
	}
	if len(sink.received) != 0 {
		t.Fatalf("sink received %d submissions for empty messages", len(sink.received))
	}
}

func TestFeedbackForwardsTrimmedMessage(t *testing.T) {
	sink := &fakeFeedbackSink{}
	uc := NewFeedbackUseCase(sink)

	feedback := domain.Feedback{Message: "  export button is great  ", Email: "op@example.com", Rating: 5}
	if err := uc.Submit(context.Background(), feedback); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	got := sink.received[0]
	if got.Message != "export button is great" {
		t.Fatalf("message = %q", got.Message)
	}
	if got.Email != "op@example.com" || got.Rating != 5 {
		t.Fatalf("feedback = %+v", got)
	}
}

func TestFeedbackWrapsSinkError(t *testing.T) {
	uc := NewFeedbackUseCase(&fakeFeedbackSink{err: errors.New("form endpoint 502")})
	err := uc.Submit(context.Background(), domain.Feedback{Message: "hello"})
	if !domain.IsKind(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
