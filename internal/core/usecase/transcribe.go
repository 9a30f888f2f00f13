package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/core/ports"
)

const transcribeFallbackMessage = "Failed to transcribe"

// TranscribeUseCase orchestrates call transcription. Bulk runs are strictly
// sequential: one request in flight, items in timeline order, partial failure
// never aborts the batch. There is no retry and no client-side timeout, so a
// hung upstream call blocks that item and everything after it.
type TranscribeUseCase struct {
	transcriber ports.CallTranscriber
}

func NewTranscribeUseCase(transcriber ports.CallTranscriber) *TranscribeUseCase {
	return &TranscribeUseCase{transcriber: transcriber}
}

// EligibleCall is a call event with a recording reference, addressed by its
// display key.
type EligibleCall struct {
	Key  string
	Call domain.CallEvent
}

// EligibleCalls filters the timeline down to transcribable items in order.
func EligibleCalls(events []domain.TimelineEvent) []EligibleCall {
	var calls []EligibleCall
	for position, event := range events {
		if event.Kind != domain.EventCall || event.Call.RecordURL == "" {
			continue
		}
		calls = append(calls, EligibleCall{
			Key:  domain.DisplayKey(event, position),
			Call: *event.Call,
		})
	}
	return calls
}

// TranscribeBatch processes every eligible call sequentially. Progress is
// round(completed/total*100), reported after every item whether it succeeded
// or not; with zero eligible items progress stays 0 and no error is reported.
// The observer fires once per completed item, in order, so a caller can make
// transcripts visible before the batch finishes.
func (uc *TranscribeUseCase) TranscribeBatch(
	ctx context.Context,
	events []domain.TimelineEvent,
	observe func(domain.BatchItem),
) domain.BatchTranscription {
	result := domain.BatchTranscription{
		Transcripts: make(map[string]string),
	}

	calls := EligibleCalls(events)
	if len(calls) == 0 {
		return result
	}

	completed := 0
	for _, eligible := range calls {
		item := domain.BatchItem{
			Key:    eligible.Key,
			CallID: eligible.Call.ID,
		}

		text, err := uc.TranscribeOne(ctx, eligible.Call)
		if err != nil {
			item.ErrMessage = FailureMessage(err)
			result.Errors = append(result.Errors, fmt.Sprintf("Call %s: %s", eligible.Call.ID, item.ErrMessage))
		} else {
			item.Transcript = text
			result.Transcripts[eligible.Key] = text
		}

		completed++
		result.Progress = int(math.Round(float64(completed) / float64(len(calls)) * 100))
		item.Progress = result.Progress
		if observe != nil {
			observe(item)
		}
	}
	return result
}

// TranscribeOne issues a single transcription request for a call.
func (uc *TranscribeUseCase) TranscribeOne(ctx context.Context, call domain.CallEvent) (string, error) {
	return uc.transcriber.TranscribeCall(ctx, domain.TranscriptionRequest{
		RecordURL:    call.RecordURL,
		MobileNumber: call.ToNumber,
		CallID:       call.ID,
	})
}

// FailureMessage is the user-facing form of a transcription error. The
// transcription service answers plain text, so the error message is shown as
// is; a blank message falls back to a fixed string.
func FailureMessage(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return transcribeFallbackMessage
	}
	return msg
}
