package session

import (
	"testing"

	"github.com/leadops/lead-console/internal/core/domain"
)

func apply(t *testing.T, s *State, events ...Event) {
	t.Helper()
	for _, event := range events {
		if err := event.Apply(s); err != nil {
			t.Fatalf("apply %T: %v", event, err)
		}
	}
}

func sampleEvents() []domain.TimelineEvent {
	return []domain.TimelineEvent{
		{Kind: domain.EventCall, Call: &domain.CallEvent{ID: "c1", RecordURL: "u"}},
		{Kind: domain.EventEmail, Email: &domain.EmailEvent{Subject: "hi"}},
	}
}

func TestLookupLifecycleResetsDerivedState(t *testing.T) {
	s := newState()
	apply(t, s,
		LookupStarted{Query: "+447912345678"},
		LookupSucceeded{Query: "+447912345678", Events: sampleEvents()},
		ItemToggled{Key: "call#0#c1"},
		TranscriptStored{Key: "call#0#c1", Text: "hello"},
	)

	if !s.IsExpanded("call#0#c1") {
		t.Fatalf("item should be expanded before the second lookup")
	}

	apply(t, s,
		LookupStarted{Query: "other@example.com"},
		LookupSucceeded{Query: "other@example.com", Events: nil},
	)

	if s.IsExpanded("call#0#c1") {
		t.Fatalf("expand state survived a new lookup")
	}
	if len(s.Transcripts) != 0 || s.Progress != 0 {
		t.Fatalf("transcription state survived a new lookup: %+v", s)
	}
	if s.LastRun != "other@example.com" {
		t.Fatalf("last run = %q", s.LastRun)
	}
}

func TestLookupRejectedWhileInFlight(t *testing.T) {
	s := newState()
	apply(t, s, LookupStarted{Query: "a@example.com"})

	if err := (LookupStarted{Query: "b@example.com"}).Apply(s); err == nil {
		t.Fatalf("second lookup accepted while one is in flight")
	}
	if s.Query != "a@example.com" {
		t.Fatalf("rejected event mutated state: %q", s.Query)
	}
}

func TestLookupFailedClearsTimeline(t *testing.T) {
	s := newState()
	apply(t, s,
		LookupStarted{Query: "a@example.com"},
		LookupSucceeded{Query: "a@example.com", Events: sampleEvents()},
		LookupStarted{Query: "a@example.com"},
		LookupFailed{Message: "Error fetching timeline: status 500"},
	)

	if len(s.Timeline) != 0 {
		t.Fatalf("failed lookup left the old timeline visible")
	}
	if s.TimelineError == "" {
		t.Fatalf("failure message missing")
	}
}

func TestSummaryLifecycle(t *testing.T) {
	s := newState()
	apply(t, s,
		SummaryStarted{},
		SummarySucceeded{Summary: domain.NewSummary([]byte(`{"conversation_summary":{"a":"x","b":"y"}}`))},
	)

	if !s.SectionOpen(0) || s.SectionOpen(1) {
		t.Fatalf("first section should start open: %+v", s.OpenSections)
	}

	apply(t, s, SectionToggled{Index: 1}, SectionToggled{Index: 0})
	if s.SectionOpen(0) || !s.SectionOpen(1) {
		t.Fatalf("section toggles not applied: %+v", s.OpenSections)
	}

	// Regeneration clears the stale summary before the request runs.
	apply(t, s, SummaryStarted{})
	if !s.Summary.Empty() || len(s.OpenSections) != 0 {
		t.Fatalf("stale summary visible during regeneration")
	}

	apply(t, s, SummaryFailed{Message: "Error generating summary: status 502"})
	if s.SummaryError == "" || !s.Summary.Empty() {
		t.Fatalf("summary failure state wrong: %+v", s)
	}
}

func TestSummaryFailureIndependentOfTimeline(t *testing.T) {
	s := newState()
	apply(t, s,
		LookupStarted{Query: "a@example.com"},
		LookupSucceeded{Query: "a@example.com", Events: sampleEvents()},
		SummaryStarted{},
		SummaryFailed{Message: "Error generating summary: boom"},
	)

	if len(s.Timeline) != 2 {
		t.Fatalf("summary failure touched the timeline")
	}
}

func TestItemToggleOverridesForcedExpand(t *testing.T) {
	s := newState()
	apply(t, s, TranscriptStored{Key: "call#0#c1", Text: "hello"})
	if !s.IsExpanded("call#0#c1") {
		t.Fatalf("transcript should force the item open")
	}

	apply(t, s, ItemToggled{Key: "call#0#c1"})
	if s.IsExpanded("call#0#c1") {
		t.Fatalf("operator collapse must beat the forced flag")
	}

	apply(t, s, ItemToggled{Key: "call#0#c1"})
	if !s.IsExpanded("call#0#c1") {
		t.Fatalf("re-toggle should expand again")
	}
}

func TestBatchFinishedKeepsTranscriptsVisible(t *testing.T) {
	s := newState()
	apply(t, s,
		BatchStarted{},
		TranscriptStored{Key: "call#0#c1", Text: "one"},
		BatchProgressed{Progress: 50},
		TranscriptStored{Key: "call#3#c2", Text: "two"},
		BatchProgressed{Progress: 100},
	)

	// Operator collapses the first item mid-run.
	apply(t, s, ItemToggled{Key: "call#0#c1"})

	apply(t, s, BatchFinished{Errors: nil})
	if s.Transcribing {
		t.Fatalf("batch still marked running")
	}
	if s.IsExpanded("call#0#c1") {
		t.Fatalf("collapsed item reopened after the batch")
	}
	if !s.IsExpanded("call#3#c2") {
		t.Fatalf("transcribed item collapsed after the batch")
	}
}

func TestBatchRejectedWhileRunning(t *testing.T) {
	s := newState()
	apply(t, s, BatchStarted{})
	if err := (BatchStarted{}).Apply(s); err == nil {
		t.Fatalf("second batch accepted while one is running")
	}
	if err := (LookupStarted{Query: "a@example.com"}).Apply(s); err == nil {
		t.Fatalf("lookup accepted while transcription is running")
	}
}

func TestMessageViewToggles(t *testing.T) {
	s := newState()
	key := "whatsapp_pack#0#idx0"

	apply(t, s, MessagesToggled{PackKey: key})
	if !s.MessageState(key).ShowAll {
		t.Fatalf("show all not set")
	}

	apply(t, s, DayToggled{PackKey: key, Day: "2024-03-01"})
	if s.MessageState(key).SelectedDay != "2024-03-01" {
		t.Fatalf("day not selected")
	}

	// Selecting the same day again deselects it.
	apply(t, s, DayToggled{PackKey: key, Day: "2024-03-01"})
	if s.MessageState(key).SelectedDay != "" {
		t.Fatalf("day not deselected")
	}

	// Collapsing the full view drops the filter too.
	apply(t, s, DayToggled{PackKey: key, Day: "2024-03-02"}, MessagesToggled{PackKey: key})
	state := s.MessageState(key)
	if state.ShowAll || state.SelectedDay != "" {
		t.Fatalf("collapse left filter state behind: %+v", state)
	}
}

func TestUploadLifecycle(t *testing.T) {
	s := newState()
	apply(t, s, UploadRecorded{Category: domain.UploadLeads, File: domain.UploadedFile{Name: "leads.csv", Size: 120}})

	// A re-upload replaces the slot wholesale.
	apply(t, s, UploadRecorded{Category: domain.UploadLeads, File: domain.UploadedFile{Name: "more.csv", Size: 80}})
	if file := s.Uploads[domain.UploadLeads]; file == nil || file.Name != "more.csv" {
		t.Fatalf("upload slot = %+v", file)
	}

	apply(t, s, UploadRemoved{Category: domain.UploadLeads})
	if _, ok := s.Uploads[domain.UploadLeads]; ok {
		t.Fatalf("slot not cleared")
	}

	if err := (UploadRemoved{Category: domain.UploadWhatsApp}).Apply(s); err == nil {
		t.Fatalf("removing an empty slot should error")
	}
}

func TestForcedSetAndReleaseLeaveManualToggleIntact(t *testing.T) {
	s := newState()

	// Item manually expanded before the call stays expanded after release.
	apply(t, s, ItemToggled{Key: "call#0#c1"}, ForcedSet{Key: "call#0#c1"}, ForcedReleased{Key: "call#0#c1"})
	if !s.IsExpanded("call#0#c1") {
		t.Fatalf("manual expand lost across force/release")
	}

	// Item that was closed returns to closed once the force is released.
	apply(t, s, ForcedSet{Key: "call#1#c2"})
	if !s.IsExpanded("call#1#c2") {
		t.Fatalf("force did not open the item")
	}
	apply(t, s, TranscriptStored{Key: "call#1#c2", Text: "x"}, ForcedReleased{Key: "call#1#c2"})
	if s.IsExpanded("call#1#c2") {
		t.Fatalf("release should restore the closed manual state")
	}
	if s.Transcripts["call#1#c2"] != "x" {
		t.Fatalf("transcript lost on release")
	}
}

func TestExportSerialized(t *testing.T) {
	s := newState()
	apply(t, s, ExportStarted{})
	if err := (ExportStarted{}).Apply(s); err == nil {
		t.Fatalf("second export accepted while one is running")
	}
	apply(t, s, ExportFinished{}, ExportStarted{})
}
