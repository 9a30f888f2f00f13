package session

import (
	"fmt"

	"github.com/leadops/lead-console/internal/core/domain"
)

// Event is one state transition. Apply may reject the transition, typically
// because another operation of the same kind is still in flight; the state is
// untouched when it does.
type Event interface {
	Apply(s *State) error
}

// LookupStarted marks a timeline fetch in flight. A second lookup while one
// is running is rejected.
type LookupStarted struct {
	Query string
}

func (e LookupStarted) Apply(s *State) error {
	if s.LookupInFlight {
		return fmt.Errorf("lookup already in progress")
	}
	if s.Transcribing {
		return fmt.Errorf("transcription in progress")
	}
	s.LookupInFlight = true
	s.Query = e.Query
	return nil
}

// LookupSucceeded installs a fresh timeline and resets every piece of state
// derived from the old one.
type LookupSucceeded struct {
	Query  string
	Events []domain.TimelineEvent
}

func (e LookupSucceeded) Apply(s *State) error {
	s.LookupInFlight = false
	s.resetTimelineState()
	s.Timeline = e.Events
	s.LastRun = e.Query
	return nil
}

// LookupFailed clears the timeline and records the user-facing message.
type LookupFailed struct {
	Message string
}

func (e LookupFailed) Apply(s *State) error {
	s.LookupInFlight = false
	s.resetTimelineState()
	s.TimelineError = e.Message
	return nil
}

// SummaryStarted clears the previous summary before the new request runs, so
// a slow regeneration never shows stale sections.
type SummaryStarted struct{}

func (e SummaryStarted) Apply(s *State) error {
	if s.SummaryInFlight {
		return fmt.Errorf("summary already in progress")
	}
	s.SummaryInFlight = true
	s.Summary = domain.Summary{}
	s.SummaryError = ""
	s.OpenSections = make(map[int]bool)
	return nil
}

// SummarySucceeded stores the summary and opens its first section.
type SummarySucceeded struct {
	Summary domain.Summary
}

func (e SummarySucceeded) Apply(s *State) error {
	s.SummaryInFlight = false
	s.Summary = e.Summary
	s.SummaryError = ""
	s.OpenSections = map[int]bool{0: true}
	return nil
}

type SummaryFailed struct {
	Message string
}

func (e SummaryFailed) Apply(s *State) error {
	s.SummaryInFlight = false
	s.Summary = domain.Summary{}
	s.SummaryError = e.Message
	return nil
}

// ItemToggled flips one timeline item's expand state. Toggling an item that
// is only open because of a forced flag records an explicit collapse.
type ItemToggled struct {
	Key string
}

func (e ItemToggled) Apply(s *State) error {
	if s.Forced[e.Key] {
		delete(s.Forced, e.Key)
		s.Expanded[e.Key] = false
		return nil
	}
	s.Expanded[e.Key] = !s.Expanded[e.Key]
	return nil
}

// SectionToggled flips one summary section.
type SectionToggled struct {
	Index int
}

func (e SectionToggled) Apply(s *State) error {
	s.OpenSections[e.Index] = !s.OpenSections[e.Index]
	return nil
}

// MessagesToggled flips a pack between the truncated and the full message
// view. Leaving the full view drops the day filter.
type MessagesToggled struct {
	PackKey string
}

func (e MessagesToggled) Apply(s *State) error {
	state := s.messageState(e.PackKey)
	state.ShowAll = !state.ShowAll
	if !state.ShowAll {
		state.SelectedDay = ""
	}
	return nil
}

// DayToggled selects a day chip in the full message view; selecting the
// already-selected day deselects it.
type DayToggled struct {
	PackKey string
	Day     string
}

func (e DayToggled) Apply(s *State) error {
	state := s.messageState(e.PackKey)
	if state.SelectedDay == e.Day {
		state.SelectedDay = ""
		return nil
	}
	state.SelectedDay = e.Day
	return nil
}

// BatchStarted marks a bulk transcription run in flight and clears the
// previous run's errors.
type BatchStarted struct{}

func (e BatchStarted) Apply(s *State) error {
	if s.Transcribing {
		return fmt.Errorf("transcription already in progress")
	}
	s.Transcribing = true
	s.Progress = 0
	s.TranscribeErrors = nil
	return nil
}

type BatchProgressed struct {
	Progress int
}

func (e BatchProgressed) Apply(s *State) error {
	s.Progress = e.Progress
	return nil
}

// TranscriptStored records one finished transcript under its display key and
// force-expands the item so the text is visible.
type TranscriptStored struct {
	Key  string
	Text string
}

func (e TranscriptStored) Apply(s *State) error {
	s.Transcripts[e.Key] = e.Text
	s.Forced[e.Key] = true
	return nil
}

// BatchFinished ends the run and releases the forced expands; items the
// operator collapsed during the run stay collapsed, everything else stays
// open through the regular expand map.
type BatchFinished struct {
	Errors []string
}

func (e BatchFinished) Apply(s *State) error {
	s.Transcribing = false
	s.TranscribeErrors = e.Errors
	for key := range s.Forced {
		if !s.Expanded[key] {
			s.Expanded[key] = true
		}
	}
	s.Forced = make(map[string]bool)
	return nil
}

// ForcedSet forces one item open for the duration of an individual
// transcription call, without touching the operator's own toggle.
type ForcedSet struct {
	Key string
}

func (e ForcedSet) Apply(s *State) error {
	s.Forced[e.Key] = true
	return nil
}

// ForcedReleased drops one item's forced-expand flag, leaving the manual
// toggle intact. Individual transcription uses this pair; bulk runs release
// through BatchFinished instead, which carries transcripts over into the
// expand map.
type ForcedReleased struct {
	Key string
}

func (e ForcedReleased) Apply(s *State) error {
	delete(s.Forced, e.Key)
	return nil
}

// UploadRecorded fills one category slot. A re-upload replaces the slot
// wholesale.
type UploadRecorded struct {
	Category domain.UploadCategory
	File     domain.UploadedFile
}

func (e UploadRecorded) Apply(s *State) error {
	file := e.File
	s.Uploads[e.Category] = &file
	return nil
}

// UploadRemoved clears one category slot.
type UploadRemoved struct {
	Category domain.UploadCategory
}

func (e UploadRemoved) Apply(s *State) error {
	if _, ok := s.Uploads[e.Category]; !ok {
		return fmt.Errorf("no uploaded file in category %q", e.Category)
	}
	delete(s.Uploads, e.Category)
	return nil
}

// ExportStarted serializes export requests per session.
type ExportStarted struct{}

func (e ExportStarted) Apply(s *State) error {
	if s.ExportInFlight {
		return fmt.Errorf("export already in progress")
	}
	s.ExportInFlight = true
	return nil
}

type ExportFinished struct{}

func (e ExportFinished) Apply(s *State) error {
	s.ExportInFlight = false
	return nil
}
