package session

import (
	"github.com/leadops/lead-console/internal/core/domain"
)

// MessageListState is the per-pack message list control: truncated versus
// full, and the optional day filter that only applies to the full view.
type MessageListState struct {
	ShowAll     bool
	SelectedDay string
}

// State is everything one console session remembers between requests. It is
// only ever mutated through events so every transition lives in one place.
type State struct {
	Query   string
	LastRun string

	LookupInFlight bool
	Timeline       []domain.TimelineEvent
	TimelineError  string

	SummaryInFlight bool
	Summary         domain.Summary
	SummaryError    string

	Expanded map[string]bool
	Forced   map[string]bool

	Transcribing     bool
	Progress         int
	Transcripts      map[string]string
	TranscribeErrors []string

	OpenSections map[int]bool

	Messages map[string]*MessageListState

	Uploads map[domain.UploadCategory]*domain.UploadedFile

	ExportInFlight bool
}

func newState() *State {
	return &State{
		Expanded:     make(map[string]bool),
		Forced:       make(map[string]bool),
		Transcripts:  make(map[string]string),
		OpenSections: make(map[int]bool),
		Messages:     make(map[string]*MessageListState),
		Uploads:      make(map[domain.UploadCategory]*domain.UploadedFile),
	}
}

// IsExpanded reports the effective expand state of a timeline item: a forced
// flag wins, otherwise the operator's own toggle.
func (s *State) IsExpanded(key string) bool {
	return s.Forced[key] || s.Expanded[key]
}

// SectionOpen reports whether a summary section is open. Sections without a
// recorded toggle default to closed except the first.
func (s *State) SectionOpen(index int) bool {
	if open, ok := s.OpenSections[index]; ok {
		return open
	}
	return false
}

// MessageState returns the pack's message list controls, defaulting to the
// truncated view.
func (s *State) MessageState(packKey string) MessageListState {
	if state, ok := s.Messages[packKey]; ok {
		return *state
	}
	return MessageListState{}
}

func (s *State) messageState(packKey string) *MessageListState {
	state, ok := s.Messages[packKey]
	if !ok {
		state = &MessageListState{}
		s.Messages[packKey] = state
	}
	return state
}

// resetTimelineState drops everything derived from the previous timeline.
func (s *State) resetTimelineState() {
	s.Timeline = nil
	s.TimelineError = ""
	s.Expanded = make(map[string]bool)
	s.Forced = make(map[string]bool)
	s.Transcripts = make(map[string]string)
	s.TranscribeErrors = nil
	s.Transcribing = false
	s.Progress = 0
	s.Messages = make(map[string]*MessageListState)
}
