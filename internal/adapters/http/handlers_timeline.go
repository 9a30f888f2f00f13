package httpadapter

import (
	"errors"
	"net/http"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/core/usecase"
	"github.com/leadops/lead-console/internal/session"
)

const (
	invalidIdentifierMessage = "Please enter a valid phone number or email address."
	lookupFailedMessage      = "Error fetching timeline. Please try again."
)

func (s *server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	id := s.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (s *server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

type lookupRequest struct {
	Query string `json:"query"`
}

// timelineResponse is the rendered timeline plus the session fields the
// dashboard displays around it.
type timelineResponse struct {
	Query   string `json:"query"`
	LastRun string `json:"last_run,omitempty"`
	Error   string `json:"error,omitempty"`
	usecase.TimelineView
}

func (s *server) handleLookup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req lookupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if !domain.ValidIdentifier(req.Query) {
		writeJSON(w, http.StatusBadRequest, errorBody(invalidIdentifierMessage))
		return
	}

	if err := s.sessions.Apply(id, session.LookupStarted{Query: req.Query}); err != nil {
		writeError(w, err)
		return
	}

	events, err := s.lookup.Timeline(r.Context(), req.Query)
	s.metrics.RecordLookup("timeline", identifierKind(req.Query), err)

	var applyErr error
	if err != nil {
		s.logger.Error("timeline_fetch_failed",
			"session_id", id,
			"kind", identifierKind(req.Query),
			"error", err.Error(),
		)
		applyErr = s.sessions.Apply(id, session.LookupFailed{Message: lookupFailedMessage})
	} else {
		applyErr = s.sessions.Apply(id, session.LookupSucceeded{Query: req.Query, Events: events})
	}
	if applyErr != nil {
		writeError(w, applyErr)
		return
	}

	s.respondTimeline(w, id)
}

func (s *server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	s.respondTimeline(w, r.PathValue("id"))
}

func (s *server) respondTimeline(w http.ResponseWriter, sessionID string) {
	var resp timelineResponse
	err := s.sessions.View(sessionID, func(st *session.State) error {
		resp = timelineResponse{
			Query:   st.Query,
			LastRun: st.LastRun,
			Error:   st.TimelineError,
			TimelineView: usecase.TimelineView{
				EventCount:       len(st.Timeline),
				Items:            usecase.BuildTimelineView(st.Timeline, st.IsExpanded, st.Transcripts),
				Transcribing:     st.Transcribing,
				Progress:         st.Progress,
				TranscribeErrors: st.TranscribeErrors,
			},
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleItemToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	key := r.PathValue("key")

	known := false
	err := s.sessions.View(id, func(st *session.State) error {
		for position, event := range st.Timeline {
			if domain.DisplayKey(event, position) == key {
				known = true
				break
			}
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if !known {
		writeJSON(w, http.StatusNotFound, errorBody("no timeline item at this key"))
		return
	}

	if err := s.sessions.Apply(id, session.ItemToggled{Key: key}); err != nil {
		writeError(w, err)
		return
	}
	s.respondTimeline(w, id)
}

type transcriptResponse struct {
	Key        string `json:"key"`
	Transcript string `json:"transcript,omitempty"`
	Error      string `json:"error,omitempty"`
}

// handleTranscribeOne transcribes a single call. The item is force-expanded
// for the duration of the request so a concurrent timeline view shows the
// in-progress state; failures answer 200 with the message inline, the way the
// dashboard renders them under the item.
func (s *server) handleTranscribeOne(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	key := r.PathValue("key")

	var call *domain.CallEvent
	err := s.sessions.View(id, func(st *session.State) error {
		if found, ok := usecase.CallByKey(st.Timeline, key); ok {
			copied := *found
			call = &copied
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if call == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no call at this key"))
		return
	}
	if call.RecordURL == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("call has no recording"))
		return
	}

	if err := s.sessions.Apply(id, session.ForcedSet{Key: key}); err != nil {
		writeError(w, err)
		return
	}

	text, err := s.transcriber.TranscribeOne(r.Context(), *call)
	s.metrics.RecordTranscription(serviceLabel, "single", err)
	if err != nil {
		_ = s.sessions.Apply(id, session.ForcedReleased{Key: key})
		writeJSON(w, http.StatusOK, transcriptResponse{Key: key, Error: usecase.FailureMessage(err)})
		return
	}

	if err := s.sessions.Apply(id,
		session.TranscriptStored{Key: key, Text: text},
		session.ForcedReleased{Key: key},
	); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{Key: key, Transcript: text})
}

// handleTranscribeBatch runs bulk transcription synchronously. Transcripts and
// progress land in the session after every item, so a concurrent timeline view
// tracks the run; the response carries the final state.
func (s *server) handleTranscribeBatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.sessions.Apply(id, session.BatchStarted{}); err != nil {
		writeError(w, err)
		return
	}

	var events []domain.TimelineEvent
	if err := s.sessions.View(id, func(st *session.State) error {
		events = st.Timeline
		return nil
	}); err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	result := s.transcriber.TranscribeBatch(r.Context(), events, func(item domain.BatchItem) {
		var itemErr error
		updates := []session.Event{session.BatchProgressed{Progress: item.Progress}}
		if item.ErrMessage == "" {
			updates = append(updates, session.TranscriptStored{Key: item.Key, Text: item.Transcript})
		} else {
			itemErr = errors.New(item.ErrMessage)
		}
		_ = s.sessions.Apply(id, updates...)
		s.metrics.RecordTranscription(serviceLabel, "bulk", itemErr)
	})
	s.metrics.ObserveBatchDuration(serviceLabel, time.Since(start))

	if err := s.sessions.Apply(id, session.BatchFinished{Errors: result.Errors}); err != nil {
		writeError(w, err)
		return
	}
	s.respondTimeline(w, id)
}

func identifierKind(raw string) string {
	id, err := domain.ParseIdentifier(raw)
	if err != nil {
		return ""
	}
	return string(id.Kind)
}
