package httpadapter

import (
	"net/http"
	"time"

	"github.com/leadops/lead-console/internal/core/usecase"
	"github.com/leadops/lead-console/internal/session"
)

type messagesResponse struct {
	Key     string `json:"key"`
	ShowAll bool   `json:"show_all"`
	usecase.MessageView
}

func (s *server) handleMessages(w http.ResponseWriter, r *http.Request) {
	s.respondMessages(w, r.PathValue("id"), r.PathValue("key"))
}

// handleMessagesToggle flips a pack between the truncated and the full view.
func (s *server) handleMessagesToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	key := r.PathValue("key")

	if !s.packExists(w, id, key) {
		return
	}
	if err := s.sessions.Apply(id, session.MessagesToggled{PackKey: key}); err != nil {
		writeError(w, err)
		return
	}
	s.respondMessages(w, id, key)
}

type dayToggleRequest struct {
	Day string `json:"day"`
}

// handleDayToggle selects or deselects a day chip in the full message view.
func (s *server) handleDayToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	key := r.PathValue("key")

	var req dayToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if _, err := time.Parse("2006-01-02", req.Day); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("day must be a YYYY-MM-DD date"))
		return
	}

	if !s.packExists(w, id, key) {
		return
	}
	if err := s.sessions.Apply(id, session.DayToggled{PackKey: key, Day: req.Day}); err != nil {
		writeError(w, err)
		return
	}
	s.respondMessages(w, id, key)
}

// packExists answers false after writing the error response itself.
func (s *server) packExists(w http.ResponseWriter, sessionID, key string) bool {
	found := false
	err := s.sessions.View(sessionID, func(st *session.State) error {
		_, found = usecase.PackByKey(st.Timeline, key)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return false
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorBody("no message pack at this key"))
		return false
	}
	return true
}

func (s *server) respondMessages(w http.ResponseWriter, sessionID, key string) {
	var resp messagesResponse
	found := false
	err := s.sessions.View(sessionID, func(st *session.State) error {
		pack, ok := usecase.PackByKey(st.Timeline, key)
		if !ok {
			return nil
		}
		found = true
		state := st.MessageState(key)
		resp = messagesResponse{
			Key:         key,
			ShowAll:     state.ShowAll,
			MessageView: usecase.BuildMessageView(pack.Messages, state.ShowAll, state.SelectedDay),
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorBody("no message pack at this key"))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
