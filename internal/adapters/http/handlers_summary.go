package httpadapter

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/core/usecase"
	"github.com/leadops/lead-console/internal/session"
)

const summaryFailedMessage = "Error generating summary. Please try again."

type summaryResponse struct {
	InFlight bool   `json:"in_flight"`
	Error    string `json:"error,omitempty"`
	usecase.SummaryView
}

// handleSummaryGenerate runs the summary cycle for the session's current
// query. The cycle is independent of the timeline: it validates and fails on
// its own, leaving timeline state untouched.
func (s *server) handleSummaryGenerate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var query string
	if err := s.sessions.View(id, func(st *session.State) error {
		query = st.Query
		return nil
	}); err != nil {
		writeError(w, err)
		return
	}
	if !domain.ValidIdentifier(query) {
		writeJSON(w, http.StatusBadRequest, errorBody(invalidIdentifierMessage))
		return
	}

	if err := s.sessions.Apply(id, session.SummaryStarted{}); err != nil {
		writeError(w, err)
		return
	}

	summary, err := s.lookup.Summary(r.Context(), query)
	s.metrics.RecordLookup("summary", identifierKind(query), err)

	var applyErr error
	if err != nil {
		s.logger.Error("summary_generation_failed",
			"session_id", id,
			"kind", identifierKind(query),
			"error", err.Error(),
		)
		applyErr = s.sessions.Apply(id, session.SummaryFailed{Message: summaryFailedMessage})
	} else {
		applyErr = s.sessions.Apply(id, session.SummarySucceeded{Summary: summary})
	}
	if applyErr != nil {
		writeError(w, applyErr)
		return
	}

	s.respondSummary(w, id)
}

func (s *server) handleSummaryView(w http.ResponseWriter, r *http.Request) {
	s.respondSummary(w, r.PathValue("id"))
}

func (s *server) respondSummary(w http.ResponseWriter, sessionID string) {
	var resp summaryResponse
	err := s.sessions.View(sessionID, func(st *session.State) error {
		resp = summaryResponse{
			InFlight:    st.SummaryInFlight,
			Error:       st.SummaryError,
			SummaryView: usecase.BuildSummaryView(st.Summary, st.SectionOpen),
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSectionToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid section index"))
		return
	}

	if err := s.sessions.Apply(id, session.SectionToggled{Index: index}); err != nil {
		writeError(w, err)
		return
	}
	s.respondSummary(w, id)
}

// handleExport streams a summary download. Exports are serialized per session;
// the JSON variant is the stored record verbatim, the PDF renders every
// section expanded regardless of collapse state.
func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	format := r.PathValue("format")
	if format != "json" && format != "pdf" {
		writeJSON(w, http.StatusNotFound, errorBody("unknown export format"))
		return
	}

	if err := s.sessions.Apply(id, session.ExportStarted{}); err != nil {
		writeError(w, err)
		return
	}
	defer func() {
		_ = s.sessions.Apply(id, session.ExportFinished{})
	}()

	var summary domain.Summary
	if err := s.sessions.View(id, func(st *session.State) error {
		summary = st.Summary
		return nil
	}); err != nil {
		writeError(w, err)
		return
	}

	var file usecase.ExportFile
	var err error
	if format == "json" {
		file, err = s.export.ExportJSON(summary)
	} else {
		file, err = s.export.ExportPDF(summary)
	}
	s.metrics.RecordExport(serviceLabel, format, err)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		s.logger.Error("export_write_failed", "session_id", id, "format", format, "error", err.Error())
	}
}
