package httpadapter

import (
	"net/http"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/session"
)

type uploadSlotView struct {
	Category domain.UploadCategory `json:"category"`
	File     *domain.UploadedFile  `json:"file,omitempty"`
}

func (s *server) handleUploadList(w http.ResponseWriter, r *http.Request) {
	s.respondUploads(w, r.PathValue("id"))
}

// handleUploadPut records one file in a category slot. Contents are never
// parsed; only the metadata is kept, and a re-upload replaces the slot.
func (s *server) handleUploadPut(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	category, err := domain.ParseUploadCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.uploadLimit)
	if err := r.ParseMultipartForm(s.uploadLimit); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing file field"))
		return
	}
	file.Close()

	record := session.UploadRecorded{
		Category: category,
		File: domain.UploadedFile{
			Name:       header.Filename,
			Size:       header.Size,
			UploadedAt: time.Now().UTC(),
		},
	}
	if err := s.sessions.Apply(id, record); err != nil {
		writeError(w, err)
		return
	}
	s.respondUploads(w, id)
}

func (s *server) handleUploadDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	category, err := domain.ParseUploadCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, err)
		return
	}

	occupied := false
	if err := s.sessions.View(id, func(st *session.State) error {
		_, occupied = st.Uploads[category]
		return nil
	}); err != nil {
		writeError(w, err)
		return
	}
	if !occupied {
		writeJSON(w, http.StatusNotFound, errorBody("no uploaded file in this category"))
		return
	}

	if err := s.sessions.Apply(id, session.UploadRemoved{Category: category}); err != nil {
		writeError(w, err)
		return
	}
	s.respondUploads(w, id)
}

func (s *server) respondUploads(w http.ResponseWriter, sessionID string) {
	var slots []uploadSlotView
	err := s.sessions.View(sessionID, func(st *session.State) error {
		slots = make([]uploadSlotView, 0, len(domain.UploadCategories))
		for _, category := range domain.UploadCategories {
			slots = append(slots, uploadSlotView{
				Category: category,
				File:     st.Uploads[category],
			})
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}
