package httpadapter

import (
	"net/http"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
)

// storagePanelView is one service's panel: the raw stats plus the derived
// display fields. An unreachable service renders as unavailable instead of
// failing the whole response.
type storagePanelView struct {
	Available   bool                 `json:"available"`
	Stats       *domain.StorageStats `json:"stats,omitempty"`
	TotalItems  int                  `json:"total_items,omitempty"`
	SizeDisplay string               `json:"size_display,omitempty"`
	Status      string               `json:"status,omitempty"`
}

type storageStatsResponse struct {
	Services map[domain.StorageService]storagePanelView `json:"services"`
	TakenAt  time.Time                                  `json:"taken_at"`
}

func (s *server) handleStorageStats(w http.ResponseWriter, r *http.Request) {
	var snapshot map[domain.StorageService]*domain.StorageStats
	var taken time.Time

	if r.URL.Query().Get("cached") == "true" {
		snapshot, taken = s.storage.Snapshot()
	}
	if snapshot == nil {
		snapshot = s.storage.Stats(r.Context())
		taken = time.Now()
	}

	resp := storageStatsResponse{
		Services: make(map[domain.StorageService]storagePanelView, len(snapshot)),
		TakenAt:  taken,
	}
	for service, stats := range snapshot {
		resp.Services[service] = panelView(stats)
	}
	writeJSON(w, http.StatusOK, resp)
}

type cleanupRequest struct {
	Service string `json:"service"`
}

func (s *server) handleStorageCleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	service, err := domain.ParseStorageService(req.Service)
	if err != nil {
		writeError(w, err)
		return
	}

	stats, err := s.storage.Cleanup(r.Context(), service)
	s.metrics.RecordCleanup(serviceLabel, string(service), err)
	if err != nil {
		s.logger.Error("storage_cleanup_failed", "target", string(service), "error", err.Error())
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service": service,
		"panel":   panelView(&stats),
	})
}

func panelView(stats *domain.StorageStats) storagePanelView {
	if stats == nil {
		return storagePanelView{}
	}
	return storagePanelView{
		Available:   true,
		Stats:       stats,
		TotalItems:  stats.TotalItems(),
		SizeDisplay: domain.FormatSize(stats.TotalSizeMB),
		Status:      stats.Status(),
	}
}

type feedbackRequest struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Rating  int    `json:"rating"`
}

func (s *server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	err := s.feedback.Submit(r.Context(), domain.Feedback{
		Message: req.Message,
		Email:   req.Email,
		Rating:  req.Rating,
	})
	s.metrics.RecordFeedback(serviceLabel, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}
