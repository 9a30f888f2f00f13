package httpadapter

import (
	"net/http"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/infrastructure/resilience"
)

// mapErrorToHTTPStatus translates error kinds to status codes. ErrUpstream is
// checked before ErrTemporary: a wrapped upstream failure may carry both tags
// and should answer 502, not 503.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrConflict):
		return http.StatusConflict
	case resilience.IsCircuitOpen(err):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrUpstream):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), errorBody(err.Error()))
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}
