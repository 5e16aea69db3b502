package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vkushnir/contactbook/internal/common"
)

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Status: status, Message: message, Data: data})
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, message, nil)
}

// sendServiceError translates sentinel errors from the service layer into
// HTTP statuses. This is the single place that mapping lives; anything
// unmatched is a 500 with a generic body, details stay in the server log.
func (s *Server) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		s.sendError(w, http.StatusBadRequest, "Validation failed")
	case errors.Is(err, common.ErrorConflict):
		s.sendError(w, http.StatusConflict, "Email already in use")
	case errors.Is(err, common.ErrTokenExpired):
		s.sendError(w, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, common.ErrInvalidToken):
		s.sendError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, common.ErrorUnauthorized):
		s.sendError(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, common.ErrorNotFound):
		s.sendError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrorUpstream):
		s.sendError(w, http.StatusBadGateway, "Upstream service unavailable")
	default:
		s.logger.Error(r.Context(), "unexpected error", "error", err.Error(), "path", r.URL.Path)
		s.sendError(w, http.StatusInternalServerError, "Internal server error")
	}
}
