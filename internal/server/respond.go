package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviehub/internal/shared"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusFor maps a catalog error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrUserNotFound),
		errors.Is(err, shared.ErrMovieNotFound),
		errors.Is(err, shared.ErrEmptyCatalog):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateMovie):
		return http.StatusConflict
	case errors.Is(err, shared.ErrNetwork),
		errors.Is(err, shared.ErrIncompleteData):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	id := GetRequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", id, "status", status, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), RequestID: id})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}
