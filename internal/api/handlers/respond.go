package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/aalghefa/ecologic-backend/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response failed")
	}
}

// respondError translates service errors into HTTP statuses: boundary
// rejections and unreadable documents are the caller's to fix (400), a
// missing record is 404, missing object storage is 503, anything else is a
// logged 500.
func respondError(w http.ResponseWriter, err error) {
	if fe, ok := core.IsFieldError(err); ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: fe.Error()})
		return
	}

	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrEmptyDocument):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case core.IsNotFound(err):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrNoObjectStorage):
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	case errors.As(err, &maxBytes):
		respondJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "uploaded file is too large"})
	default:
		log.Error().Err(err).Msg("request failed")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeJSON reads the request body into v, treating malformed bodies as a
// boundary rejection.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return core.NewFieldError("body", "malformed JSON: "+err.Error())
	}
	return nil
}
