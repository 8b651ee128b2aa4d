package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tinytribe-backend/internal/invite"
	"tinytribe-backend/internal/logger"
	"tinytribe-backend/internal/repository"
	"tinytribe-backend/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, invite.ErrMalformed):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrProfileNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNotMember),
		errors.Is(err, service.ErrNotRequester):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotInvited):
		status = http.StatusConflict
	case errors.Is(err, repository.ErrStoreUnavailable),
		errors.Is(err, service.ErrGroupCreationFailed):
		// Retryable: the store misbehaved, the client shows a retry alert.
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
