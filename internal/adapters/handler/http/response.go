package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
)

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Message: message})
}

// respondDomainError maps the error taxonomy to transport statuses. Only the
// kind is inspected; storage failures stay opaque.
func respondDomainError(w http.ResponseWriter, err error) {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		respondError(w, http.StatusNotFound, err.Error())
	case domain.KindConflict:
		respondError(w, http.StatusConflict, err.Error())
	case domain.KindForbidden:
		respondError(w, http.StatusForbidden, err.Error())
	case domain.KindInvalidInput:
		respondError(w, http.StatusBadRequest, err.Error())
	case domain.KindStateConflict:
		if errors.Is(err, domain.ErrPollExpired) {
			respondError(w, http.StatusGone, err.Error())
			return
		}
		respondError(w, http.StatusLocked, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
