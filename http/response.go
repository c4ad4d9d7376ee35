package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"loan-approval/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeDomainError maps core failures onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	status := http.StatusBadRequest
	if de.Code == domain.ErrCodeConfig {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorResponse{
		Code:    string(de.Code),
		Message: de.Message,
		Details: de.Details,
	})
}
