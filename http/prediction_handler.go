package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"loan-approval/domain"
	"loan-approval/service"
)

const maxRequestBody = 1 << 16

type PredictionHandler struct {
	service *service.PredictionService
	logger  *zap.Logger
}

func NewPredictionHandler(service *service.PredictionService, logger *zap.Logger) *PredictionHandler {
	return &PredictionHandler{service: service, logger: logger}
}

func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	var req predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, string(domain.ErrCodeInvalidInput), "invalid request body: "+err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	outcome, err := h.service.Predict(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

func (h *PredictionHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, string(domain.ErrCodeInvalidInput), "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.service.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "HISTORY_UNAVAILABLE", "history unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"predictions": records})
}

func (h *PredictionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to build summary", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "SUMMARY_UNAVAILABLE", "summary unavailable")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *PredictionHandler) Model(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.service.ModelInfo())
}
