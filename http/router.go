package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter registers the dashboard API. limiter may be nil to disable rate limiting.
func NewRouter(handler *PredictionHandler, limiter *RateLimiter, logger *zap.Logger) http.Handler {
	predict := http.Handler(http.HandlerFunc(handler.Predict))
	if limiter != nil {
		predict = RateLimitMiddleware(limiter, predict)
	}

	mux := http.NewServeMux()
	mux.Handle("/loan/predict", predict)
	mux.HandleFunc("/loan/history", handler.History)
	mux.HandleFunc("/loan/summary", handler.Summary)
	mux.HandleFunc("/model", handler.Model)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	return LoggingMiddleware(logger, mux)
}
