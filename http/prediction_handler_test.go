package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"loan-approval/domain"
	"loan-approval/knn"
	"loan-approval/repository"
	"loan-approval/service"
)

func newTestService(t *testing.T) *service.PredictionService {
	t.Helper()
	ranges := map[domain.FeatureKey]domain.NormalizationRange{
		domain.FeatureDependents:  {Min: 0, Max: 5},
		domain.FeatureIncome:      {Min: 2, Max: 99},
		domain.FeatureLoanAmount:  {Min: 3, Max: 395},
		domain.FeatureCibil:       {Min: 300, Max: 900},
		domain.FeatureAssetsTotal: {Min: 4, Max: 908},
	}
	records := []domain.TrainingRecord{
		{Features: []float64{0, 1, 0.5, 0.3, 0.8, 0.4}, Label: domain.LabelApproved},
		{Features: []float64{1, 0, 0.1, 0.7, 0.2, 0.1}, Label: domain.LabelRejected},
		{Features: []float64{0, 1, 0.6, 0.2, 0.9, 0.5}, Label: domain.LabelApproved},
		{Features: []float64{1, 1, 0.2, 0.6, 0.3, 0.2}, Label: domain.LabelRejected},
		{Features: []float64{0, 0, 0.55, 0.25, 0.85, 0.45}, Label: domain.LabelApproved},
	}
	model, err := knn.NewModel(ranges, records, knn.DefaultK, knn.WithAccuracy(91.8))
	require.NoError(t, err)

	return service.NewPredictionService(model, repository.NewPredictionRepositoryMemory(50),
		repository.NewMemoryCache(0), zap.NewNop())
}

func newTestRouter(t *testing.T, limiter *RateLimiter) http.Handler {
	return NewRouter(NewPredictionHandler(newTestService(t), zap.NewNop()), limiter, zap.NewNop())
}

const approvedBody = `{
	"dependents": 0,
	"education": "Graduate",
	"income": 5050000,
	"loan_amount": 12060000,
	"cibil": 780,
	"assets_total": 36560000
}`

func TestPredictHandler_OK(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/loan/predict", bytes.NewBufferString(approvedBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var outcome service.PredictionOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, domain.Approved, outcome.Record.Decision)
	assert.Equal(t, 5, outcome.Record.K)
	assert.Equal(t, domain.Graduate, outcome.Record.Input.Education)
}

func TestPredictHandler_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/loan/predict", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPredictHandler_BadRequest(t *testing.T) {
	const rest = `"dependents": 0, "income": 5050000, "loan_amount": 12060000, "assets_total": 36700000`
	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{invalid-json}`, "INVALID_INPUT"},
		{"unknown education", `{"education": "PhD", "cibil": 700, ` + rest + `}`, "INVALID_INPUT"},
		{"unknown field", `{"education": "Graduate", "cibil": 700, "loan_term": 12, ` + rest + `}`, "INVALID_INPUT"},
		{"cibil out of range", `{"education": "Graduate", "cibil": 100, ` + rest + `}`, "INVALID_INPUT"},
		{"negative income", `{"dependents": 0, "education": "Graduate", "cibil": 700, "income": -5, "loan_amount": 12060000, "assets_total": 36700000}`, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, nil)

			req := httptest.NewRequest(http.MethodPost, "/loan/predict", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestPredictHandler_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"only cibil", `{"cibil": 700}`, "dependents"},
		{"no education", `{"dependents": 0, "income": 5050000, "loan_amount": 12060000, "cibil": 780, "assets_total": 36700000}`, "education"},
		{"no assets", `{"dependents": 0, "education": "Graduate", "income": 5050000, "loan_amount": 12060000, "cibil": 780}`, "assets_total"},
		{"null income", `{"dependents": 0, "education": "Graduate", "income": null, "loan_amount": 12060000, "cibil": 780, "assets_total": 36700000}`, "income"},
		{"empty object", `{}`, "dependents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, nil)

			req := httptest.NewRequest(http.MethodPost, "/loan/predict", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "INVALID_INPUT", resp.Code)
			assert.Equal(t, tt.field, resp.Details)
		})
	}
}

func TestPredictHandler_ZeroValuesAreAccepted(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"dependents": 0, "education": "Not Graduate", "income": 0, "loan_amount": 0, "cibil": 300, "assets_total": 0}`
	req := httptest.NewRequest(http.MethodPost, "/loan/predict", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHistoryAndSummaryHandlers(t *testing.T) {
	router := newTestRouter(t, nil)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/loan/predict", bytes.NewBufferString(approvedBody))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/loan/history?limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		Predictions []domain.PredictionRecord `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history.Predictions, 2)

	req = httptest.NewRequest(http.MethodGet, "/loan/summary", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var summary service.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, int64(3), summary.Stats.Approved)
	require.NotNil(t, summary.Accuracy)
	assert.Equal(t, 91.8, *summary.Accuracy)
}

func TestHistoryHandler_BadLimit(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/loan/history?limit=zero", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModelAndHealthHandlers(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/model", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var info service.ModelInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, 5, info.TrainingSize)
	assert.Equal(t, 3, info.Approved)

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "loan_training_set_size")
}

func TestPredictHandler_RateLimited(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	fixedClock(limiter)
	router := newTestRouter(t, limiter)

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/loan/predict", bytes.NewBufferString(approvedBody))
		last = httptest.NewRecorder()
		router.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "30", last.Header().Get("Retry-After"))
}

func TestWriteDomainError_Config(t *testing.T) {
	w := httptest.NewRecorder()
	writeDomainError(w, domain.NewConfigError("training set is empty"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	writeDomainError(w, domain.NewDimensionMismatchError(6, 5, "query vector"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
