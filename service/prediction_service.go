package service

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loan-approval/domain"
	"loan-approval/knn"
	"loan-approval/metrics"
	"loan-approval/repository"
)

type PredictionService struct {
	model  *knn.Model
	repo   repository.PredictionRepository
	cache  repository.CacheRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewPredictionService wires the classifier context to history and cache storage.
func NewPredictionService(
	model *knn.Model,
	repo repository.PredictionRepository,
	cache repository.CacheRepository,
	logger *zap.Logger,
) *PredictionService {
	metrics.TrainingSetSize.Set(float64(model.Size()))
	return &PredictionService{
		model:  model,
		repo:   repo,
		cache:  cache,
		logger: logger.Named("prediction"),
		now:    time.Now,
	}
}

type PredictionOutcome struct {
	Record    domain.PredictionRecord `json:"record"`
	Vector    domain.NormalizedVector `json:"vector"`
	Neighbors []knn.Neighbor          `json:"neighbors"`
	Cached    bool                    `json:"cached"`
}

type Summary struct {
	Stats        domain.PredictionStats `json:"stats"`
	Accuracy     *float64               `json:"accuracy,omitempty"`
	K            int                    `json:"k"`
	TrainingSize int                    `json:"training_size"`
}

type ModelInfo struct {
	K                   int                                  `json:"k"`
	TrainingSize        int                                  `json:"training_size"`
	Approved            int                                  `json:"approved"`
	Rejected            int                                  `json:"rejected"`
	Accuracy            *float64                             `json:"accuracy,omitempty"`
	InputRanges         map[string]domain.InputRange         `json:"input_ranges,omitempty"`
	NormalizationRanges map[string]domain.NormalizationRange `json:"normalization_ranges"`
}

// Predict validates the raw applicant, runs it through the classifier and
// records the outcome in the history.
func (s *PredictionService) Predict(ctx context.Context, input domain.ApplicantInput) (PredictionOutcome, error) {
	start := time.Now()
	defer func() {
		metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	}()

	outcome, err := s.predict(ctx, input)
	if err != nil {
		code := domain.CodeOf(err)
		metrics.PredictionFailures.WithLabelValues(string(code)).Inc()
		s.logger.Warn("prediction failed", zap.String("code", string(code)), zap.Error(err))
		return PredictionOutcome{}, err
	}

	metrics.PredictionsTotal.WithLabelValues(string(outcome.Record.Decision)).Inc()
	s.logger.Info("prediction completed",
		zap.String("id", outcome.Record.ID),
		zap.String("decision", string(outcome.Record.Decision)),
		zap.Int("approved_votes", outcome.Record.ApprovedVotes),
		zap.Int("k", outcome.Record.K),
		zap.Bool("cached", outcome.Cached),
	)
	return outcome, nil
}

func (s *PredictionService) predict(ctx context.Context, input domain.ApplicantInput) (PredictionOutcome, error) {
	if err := ValidateApplicant(input); err != nil {
		return PredictionOutcome{}, err
	}

	vector, err := s.model.Normalize(input.Features())
	if err != nil {
		return PredictionOutcome{}, err
	}

	key := cacheKey(s.model.Fingerprint(), vector)
	classification, cached := s.cachedClassification(ctx, key)
	if !cached {
		classification, err = s.model.Classify(vector)
		if err != nil {
			return PredictionOutcome{}, err
		}
		s.storeClassification(ctx, key, classification)
	} else {
		metrics.PredictionCacheHits.Inc()
	}

	record := domain.PredictionRecord{
		ID:            uuid.NewString(),
		CreatedAt:     s.now().UTC(),
		Input:         input,
		Decision:      classification.Decision,
		ApprovedVotes: classification.ApprovedVotes,
		K:             classification.K,
	}

	// history is best effort; a failed save still returns the decision
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Warn("failed to save prediction", zap.String("id", record.ID), zap.Error(err))
	}

	return PredictionOutcome{
		Record:    record,
		Vector:    vector,
		Neighbors: classification.Neighbors,
		Cached:    cached,
	}, nil
}

func (s *PredictionService) cachedClassification(ctx context.Context, key string) (knn.Classification, bool) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return knn.Classification{}, false
	}
	var c knn.Classification
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return knn.Classification{}, false
	}
	return c, true
}

func (s *PredictionService) storeClassification(ctx context.Context, key string, c knn.Classification) {
	payload, err := json.Marshal(c)
	if err != nil {
		s.logger.Warn("failed to encode classification", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(payload)); err != nil {
		s.logger.Warn("failed to cache classification", zap.String("key", key), zap.Error(err))
	}
}

// cacheKey scopes the entry to the model fingerprint and encodes the vector
// with the shortest exact float form, so only bit-identical queries against
// the same training data share an entry.
func cacheKey(model string, vector domain.NormalizedVector) string {
	var b strings.Builder
	b.WriteString(model)
	for _, v := range vector {
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

// History returns the most recent predictions, newest first.
func (s *PredictionService) History(ctx context.Context, limit int) ([]domain.PredictionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.repo.List(ctx, limit)
}

// Summary backs the dashboard's decision chart.
func (s *PredictionService) Summary(ctx context.Context) (Summary, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Stats:        stats,
		Accuracy:     s.accuracy(),
		K:            s.model.K(),
		TrainingSize: s.model.Size(),
	}, nil
}

func (s *PredictionService) ModelInfo() ModelInfo {
	approved, rejected := s.model.LabelCounts()
	ranges := make(map[string]domain.NormalizationRange)
	for k, r := range s.model.Ranges() {
		ranges[string(k)] = r
	}
	return ModelInfo{
		K:                   s.model.K(),
		TrainingSize:        s.model.Size(),
		Approved:            approved,
		Rejected:            rejected,
		Accuracy:            s.accuracy(),
		InputRanges:         s.model.InputRanges(),
		NormalizationRanges: ranges,
	}
}

func (s *PredictionService) accuracy() *float64 {
	if acc, ok := s.model.Accuracy(); ok {
		return &acc
	}
	return nil
}

// ValidateApplicant rejects raw input the model cannot meaningfully score.
func ValidateApplicant(input domain.ApplicantInput) error {
	if input.Dependents < 0 || input.Dependents > MaxDependents {
		return domain.NewInvalidInputError("dependents", "dependents must be between 0 and "+strconv.Itoa(MaxDependents))
	}
	if input.Education != domain.Graduate && input.Education != domain.NotGraduate {
		return domain.NewInvalidInputError("education", "education must be Graduate or Not Graduate")
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"income", input.Income},
		{"loan_amount", input.LoanAmount},
		{"assets_total", input.AssetsTotal},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 || f.value > MaxCurrencyAmount {
			return domain.NewInvalidInputError(f.name, f.name+" must be a non-negative amount")
		}
	}
	if math.IsNaN(input.Cibil) || input.Cibil < MinCibilScore || input.Cibil > MaxCibilScore {
		return domain.NewInvalidInputError("cibil",
			"cibil must be between "+strconv.Itoa(MinCibilScore)+" and "+strconv.Itoa(MaxCibilScore))
	}
	return nil
}
