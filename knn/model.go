package knn

import (
	"encoding/binary"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"loan-approval/domain"
)

// Model is the immutable session context: validated normalization ranges,
// the training set and k. It is built once after a successful load and can be
// shared between goroutines without locking.
type Model struct {
	ranges      map[domain.FeatureKey]domain.NormalizationRange
	records     []domain.TrainingRecord
	k           int
	accuracy    float64
	hasAccuracy bool
	inputRanges map[string]domain.InputRange
	fingerprint string
}

type ModelOption func(*Model)

// WithAccuracy attaches the externally computed headline accuracy (percent).
func WithAccuracy(accuracy float64) ModelOption {
	return func(m *Model) {
		m.accuracy = accuracy
		m.hasAccuracy = true
	}
}

// WithInputRanges attaches the raw per-column ranges shown as input hints.
func WithInputRanges(ranges map[string]domain.InputRange) ModelOption {
	return func(m *Model) {
		m.inputRanges = maps.Clone(ranges)
	}
}

// NewModel validates ranges, records and k and returns a ConfigError for
// anything that would make a later prediction fail or misbehave.
func NewModel(
	ranges map[domain.FeatureKey]domain.NormalizationRange,
	records []domain.TrainingRecord,
	k int,
	opts ...ModelOption,
) (*Model, error) {
	if err := ValidateRanges(ranges); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.NewConfigError("training set is empty")
	}
	if k < 1 || k > len(records) {
		return nil, domain.NewConfigError("k must be in [1, %d], got %d", len(records), k)
	}

	copied := make([]domain.TrainingRecord, len(records))
	for i, rec := range records {
		if len(rec.Features) != domain.NumFeatures {
			return nil, domain.NewConfigError(
				"training record %d has %d features, want %d", i, len(rec.Features), domain.NumFeatures)
		}
		for j, v := range rec.Features {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, domain.NewConfigError("training record %d feature %d is not finite", i, j)
			}
		}
		if rec.Label != domain.LabelApproved && rec.Label != domain.LabelRejected {
			return nil, domain.NewConfigError("training record %d has label %d, want 0 or 1", i, rec.Label)
		}
		copied[i] = domain.TrainingRecord{
			Features: append([]float64(nil), rec.Features...),
			Label:    rec.Label,
		}
	}

	m := &Model{
		ranges:  maps.Clone(ranges),
		records: copied,
		k:       k,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.fingerprint = fingerprint(m.ranges, m.records, k)
	return m, nil
}

// fingerprint hashes everything that influences a decision: k, the
// continuous ranges in key order and every record in training order.
func fingerprint(
	ranges map[domain.FeatureKey]domain.NormalizationRange,
	records []domain.TrainingRecord,
	k int,
) string {
	h := xxhash.New()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}

	write(uint64(k))
	keys := slices.Sorted(maps.Keys(ranges))
	for _, key := range keys {
		if !slices.Contains(domain.ContinuousFeatures, key) {
			continue
		}
		_, _ = h.WriteString(string(key))
		write(math.Float64bits(ranges[key].Min))
		write(math.Float64bits(ranges[key].Max))
	}
	write(uint64(len(records)))
	for _, rec := range records {
		for _, v := range rec.Features {
			write(math.Float64bits(v))
		}
		write(uint64(rec.Label))
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

func (m *Model) Normalize(features domain.ApplicantFeatures) (domain.NormalizedVector, error) {
	return Normalize(features, m.ranges)
}

func (m *Model) Classify(vector domain.NormalizedVector) (Classification, error) {
	return Classify(vector, m.records, m.k)
}

func (m *Model) Predict(vector domain.NormalizedVector) (domain.Decision, error) {
	return Predict(vector, m.records, m.k)
}

func (m *Model) K() int { return m.k }

// Fingerprint identifies the ranges, training set and k this model decides with.
// Two models with the same fingerprint return the same decision for every input.
func (m *Model) Fingerprint() string { return m.fingerprint }

func (m *Model) Size() int { return len(m.records) }

// Accuracy returns the supplied headline accuracy, if any. It is informational only.
func (m *Model) Accuracy() (float64, bool) { return m.accuracy, m.hasAccuracy }

func (m *Model) InputRanges() map[string]domain.InputRange { return maps.Clone(m.inputRanges) }

func (m *Model) Ranges() map[domain.FeatureKey]domain.NormalizationRange { return maps.Clone(m.ranges) }

// LabelCounts returns how many training records are approved and rejected.
func (m *Model) LabelCounts() (approved, rejected int) {
	for _, rec := range m.records {
		if rec.Label == domain.LabelApproved {
			approved++
		} else {
			rejected++
		}
	}
	return approved, rejected
}
