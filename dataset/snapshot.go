// Package dataset loads and prepares the static model data the classifier
// runs on. It is the only place the core's inputs touch the filesystem.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"loan-approval/domain"
	"loan-approval/knn"
)

// Snapshot mirrors model_data.json.
type Snapshot struct {
	TrainingData        [][]float64                          `json:"training_data_initial"`
	InputRanges         map[string]domain.InputRange         `json:"input_ranges,omitempty"`
	NormalizationRanges map[string]domain.NormalizationRange `json:"normalization_ranges"`
	InitialAccuracy     *float64                             `json:"initial_accuracy,omitempty"`
}

// Load reads and validates a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.Error{
			Code:    domain.ErrCodeConfig,
			Message: "cannot read model data",
			Details: err.Error(),
		}
	}
	return Parse(data)
}

// Decode reads a snapshot from r and validates it.
func Decode(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read model data: %w", err)
	}
	return Parse(data)
}

// Parse validates the JSON shape, decodes it and checks records and ranges,
// so that a snapshot returned without error always builds a model.
func Parse(data []byte) (*Snapshot, error) {
	if err := validateShape(data); err != nil {
		return nil, err
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &domain.Error{
			Code:    domain.ErrCodeConfig,
			Message: "cannot decode model data",
			Details: err.Error(),
		}
	}

	if _, err := s.Records(); err != nil {
		return nil, err
	}
	if err := knn.ValidateRanges(s.Ranges()); err != nil {
		return nil, err
	}
	return &s, nil
}

// Ranges returns the normalization ranges keyed by feature.
func (s *Snapshot) Ranges() map[domain.FeatureKey]domain.NormalizationRange {
	out := make(map[domain.FeatureKey]domain.NormalizationRange, len(s.NormalizationRanges))
	for k, r := range s.NormalizationRanges {
		out[domain.FeatureKey(k)] = r
	}
	return out
}

// Records splits each 7-tuple into its feature prefix and label.
func (s *Snapshot) Records() ([]domain.TrainingRecord, error) {
	if len(s.TrainingData) == 0 {
		return nil, domain.NewConfigError("training data is empty")
	}
	records := make([]domain.TrainingRecord, len(s.TrainingData))
	for i, row := range s.TrainingData {
		if len(row) != domain.NumFeatures+1 {
			return nil, domain.NewConfigError(
				"training row %d has %d values, want %d", i, len(row), domain.NumFeatures+1)
		}
		var label domain.Label
		switch row[domain.NumFeatures] {
		case 0:
			label = domain.LabelRejected
		case 1:
			label = domain.LabelApproved
		default:
			return nil, domain.NewConfigError(
				"training row %d has label %g, want 0 or 1", i, row[domain.NumFeatures])
		}
		records[i] = domain.TrainingRecord{
			Features: append([]float64(nil), row[:domain.NumFeatures]...),
			Label:    label,
		}
	}
	return records, nil
}

// Model builds the immutable classifier context with the given k.
func (s *Snapshot) Model(k int) (*knn.Model, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	opts := []knn.ModelOption{knn.WithInputRanges(s.InputRanges)}
	if s.InitialAccuracy != nil {
		opts = append(opts, knn.WithAccuracy(*s.InitialAccuracy))
	}
	return knn.NewModel(s.Ranges(), records, k, opts...)
}

// Write encodes the snapshot as indented JSON.
func Write(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
