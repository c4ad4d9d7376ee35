// Package knn is the loan decision engine: min/max feature normalization and
// a k-nearest-neighbors majority vote over a fixed training set. Everything
// here is pure and performs no I/O.
package knn

import (
	"math"

	"loan-approval/domain"
)

// ValidateRanges checks that every continuous feature has a finite, non-degenerate range.
// Ranges for other keys (the dataset also ships one for education) are ignored.
func ValidateRanges(ranges map[domain.FeatureKey]domain.NormalizationRange) error {
	for _, key := range domain.ContinuousFeatures {
		if _, err := rangeFor(ranges, key); err != nil {
			return err
		}
	}
	return nil
}

func rangeFor(
	ranges map[domain.FeatureKey]domain.NormalizationRange,
	key domain.FeatureKey,
) (domain.NormalizationRange, error) {
	r, ok := ranges[key]
	if !ok {
		return r, domain.NewConfigError("missing normalization range for %q", key)
	}
	if math.IsNaN(r.Min) || math.IsInf(r.Min, 0) || math.IsNaN(r.Max) || math.IsInf(r.Max, 0) {
		return r, domain.NewConfigError("normalization range for %q is not finite", key)
	}
	if r.Max <= r.Min {
		return r, domain.NewConfigError(
			"normalization range for %q is degenerate: max %g <= min %g", key, r.Max, r.Min)
	}
	return r, nil
}

// Normalize maps applicant features onto the training set's coordinate space.
// Continuous features become (v-min)/(max-min) without clamping, so values
// outside the training range land outside [0,1]. Education passes through.
func Normalize(
	features domain.ApplicantFeatures,
	ranges map[domain.FeatureKey]domain.NormalizationRange,
) (domain.NormalizedVector, error) {
	vector := make(domain.NormalizedVector, 0, domain.NumFeatures)
	for _, key := range domain.FeatureOrder {
		v, _ := features.Value(key)
		if key == domain.FeatureEducation {
			vector = append(vector, v)
			continue
		}
		r, err := rangeFor(ranges, key)
		if err != nil {
			return nil, err
		}
		vector = append(vector, (v-r.Min)/(r.Max-r.Min))
	}
	return vector, nil
}
