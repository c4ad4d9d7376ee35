package domain

type FeatureKey string

const (
	FeatureDependents  FeatureKey = "dependents"
	FeatureEducation   FeatureKey = "education"
	FeatureIncome      FeatureKey = "income"
	FeatureLoanAmount  FeatureKey = "loan_amount"
	FeatureCibil       FeatureKey = "cibil"
	FeatureAssetsTotal FeatureKey = "assets_total"
)

// NumFeatures is the width of a feature vector; a training tuple carries one
// more slot for the label.
const NumFeatures = 6

// FeatureOrder is the column order of training records and normalized vectors.
var FeatureOrder = []FeatureKey{
	FeatureDependents,
	FeatureEducation,
	FeatureIncome,
	FeatureLoanAmount,
	FeatureCibil,
	FeatureAssetsTotal,
}

// ContinuousFeatures are the keys rescaled with a NormalizationRange.
// Education is binary and passes through unchanged.
var ContinuousFeatures = []FeatureKey{
	FeatureDependents,
	FeatureIncome,
	FeatureLoanAmount,
	FeatureCibil,
	FeatureAssetsTotal,
}

type NormalizationRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// InputRange describes a raw dataset column for input hints in the UI.
type InputRange struct {
	Min  int64 `json:"min"`
	Max  int64 `json:"max"`
	Step int64 `json:"step"`
}

type Label int

const (
	LabelRejected Label = 0
	LabelApproved Label = 1
)

type TrainingRecord struct {
	Features []float64
	Label    Label
}

type NormalizedVector []float64
