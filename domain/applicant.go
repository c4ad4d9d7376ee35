package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CurrencyScale converts raw currency amounts (rupees) into the lakh units
// the training set was built with. Dataset preparation and runtime feature
// building must both divide by this value.
const CurrencyScale = 100_000.0

type Education int

const (
	NotGraduate Education = iota
	Graduate
)

// ParseEducation maps the free-form education values found in the dataset
// and in requests onto the enum.
func ParseEducation(s string) (Education, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "graduate", "grad", "g":
		return Graduate, nil
	case "not graduate", "not_graduate", "not-graduate", "ng":
		return NotGraduate, nil
	}
	return NotGraduate, fmt.Errorf("unknown education %q", s)
}

// Encode returns the numeric value fed to the model: 1 for Graduate, 0 otherwise.
func (e Education) Encode() float64 {
	if e == Graduate {
		return 1
	}
	return 0
}

func (e Education) String() string {
	if e == Graduate {
		return "Graduate"
	}
	return "Not Graduate"
}

func (e Education) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Education) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("education must be a string: %w", err)
	}
	parsed, err := ParseEducation(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ApplicantInput is the raw applicant as entered in the dashboard.
// Currency fields are in rupees.
type ApplicantInput struct {
	Dependents  int       `json:"dependents"`
	Education   Education `json:"education"`
	Income      float64   `json:"income"`
	LoanAmount  float64   `json:"loan_amount"`
	Cibil       float64   `json:"cibil"`
	AssetsTotal float64   `json:"assets_total"`
}

// ApplicantFeatures holds the applicant in model units, before min/max scaling.
type ApplicantFeatures struct {
	Dependents  float64
	Education   float64
	Income      float64
	LoanAmount  float64
	Cibil       float64
	AssetsTotal float64
}

// Features encodes education and converts currency fields with CurrencyScale.
func (a ApplicantInput) Features() ApplicantFeatures {
	return ApplicantFeatures{
		Dependents:  float64(a.Dependents),
		Education:   a.Education.Encode(),
		Income:      a.Income / CurrencyScale,
		LoanAmount:  a.LoanAmount / CurrencyScale,
		Cibil:       a.Cibil,
		AssetsTotal: a.AssetsTotal / CurrencyScale,
	}
}

// Value returns the feature stored under key.
func (f ApplicantFeatures) Value(key FeatureKey) (float64, bool) {
	switch key {
	case FeatureDependents:
		return f.Dependents, true
	case FeatureEducation:
		return f.Education, true
	case FeatureIncome:
		return f.Income, true
	case FeatureLoanAmount:
		return f.LoanAmount, true
	case FeatureCibil:
		return f.Cibil, true
	case FeatureAssetsTotal:
		return f.AssetsTotal, true
	}
	return 0, false
}
