package http

import (
	"loan-approval/domain"
)

// predictRequest mirrors domain.ApplicantInput with pointer fields so an
// absent field can be told apart from a zero value.
type predictRequest struct {
	Dependents  *int              `json:"dependents"`
	Education   *domain.Education `json:"education"`
	Income      *float64          `json:"income"`
	LoanAmount  *float64          `json:"loan_amount"`
	Cibil       *float64          `json:"cibil"`
	AssetsTotal *float64          `json:"assets_total"`
}

// toInput fails on the first missing field, in request field order.
func (r predictRequest) toInput() (domain.ApplicantInput, error) {
	switch {
	case r.Dependents == nil:
		return domain.ApplicantInput{}, missingField("dependents")
	case r.Education == nil:
		return domain.ApplicantInput{}, missingField("education")
	case r.Income == nil:
		return domain.ApplicantInput{}, missingField("income")
	case r.LoanAmount == nil:
		return domain.ApplicantInput{}, missingField("loan_amount")
	case r.Cibil == nil:
		return domain.ApplicantInput{}, missingField("cibil")
	case r.AssetsTotal == nil:
		return domain.ApplicantInput{}, missingField("assets_total")
	}
	return domain.ApplicantInput{
		Dependents:  *r.Dependents,
		Education:   *r.Education,
		Income:      *r.Income,
		LoanAmount:  *r.LoanAmount,
		Cibil:       *r.Cibil,
		AssetsTotal: *r.AssetsTotal,
	}, nil
}

func missingField(field string) error {
	return domain.NewInvalidInputError(field, "field is required")
}
