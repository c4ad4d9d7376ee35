package knn

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"loan-approval/domain"
)

// DefaultK is the neighbor count the dashboard ships with.
const DefaultK = 5

type Neighbor struct {
	Index    int          `json:"index"`
	Distance float64      `json:"distance"`
	Label    domain.Label `json:"label"`
}

type Classification struct {
	Decision      domain.Decision `json:"decision"`
	K             int             `json:"k"`
	ApprovedVotes int             `json:"approved_votes"`
	Neighbors     []Neighbor      `json:"neighbors"`
}

// Predict returns the majority decision of the k training records closest to vector.
func Predict(vector domain.NormalizedVector, trainingSet []domain.TrainingRecord, k int) (domain.Decision, error) {
	c, err := Classify(vector, trainingSet, k)
	if err != nil {
		return "", err
	}
	return c.Decision, nil
}

// Classify is Predict with the vote details kept.
//
// Distances are sorted with a stable sort over training-set order, so records
// at exactly the same distance keep their original relative order and the
// neighbor set is reproducible.
func Classify(vector domain.NormalizedVector, trainingSet []domain.TrainingRecord, k int) (Classification, error) {
	if len(trainingSet) == 0 {
		return Classification{}, domain.NewInvalidArgumentError("training set is empty")
	}
	if k < 1 || k > len(trainingSet) {
		return Classification{}, domain.NewInvalidArgumentError(
			"k must be in [1, %d], got %d", len(trainingSet), k)
	}
	if len(vector) != domain.NumFeatures {
		return Classification{}, domain.NewDimensionMismatchError(domain.NumFeatures, len(vector), "query vector")
	}

	neighbors := make([]Neighbor, len(trainingSet))
	for i, rec := range trainingSet {
		if len(rec.Features) != domain.NumFeatures {
			return Classification{}, domain.NewDimensionMismatchError(
				domain.NumFeatures, len(rec.Features), fmt.Sprintf("training record %d", i))
		}
		neighbors[i] = Neighbor{Index: i, Distance: euclidean(rec.Features, vector), Label: rec.Label}
	}

	slices.SortStableFunc(neighbors, func(a, b Neighbor) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	nearest := neighbors[:k:k]

	approved := 0
	for _, n := range nearest {
		if n.Label == domain.LabelApproved {
			approved++
		}
	}

	return Classification{
		Decision:      decide(approved, k),
		K:             k,
		ApprovedVotes: approved,
		Neighbors:     nearest,
	}, nil
}

// decide applies approved > k/2 with real division: an even split is Rejected.
func decide(approved, k int) domain.Decision {
	if 2*approved > k {
		return domain.Approved
	}
	return domain.Rejected
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
