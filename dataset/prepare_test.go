package dataset

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-approval/domain"
)

func TestPrepare_TestData(t *testing.T) {
	f, err := os.Open("testdata/loans.csv")
	require.NoError(t, err)
	defer f.Close()

	accuracy := 90.0
	s, err := Prepare(f, PrepareOptions{Accuracy: &accuracy})
	require.NoError(t, err)

	require.Len(t, s.TrainingData, 4)
	assert.Equal(t, &accuracy, s.InitialAccuracy)

	// currency ranges are expressed in lakhs
	assert.Equal(t, domain.NormalizationRange{Min: 2, Max: 96}, s.NormalizationRanges["income"])
	assert.Equal(t, domain.NormalizationRange{Min: 3, Max: 299}, s.NormalizationRanges["loan_amount"])
	assert.Equal(t, domain.NormalizationRange{Min: 417, Max: 900}, s.NormalizationRanges["cibil"])
	assert.Equal(t, domain.NormalizationRange{Min: 4, Max: 577}, s.NormalizationRanges["assets_total"])

	first := s.TrainingData[0]
	assert.InDelta(t, 0.4, first[0], 1e-9)
	assert.Equal(t, 1.0, first[1])
	assert.InDelta(t, 1.0, first[2], 1e-9)
	assert.InDelta(t, 1.0, first[3], 1e-9)
	assert.Equal(t, 1.0, first[6])
	assert.Equal(t, 0.0, s.TrainingData[1][6])

	last := s.TrainingData[3]
	assert.Equal(t, []float64{1, 0, 0, 0, 1, 0, 1}, last)

	assert.Equal(t, domain.InputRange{Min: 0, Max: 5, Step: 1}, s.InputRanges["no_of_dependents"])
	assert.Equal(t, domain.InputRange{Min: 200000, Max: 9600000, Step: 100000}, s.InputRanges["income_annum"])
	assert.Equal(t, domain.InputRange{Min: 400000, Max: 57700000, Step: 100000}, s.InputRanges["assets_total"])
	assert.NotContains(t, s.InputRanges, "loan_id")
	assert.NotContains(t, s.InputRanges, "loan_status")

	// the prepared snapshot must load back through the validated path
	_, err = s.Model(3)
	assert.NoError(t, err)
}

func TestPrepare_MissingColumn(t *testing.T) {
	_, err := Prepare(strings.NewReader("loan_id,education\n1,Graduate\n"), PrepareOptions{})
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestPrepare_ConstantColumn(t *testing.T) {
	csvData := "no_of_dependents,education,income_annum,loan_amount,cibil_score," +
		"residential_assets_value,commercial_assets_value,luxury_assets_value,bank_asset_value,loan_status\n" +
		"1,Graduate,100000,200000,700,1,1,1,1,Approved\n" +
		"1,Graduate,300000,400000,500,2,2,2,2,Rejected\n"

	_, err := Prepare(strings.NewReader(csvData), PrepareOptions{})
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestPrepare_Empty(t *testing.T) {
	_, err := Prepare(strings.NewReader("no_of_dependents,education,income_annum,loan_amount,cibil_score,"+
		"residential_assets_value,commercial_assets_value,luxury_assets_value,bank_asset_value,loan_status\n"), PrepareOptions{})
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestPrepare_AccuracyOutOfRange(t *testing.T) {
	for _, acc := range []float64{-0.5, 100.01, 150, math.NaN()} {
		in, err := os.Open(filepath.Join("testdata", "loans.csv"))
		require.NoError(t, err)

		_, err = Prepare(in, PrepareOptions{Accuracy: &acc})
		in.Close()
		assert.ErrorIs(t, err, domain.ErrConfig, "accuracy %v", acc)
	}
}

func TestPrepare_AccuracyBounds(t *testing.T) {
	for _, acc := range []float64{0, 100} {
		in, err := os.Open(filepath.Join("testdata", "loans.csv"))
		require.NoError(t, err)

		s, err := Prepare(in, PrepareOptions{Accuracy: &acc})
		in.Close()
		require.NoError(t, err)
		require.NotNil(t, s.InitialAccuracy)
		assert.Equal(t, acc, *s.InitialAccuracy)

		var buf bytes.Buffer
		require.NoError(t, Write(&buf, s))
		_, err = Parse(buf.Bytes())
		assert.NoError(t, err)
	}
}
