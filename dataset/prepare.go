package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"loan-approval/domain"
)

// Raw column names of loan_approval_dataset.csv.
const (
	colLoanID      = "loan_id"
	colDependents  = "no_of_dependents"
	colEducation   = "education"
	colIncome      = "income_annum"
	colLoanAmount  = "loan_amount"
	colCibil       = "cibil_score"
	colResidential = "residential_assets_value"
	colCommercial  = "commercial_assets_value"
	colLuxury      = "luxury_assets_value"
	colBank        = "bank_asset_value"
	colStatus      = "loan_status"

	colEducationNum = "education_num"
	colAssetsTotal  = "assets_total"
)

var requiredColumns = []string{
	colDependents, colEducation, colIncome, colLoanAmount, colCibil,
	colResidential, colCommercial, colLuxury, colBank, colStatus,
}

// unitStepColumns advance by 1 in the input hints; everything else is currency.
var unitStepColumns = map[string]bool{
	colDependents: true,
	"loan_term":   true,
	colCibil:      true,
}

const currencyStep = 100_000

// PrepareOptions controls snapshot generation.
type PrepareOptions struct {
	// Accuracy is the headline figure to embed; nil leaves it out.
	Accuracy *float64
}

// Prepare turns the raw loan CSV into a snapshot: education and status are
// encoded, the four asset columns are summed, currency columns are divided by
// domain.CurrencyScale and every continuous feature is min/max scaled.
func Prepare(r io.Reader, opts PrepareOptions) (*Snapshot, error) {
	if a := opts.Accuracy; a != nil && (math.IsNaN(*a) || *a < 0 || *a > 100) {
		return nil, domain.NewConfigError("accuracy %v must be a percentage between 0 and 100", *a)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, domain.NewConfigError("csv is missing column %q", col)
		}
	}

	var (
		features [][]float64
		labels   []float64
		numeric  = newColumnStats()
		line     = 1
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		for name, i := range index {
			if name == colLoanID || i >= len(row) {
				continue
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err == nil {
				numeric.observe(name, v)
			} else {
				numeric.reject(name)
			}
		}

		get := func(col string) (float64, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[index[col]]), 64)
			if err != nil {
				return 0, domain.NewConfigError("line %d: column %q is not numeric", line, col)
			}
			return v, nil
		}
		var vals [8]float64
		for i, col := range []string{
			colDependents, colIncome, colLoanAmount, colCibil,
			colResidential, colCommercial, colLuxury, colBank,
		} {
			if vals[i], err = get(col); err != nil {
				return nil, err
			}
		}
		education := 0.0
		if e, err := domain.ParseEducation(row[index[colEducation]]); err == nil {
			education = e.Encode()
		}
		assets := vals[4] + vals[5] + vals[6] + vals[7]
		numeric.observe(colEducationNum, education)
		numeric.observe(colAssetsTotal, assets)

		features = append(features, []float64{
			vals[0],
			education,
			vals[1] / domain.CurrencyScale,
			vals[2] / domain.CurrencyScale,
			vals[3],
			assets / domain.CurrencyScale,
		})
		labels = append(labels, encodeStatus(row[index[colStatus]]))
	}

	if len(features) == 0 {
		return nil, domain.NewConfigError("csv has no data rows")
	}

	snapshot := &Snapshot{
		TrainingData:        make([][]float64, len(features)),
		InputRanges:         numeric.inputRanges(),
		NormalizationRanges: make(map[string]domain.NormalizationRange, domain.NumFeatures),
		InitialAccuracy:     opts.Accuracy,
	}

	for col, key := range domain.FeatureOrder {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, f := range features {
			lo = math.Min(lo, f[col])
			hi = math.Max(hi, f[col])
		}
		snapshot.NormalizationRanges[string(key)] = domain.NormalizationRange{Min: lo, Max: hi}
		if key == domain.FeatureEducation {
			continue
		}
		if hi <= lo {
			return nil, domain.NewConfigError("column for %q is constant; cannot build a normalization range", key)
		}
	}

	for i, f := range features {
		row := make([]float64, 0, domain.NumFeatures+1)
		for col, key := range domain.FeatureOrder {
			if key == domain.FeatureEducation {
				row = append(row, f[col])
				continue
			}
			r := snapshot.NormalizationRanges[string(key)]
			row = append(row, (f[col]-r.Min)/(r.Max-r.Min))
		}
		snapshot.TrainingData[i] = append(row, labels[i])
	}

	return snapshot, nil
}

func encodeStatus(s string) float64 {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved", "yes", "y", "1", "true":
		return 1
	}
	return 0
}

// columnStats tracks min/max of every column whose values all parse as numbers.
type columnStats struct {
	min, max   map[string]float64
	nonNumeric map[string]bool
}

func newColumnStats() *columnStats {
	return &columnStats{
		min:        map[string]float64{},
		max:        map[string]float64{},
		nonNumeric: map[string]bool{},
	}
}

func (c *columnStats) observe(col string, v float64) {
	if lo, ok := c.min[col]; !ok || v < lo {
		c.min[col] = v
	}
	if hi, ok := c.max[col]; !ok || v > hi {
		c.max[col] = v
	}
}

func (c *columnStats) reject(col string) {
	c.nonNumeric[col] = true
}

func (c *columnStats) inputRanges() map[string]domain.InputRange {
	out := make(map[string]domain.InputRange, len(c.min))
	for col, lo := range c.min {
		if c.nonNumeric[col] {
			continue
		}
		step := int64(currencyStep)
		if unitStepColumns[col] {
			step = 1
		}
		out[col] = domain.InputRange{
			Min:  int64(lo),
			Max:  int64(c.max[col]),
			Step: step,
		}
	}
	return out
}
