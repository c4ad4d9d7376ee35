package dataset

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"loan-approval/domain"
)

// snapshotSchema describes the shape of model_data.json. Semantic checks
// (labels, degenerate ranges) happen after decoding.
const snapshotSchema = `{
  "type": "object",
  "required": ["training_data_initial", "normalization_ranges"],
  "properties": {
    "training_data_initial": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "array",
        "minItems": 7,
        "maxItems": 7,
        "items": {"type": "number"}
      }
    },
    "normalization_ranges": {
      "type": "object",
      "required": ["dependents", "income", "loan_amount", "cibil", "assets_total"],
      "additionalProperties": {
        "type": "object",
        "required": ["min", "max"],
        "properties": {
          "min": {"type": "number"},
          "max": {"type": "number"}
        }
      }
    },
    "input_ranges": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["min", "max"],
        "properties": {
          "min": {"type": "integer"},
          "max": {"type": "integer"},
          "step": {"type": "integer"}
        }
      }
    },
    "initial_accuracy": {"type": "number", "minimum": 0, "maximum": 100}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(snapshotSchema)

func validateShape(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &domain.Error{
			Code:    domain.ErrCodeConfig,
			Message: "model data is not valid JSON",
			Details: err.Error(),
		}
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return &domain.Error{
			Code:    domain.ErrCodeConfig,
			Message: "model data failed schema validation",
			Details: strings.Join(errs, "; "),
		}
	}
	return nil
}
