// internal/common/validation/schema.go
package validation

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Result carries the outcome of validating a configuration document.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Summary joins all field errors into one line for error wrapping.
func (r *Result) Summary() string {
	if r.Valid {
		return ""
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}

// heuristicsSchema describes the externally loaded keyword/weight tables.
// Every section is optional (absent sections fall back to defaults) but a
// present section must have the right shape.
var heuristicsSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"categories": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"recruiter":     stringArray(),
				"manager":       stringArray(),
				"senior":        stringArray(),
				"peer_roles":    stringArray(),
				"early_career":  stringArray(),
				"abbreviations": stringMap(),
			},
		},
		"validation": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"negative_signals": map[string]interface{}{
					"type": "object",
					"additionalProperties": map[string]interface{}{
						"type":    "number",
						"minimum": 0,
					},
				},
				"spam_indicators": stringArray(),
				"false_positive_companies": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": stringArray(),
				},
				"proximity_window": map[string]interface{}{
					"type":    "integer",
					"minimum": 1,
				},
			},
		},
		"matching": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"base_weights": matchWeights(),
				"stage_multipliers": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": matchWeights(),
				},
				"skill_synonyms": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": stringArray(),
				},
			},
		},
		"ranking": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"weights": map[string]interface{}{
					"type": "object",
					"additionalProperties": map[string]interface{}{
						"type":    "number",
						"minimum": 0,
						"maximum": 1,
					},
				},
				"category_relevance": map[string]interface{}{
					"type": "object",
					"additionalProperties": map[string]interface{}{
						"type": "object",
						"additionalProperties": map[string]interface{}{
							"type":    "number",
							"minimum": 0,
							"maximum": 1,
						},
					},
				},
			},
		},
		"selection": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"industry_tags": stringMap(),
				"role_tags":     stringMap(),
			},
		},
		"domains": stringMap(),
	},
}

func stringArray() map[string]interface{} {
	return map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "string"},
	}
}

func stringMap() map[string]interface{} {
	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": map[string]interface{}{"type": "string"},
	}
}

func matchWeights() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"additionalProperties": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
		},
	}
}

// ValidateHeuristics checks a decoded heuristics document against the schema.
func ValidateHeuristics(settings map[string]interface{}) *Result {
	schemaLoader := gojsonschema.NewGoLoader(heuristicsSchema)
	documentLoader := gojsonschema.NewGoLoader(settings)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &Result{
			Valid:  false,
			Errors: []FieldError{{Field: "(document)", Message: err.Error()}},
		}
	}

	if result.Valid() {
		return &Result{Valid: true}
	}

	out := &Result{Valid: false}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out
}
