package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHeuristicsAcceptsWellFormedDocument(t *testing.T) {
	doc := map[string]interface{}{
		"categories": map[string]interface{}{
			"recruiter": []interface{}{"recruiter", "talent"},
			"abbreviations": map[string]interface{}{
				"swe": "software engineer",
			},
		},
		"validation": map[string]interface{}{
			"proximity_window": 50,
			"negative_signals": map[string]interface{}{
				"former": 2.0,
			},
		},
		"ranking": map[string]interface{}{
			"weights": map[string]interface{}{
				"employment": 0.3,
			},
		},
	}

	result := ValidateHeuristics(doc)
	assert.True(t, result.Valid, result.Summary())
}

func TestValidateHeuristicsAcceptsEmptyDocument(t *testing.T) {
	result := ValidateHeuristics(map[string]interface{}{})
	assert.True(t, result.Valid)
}

func TestValidateHeuristicsRejectsWrongTypes(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]interface{}
	}{
		{
			"keyword list as string",
			map[string]interface{}{
				"categories": map[string]interface{}{"recruiter": "recruiter"},
			},
		},
		{
			"signal weight as string",
			map[string]interface{}{
				"validation": map[string]interface{}{
					"negative_signals": map[string]interface{}{"former": "high"},
				},
			},
		},
		{
			"proximity window as float string",
			map[string]interface{}{
				"validation": map[string]interface{}{"proximity_window": "fifty"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateHeuristics(tt.doc)
			require.False(t, result.Valid)
			assert.NotEmpty(t, result.Summary())
		})
	}
}
