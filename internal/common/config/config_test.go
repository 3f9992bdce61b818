package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaultsFillsPipelineKnobs(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, 25*time.Second, cfg.Pipeline.TimeBudget)
	assert.Equal(t, 3, cfg.Pipeline.PrimarySourceCount)
	assert.Equal(t, 10, cfg.Pipeline.EarlyStopCount)
	assert.Equal(t, 0.3, cfg.Pipeline.MinConfidence)
	assert.Equal(t, 0.7, cfg.Pipeline.CompletenessGate)
	assert.Equal(t, 5, cfg.Pipeline.MaxPerCategory)
	assert.Equal(t, 15, cfg.Pipeline.TargetCount)
	assert.Equal(t, "connection-finder", cfg.App.Name)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Pipeline.TimeBudget = 5 * time.Second
	cfg.Pipeline.TargetCount = 20
	applyDefaults(cfg)

	assert.Equal(t, 5*time.Second, cfg.Pipeline.TimeBudget)
	assert.Equal(t, 20, cfg.Pipeline.TargetCount)
}

func TestValidateConfigRejectsBadSourceQuality(t *testing.T) {
	cfg := &Config{
		Sources: map[string]SourceConfig{
			"apollo": {Quality: 1.5},
		},
	}
	applyDefaults(cfg)

	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quality")
}

func TestDefaultHeuristicsWeightsSumToOne(t *testing.T) {
	w := DefaultHeuristics().Ranking.Weights
	sum := w.Employment + w.RoleRelevance + w.ProfileMatch + w.DataQuality + w.SourceQuality
	assert.InDelta(t, 1.0, sum, 0.01)
}

func TestDefaultHeuristicsTablesArePopulated(t *testing.T) {
	h := DefaultHeuristics()

	assert.NotEmpty(t, h.Categories.Recruiter)
	assert.NotEmpty(t, h.Validation.NegativeSignals)
	assert.Equal(t, 50, h.Validation.ProximityWindow)
	assert.Contains(t, h.Validation.FalsePositiveCompanies, "root")
	for _, stage := range []string{"early_career", "mid_career", "senior_career"} {
		assert.Contains(t, h.Matching.StageMultipliers, stage)
		assert.Contains(t, h.Ranking.CategoryRelevance, stage)
	}
}
