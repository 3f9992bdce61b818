package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connection-finder/internal/common/logger"
	"connection-finder/internal/models"
)

func TestAddBatchDedupesAcrossSources(t *testing.T) {
	agg := New(logger.NewNoOpLogger())

	agg.AddBatch("github", []models.Person{
		{
			Name:            "Jane Doe",
			Company:         "Stripe",
			Title:           "Software Engineer",
			LinkedInURL:     "https://linkedin.com/in/janedoe",
			Source:          "github",
			ConfidenceScore: 0.6,
			Skills:          []string{"Go"},
		},
	})
	agg.AddBatch("apollo", []models.Person{
		{
			Name:            "JANE DOE",
			Company:         "Stripe",
			LinkedInURL:     "https://linkedin.com/in/janedoe",
			Email:           "jane@stripe.com",
			Source:          "apollo",
			ConfidenceScore: 0.8,
			Skills:          []string{"go", "Python"},
		},
	})

	people := agg.GetAll()
	require.Len(t, people, 1)

	merged := people[0]
	assert.Equal(t, "github,apollo", merged.Source)
	assert.Equal(t, 0.8, merged.ConfidenceScore)
	assert.Equal(t, "Software Engineer", merged.Title)
	assert.Equal(t, "jane@stripe.com", merged.Email)
	assert.ElementsMatch(t, []string{"Go", "Python"}, merged.Skills)

	stats := agg.Stats()
	assert.Equal(t, 1, stats.TotalUnique)
	assert.Equal(t, map[string]int{"github": 1, "apollo": 1}, stats.BySource)
	assert.Equal(t, 1, stats.MultiSourceMatches)
}

func TestMergeCountsSubstringNamedSources(t *testing.T) {
	agg := New(logger.NewNoOpLogger())

	agg.AddBatch("elite_github", []models.Person{
		{
			Name:            "Jane Doe",
			Company:         "Stripe",
			LinkedInURL:     "https://linkedin.com/in/janedoe",
			Source:          "elite_github",
			ConfidenceScore: 0.7,
		},
	})
	agg.AddBatch("github", []models.Person{
		{
			Name:            "Jane Doe",
			Company:         "Stripe",
			LinkedInURL:     "https://linkedin.com/in/janedoe",
			Source:          "github",
			ConfidenceScore: 0.6,
		},
	})

	people := agg.GetAll()
	require.Len(t, people, 1)
	assert.Equal(t, "elite_github,github", people[0].Source)
	assert.Equal(t, 1, agg.Stats().MultiSourceMatches)
}

func TestAddBatchStampsMissingSource(t *testing.T) {
	agg := New(logger.NewNoOpLogger())
	agg.AddBatch("serp", []models.Person{
		{Name: "Bob Smith", Company: "Stripe"},
	})

	people := agg.GetAll()
	require.Len(t, people, 1)
	assert.Equal(t, "serp", people[0].Source)
}

func TestAddBatchSkipsNamelessRecords(t *testing.T) {
	agg := New(logger.NewNoOpLogger())
	agg.AddBatch("github", []models.Person{
		{Name: "  ", Company: "Stripe"},
		{Name: "Bob Smith", Company: "Stripe", Source: "github"},
	})

	assert.Len(t, agg.GetAll(), 1)
}

func TestGetAllPreservesFirstSeenOrder(t *testing.T) {
	agg := New(logger.NewNoOpLogger())
	agg.AddBatch("github", []models.Person{
		{Name: "Alpha One", Company: "Stripe", Source: "github"},
		{Name: "Beta Two", Company: "Stripe", Source: "github"},
	})
	agg.AddBatch("apollo", []models.Person{
		{Name: "Gamma Three", Company: "Stripe", Source: "apollo"},
	})

	people := agg.GetAll()
	require.Len(t, people, 3)
	assert.Equal(t, "Alpha One", people[0].Name)
	assert.Equal(t, "Beta Two", people[1].Name)
	assert.Equal(t, "Gamma Three", people[2].Name)
}
