package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connection-finder/internal/common/config"
	"connection-finder/internal/common/logger"
	"connection-finder/internal/models"
	"connection-finder/internal/pipeline/cost"
	"connection-finder/internal/pipeline/ratelimit"
	"connection-finder/internal/sources"
)

type failingSource struct{ name string }

func (s *failingSource) Name() string       { return s.name }
func (s *failingSource) IsConfigured() bool { return true }
func (s *failingSource) SearchPeople(context.Context, string, string, sources.SearchOptions) ([]models.Person, error) {
	return nil, errors.New("upstream unavailable")
}

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{
			TimeBudget:             25 * time.Second,
			PrimarySourceCount:     3,
			EarlyStopCount:         10,
			MaxWorkers:             4,
			SourceTimeout:          5 * time.Second,
			MinConfidence:          0.3,
			ShortCircuitConfidence: 0.2,
			LowQualityConfidence:   0.4,
			CompletenessGate:       0.7,
			ConfidenceGate:         0.8,
			RelevanceGate:          0.6,
			MaxPerCategory:         5,
			TargetCount:            15,
		},
		Heuristics: config.DefaultHeuristics(),
	}
}

func newTestFinder(t *testing.T, settings map[string]config.SourceConfig, srcs ...sources.Capability) *Finder {
	t.Helper()
	registry := sources.NewRegistry(settings)
	for _, s := range srcs {
		registry.Register(s)
	}
	f, err := New(testConfig(), registry, nil, ratelimit.New(), cost.NewTracker(), nil, logger.NewTestLogger(t))
	require.NoError(t, err)
	return f
}

func TestFindConnectionsMergesAcrossSources(t *testing.T) {
	person := models.Person{
		Name:            "Jane Doe",
		Title:           "Software Engineer at Acme",
		Company:         "Acme",
		LinkedInURL:     "https://linkedin.com/in/janedoe",
		ConfidenceScore: 0.9,
	}
	shouting := person
	shouting.Name = "JANE DOE"

	settings := map[string]config.SourceConfig{
		"alpha": {Enabled: true, Quality: 0.8, Priority: 1, CostPerRequest: 0.01},
		"beta":  {Enabled: true, Quality: 0.7, Priority: 2, CostPerRequest: 0.02},
	}
	f := newTestFinder(t, settings,
		sources.NewStaticSource("alpha", []models.Person{person}),
		sources.NewStaticSource("beta", []models.Person{shouting}),
	)

	result := f.FindConnections(context.Background(), models.SearchQuery{
		Company: "Acme",
		Title:   "Software Engineer",
	})

	assert.Equal(t, 1, result.TotalFound)
	assert.Equal(t, map[string]int{"peer": 1}, result.CategoryCounts)
	assert.Equal(t, 1, result.SourceStats.TotalUnique)
	assert.Equal(t, 1, result.SourceStats.MultiSourceMatches)
	assert.Equal(t, 2, result.CostStats.TotalRequests)
	assert.InDelta(t, 0.03, result.CostStats.TotalCost, 1e-9)
	assert.NotEmpty(t, result.SearchID)

	peer := result.ByCategory["peer"][0]
	assert.Equal(t, "peer", peer.Category)
	assert.LessOrEqual(t, peer.Confidence, 1.0)
}

func TestFindConnectionsIsolatesSourceFailures(t *testing.T) {
	good := models.Person{
		Name:        "Sam Ortiz",
		Title:       "Software Engineer at Acme",
		Company:     "Acme",
		LinkedInURL: "https://linkedin.com/in/samortiz",
	}
	settings := map[string]config.SourceConfig{
		"broken": {Enabled: true, Quality: 0.9, Priority: 1},
		"good":   {Enabled: true, Quality: 0.8, Priority: 2},
	}
	f := newTestFinder(t, settings,
		&failingSource{name: "broken"},
		sources.NewStaticSource("good", []models.Person{good}),
	)

	result := f.FindConnections(context.Background(), models.SearchQuery{
		Company: "Acme",
		Title:   "Software Engineer",
	})

	assert.Equal(t, 1, result.TotalFound)
	assert.Equal(t, 1, result.SourceStats.Failures["broken"])
}

func TestFindConnectionsReturnsEmptyResult(t *testing.T) {
	f := newTestFinder(t, map[string]config.SourceConfig{
		"empty": {Enabled: true, Quality: 0.5, Priority: 1},
	}, sources.NewStaticSource("empty", nil))

	result := f.FindConnections(context.Background(), models.SearchQuery{
		Company: "Nowhere Inc",
		Title:   "Software Engineer",
	})

	require.NotNil(t, result)
	assert.Equal(t, 0, result.TotalFound)
	assert.Empty(t, result.ByCategory)
}

func TestQualityGateGuaranteesRecruiterDiversity(t *testing.T) {
	f := newTestFinder(t, nil)

	people := make([]models.Person, 0, 11)
	for i := 0; i < 10; i++ {
		people = append(people, models.Person{
			Name:            "Peer Person " + string(rune('A'+i)),
			Title:           "Software Engineer at Acme",
			Company:         "Acme",
			LinkedInURL:     "https://linkedin.com/in/peer" + string(rune('a'+i)),
			Location:        "NYC",
			Category:        models.CategoryPeer,
			ConfidenceScore: 0.95,
		})
	}
	// ranks below every peer and fails the confidence gate
	people = append(people, models.Person{
		Name:            "Lone Recruiter",
		Title:           "Technical Recruiter at Acme",
		Company:         "Acme",
		Category:        models.CategoryRecruiter,
		ConfidenceScore: 0.5,
	})

	selected, gate := f.qualityGate(people, models.SearchQuery{Company: "Acme", Title: "Software Engineer"})

	var hasRecruiter bool
	for _, p := range selected {
		if p.Category == models.CategoryRecruiter {
			hasRecruiter = true
		}
	}
	assert.True(t, hasRecruiter)
	assert.True(t, gate.RecruiterIncluded)

	perCategory := map[models.Category]int{}
	for _, p := range selected[:gate.HighConfidence] {
		perCategory[p.Category]++
	}
	assert.LessOrEqual(t, perCategory[models.CategoryPeer], 5)
}

func TestSelectSourcesPrefersTaggedSources(t *testing.T) {
	settings := map[string]config.SourceConfig{
		"generic":  {Enabled: true, Quality: 0.8, Priority: 1},
		"contacts": {Enabled: true, Quality: 0.7, Priority: 2, Tags: []string{"contact_db"}},
	}
	f := newTestFinder(t, settings,
		sources.NewStaticSource("generic", nil),
		sources.NewStaticSource("contacts", nil),
	)

	primary, _ := f.selectSources(models.SearchQuery{Company: "Acme Pharma", Title: "Research Scientist"})
	require.NotEmpty(t, primary)
	assert.Equal(t, "contacts", primary[0].Name())

	primary, _ = f.selectSources(models.SearchQuery{Company: "Acme", Title: "Software Engineer"})
	require.NotEmpty(t, primary)
	assert.Equal(t, "generic", primary[0].Name())
}
