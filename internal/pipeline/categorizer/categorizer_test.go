package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"connection-finder/internal/common/config"
	"connection-finder/internal/models"
)

func newTestCategorizer() *Categorizer {
	return New(config.DefaultHeuristics().Categories)
}

func TestCategorizePriorityChain(t *testing.T) {
	c := newTestCategorizer()

	tests := []struct {
		name        string
		title       string
		targetTitle string
		want        models.Category
	}{
		{"recruiter beats manager keywords", "Talent Acquisition Manager", "Software Engineer", models.CategoryRecruiter},
		{"hr word match", "HR Business Partner", "Software Engineer", models.CategoryRecruiter},
		{"manager", "Engineering Manager", "Software Engineer", models.CategoryManager},
		{"director", "Director of Engineering", "Software Engineer", models.CategoryManager},
		{"senior for junior target", "Senior Software Engineer", "Software Engineer", models.CategorySenior},
		{"senior target makes senior a peer", "Senior Software Engineer", "Senior Software Engineer", models.CategoryPeer},
		{"peer keyword", "Backend Developer", "Software Engineer", models.CategoryPeer},
		{"fuzzy title similarity", "Product Owner II", "Product Owner", models.CategoryPeer},
		{"abbreviation swe", "SWE", "Software Engineer", models.CategoryPeer},
		{"abbreviation reversed", "Software Engineer", "SWE", models.CategoryPeer},
		{"unknown", "Barista", "Software Engineer", models.CategoryUnknown},
		{"empty title", "", "Software Engineer", models.CategoryUnknown},
		{"chrome is not hr", "Chrome Platform Analyst", "Software Engineer", models.CategoryPeer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Categorize(models.Person{Title: tt.title}, tt.targetTitle)
			assert.Equal(t, tt.want, got.Category)
		})
	}
}

func TestCategorizeIsDeterministic(t *testing.T) {
	c := newTestCategorizer()
	p := models.Person{Title: "Senior Data Scientist"}

	first := c.Categorize(p, "Data Scientist").Category
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Categorize(p, "Data Scientist").Category)
	}
}

func TestIsEarlyCareerRole(t *testing.T) {
	c := newTestCategorizer()

	assert.True(t, c.IsEarlyCareerRole("Software Engineering Intern"))
	assert.True(t, c.IsEarlyCareerRole("New Grad Software Engineer"))
	assert.False(t, c.IsEarlyCareerRole("Staff Software Engineer"))
}

func TestCategoryCounts(t *testing.T) {
	people := []models.Person{
		{Category: models.CategoryPeer},
		{Category: models.CategoryPeer},
		{Category: models.CategoryRecruiter},
	}
	assert.Equal(t, map[string]int{"peer": 2, "recruiter": 1}, CategoryCounts(people))
}
