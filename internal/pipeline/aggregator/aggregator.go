// internal/pipeline/aggregator/aggregator.go
// Package aggregator merges people discovered by multiple sources into a
// deduplicated set, keeping the strongest evidence for each identity.
package aggregator

import (
	"strings"

	"connection-finder/internal/common/logger"
	"connection-finder/internal/models"
)

// Aggregator collects per-source batches and produces unique people.
type Aggregator struct {
	log logger.Logger

	byKey    map[string]*models.Person
	order    []string
	bySource map[string]int
	multi    int
}

func New(log logger.Logger) *Aggregator {
	return &Aggregator{
		log:      log,
		byKey:    make(map[string]*models.Person),
		bySource: make(map[string]int),
	}
}

// AddBatch merges one source's results. Duplicate identities are merged:
// optional fields union, skills union, confidence keeps the maximum, and
// the source field becomes a comma-joined list.
func (a *Aggregator) AddBatch(source string, people []models.Person) {
	for i := range people {
		p := people[i]
		p.Normalize()
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		if p.Source == "" {
			p.Source = source
		}
		a.bySource[source]++

		key := p.DedupeKey()
		existing, ok := a.byKey[key]
		if !ok {
			cp := p
			a.byKey[key] = &cp
			a.order = append(a.order, key)
			continue
		}

		a.merge(existing, &p)
	}

	a.log.Debug("aggregated batch", map[string]interface{}{
		"source":       source,
		"batch_size":   len(people),
		"total_unique": len(a.byKey),
	})
}

func (a *Aggregator) merge(dst, src *models.Person) {
	if !hasSource(dst.Source, src.Source) {
		dst.Source = dst.Source + "," + src.Source
		a.multi++
	}
	if src.ConfidenceScore > dst.ConfidenceScore {
		dst.ConfidenceScore = src.ConfidenceScore
	}
	if dst.Title == "" {
		dst.Title = src.Title
	}
	if dst.LinkedInURL == "" {
		dst.LinkedInURL = src.LinkedInURL
	}
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.TwitterURL == "" {
		dst.TwitterURL = src.TwitterURL
	}
	if dst.GitHubURL == "" {
		dst.GitHubURL = src.GitHubURL
	}
	if dst.Department == "" {
		dst.Department = src.Department
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if dst.ExperienceYears == 0 {
		dst.ExperienceYears = src.ExperienceYears
	}
	if dst.EvidenceURL == "" {
		dst.EvidenceURL = src.EvidenceURL
	}
	dst.Skills = unionSkills(dst.Skills, src.Skills)
	dst.APICost += src.APICost
}

// hasSource checks a comma-joined source list for an exact name, so
// "github" does not read as already present in "elite_github".
func hasSource(list, name string) bool {
	for _, s := range strings.Split(list, ",") {
		if strings.TrimSpace(s) == name {
			return true
		}
	}
	return false
}

func unionSkills(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[strings.ToLower(s)] = true
	}
	for _, s := range b {
		if !seen[strings.ToLower(s)] {
			a = append(a, s)
			seen[strings.ToLower(s)] = true
		}
	}
	return a
}

// GetAll returns the unique people in first-seen order.
func (a *Aggregator) GetAll() []models.Person {
	out := make([]models.Person, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.byKey[key])
	}
	return out
}

// Stats reports aggregation totals for the result payload.
func (a *Aggregator) Stats() models.SourceStats {
	bySource := make(map[string]int, len(a.bySource))
	for k, v := range a.bySource {
		bySource[k] = v
	}
	return models.SourceStats{
		TotalUnique:        len(a.byKey),
		BySource:           bySource,
		MultiSourceMatches: a.multi,
	}
}
