// internal/pipeline/ranking/ranking.go
// Package ranking orders validated people by a weighted blend of
// employment evidence, role relevance, profile match, data quality,
// and source quality.
package ranking

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"connection-finder/internal/common/config"
	pkgerrors "connection-finder/internal/common/errors"
	"connection-finder/internal/models"
	"connection-finder/internal/pipeline/profilematch"
)

// Ranked pairs a person with its total score and per-factor breakdown.
type Ranked struct {
	Person    models.Person
	Score     float64
	Breakdown map[string]float64
	Reasons   []string
}

type Engine struct {
	weights   config.ScoringWeights
	relevance map[string]map[string]float64
	matcher   *profilematch.Matcher
	quality   map[string]float64
}

// NewEngine validates that the weights sum to 1.0 (±0.01).
func NewEngine(h config.RankingHeuristics, matcher *profilematch.Matcher, sourceQuality map[string]float64) (*Engine, error) {
	w := h.Weights
	sum := w.Employment + w.RoleRelevance + w.ProfileMatch + w.DataQuality + w.SourceQuality
	if math.Abs(sum-1.0) > 0.01 {
		return nil, pkgerrors.NewConfigurationInvalid(
			fmt.Sprintf("scoring weights sum to %.3f, want 1.0", sum))
	}
	if sourceQuality == nil {
		sourceQuality = map[string]float64{}
	}
	return &Engine{
		weights:   w,
		relevance: h.CategoryRelevance,
		matcher:   matcher,
		quality:   sourceQuality,
	}, nil
}

// RankPeople scores every person and returns them sorted descending by
// total score. Ties keep input order.
func (e *Engine) RankPeople(people []models.Person, job *models.JobContext, profile *models.CandidateProfile) []Ranked {
	targetTitle := ""
	if job != nil {
		targetTitle = job.Title
	}
	stage := e.matcher.DetermineCareerStage(targetTitle)

	out := make([]Ranked, 0, len(people))
	for _, p := range people {
		score, breakdown, reasons := e.score(p, stage, job, profile)
		out = append(out, Ranked{Person: p, Score: score, Breakdown: breakdown, Reasons: reasons})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func (e *Engine) score(p models.Person, stage string, job *models.JobContext, profile *models.CandidateProfile) (float64, map[string]float64, []string) {
	employment := p.ConfidenceScore
	if p.LinkedInURL != "" && p.Company != "" {
		employment += 0.1
	}
	if employment > 1.0 {
		employment = 1.0
	}

	role := e.categoryRelevance(stage, p.Category)

	match, reasons := e.matcher.MatchScore(p, profile, job, stage)
	// normalize against the largest attainable match component
	profileScore := match / 0.5
	if profileScore > 1.0 {
		profileScore = 1.0
	}

	quality := dataQuality(p)
	source := e.sourceQuality(p.Source)

	breakdown := map[string]float64{
		"employment":     employment,
		"role_relevance": role,
		"profile_match":  profileScore,
		"data_quality":   quality,
		"source_quality": source,
	}

	total := employment*e.weights.Employment +
		role*e.weights.RoleRelevance +
		profileScore*e.weights.ProfileMatch +
		quality*e.weights.DataQuality +
		source*e.weights.SourceQuality

	return total, breakdown, reasons
}

func (e *Engine) categoryRelevance(stage string, c models.Category) float64 {
	if table, ok := e.relevance[stage]; ok {
		if v, ok := table[string(c)]; ok {
			return v
		}
	}
	return 0.5
}

// dataQuality measures completeness of the record.
func dataQuality(p models.Person) float64 {
	var score float64
	if p.LinkedInURL != "" {
		score += 0.3
	}
	if p.Title != "" {
		score += 0.3
	}
	if p.Location != "" {
		score += 0.15
	}
	if p.Department != "" {
		score += 0.1
	}
	if p.Category != models.CategoryUnknown {
		score += 0.15
	}
	return score
}

func (e *Engine) sourceQuality(source string) float64 {
	best := 0.5
	var found bool
	for _, s := range strings.Split(source, ",") {
		if q, ok := e.quality[strings.TrimSpace(s)]; ok {
			if !found || q > best {
				best = q
				found = true
			}
		}
	}
	return best
}

// Explain renders a short human-readable justification for a score.
func (e *Engine) Explain(r Ranked) string {
	var b strings.Builder

	switch {
	case r.Breakdown["employment"] >= 0.8:
		b.WriteString("Verified current employee")
	case r.Breakdown["employment"] >= 0.5:
		b.WriteString("Likely current employee")
	default:
		b.WriteString("Employment uncertain")
	}

	if r.Person.Category != models.CategoryUnknown {
		fmt.Fprintf(&b, " · %s", r.Person.Category)
	}
	if len(r.Reasons) > 0 {
		fmt.Fprintf(&b, " · matches: %s", strings.Join(r.Reasons, ", "))
	}
	if r.Person.LinkedInURL != "" {
		b.WriteString(" · LinkedIn available")
	}
	fmt.Fprintf(&b, " · score %.2f", r.Score)
	return b.String()
}
