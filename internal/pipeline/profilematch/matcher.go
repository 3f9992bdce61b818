// internal/pipeline/profilematch/matcher.go
// Package profilematch scores how useful a discovered person is to a
// specific candidate and job context.
package profilematch

import (
	"strings"

	"connection-finder/internal/common/config"
	"connection-finder/internal/models"
)

// Career stages select the weight-multiplier table.
const (
	StageEarly  = "early_career"
	StageMid    = "mid_career"
	StageSenior = "senior_career"
)

type Matcher struct {
	heuristics config.MatchingHeuristics
	categories config.CategoryKeywords
	quality    map[string]float64
}

func New(h config.MatchingHeuristics, categories config.CategoryKeywords, sourceQuality map[string]float64) *Matcher {
	if sourceQuality == nil {
		sourceQuality = map[string]float64{}
	}
	return &Matcher{heuristics: h, categories: categories, quality: sourceQuality}
}

// DetermineCareerStage classifies the target title so scoring can favor
// recruiters for juniors and hiring managers for seniors.
func (m *Matcher) DetermineCareerStage(targetTitle string) string {
	t := strings.ToLower(targetTitle)
	for _, k := range m.categories.EarlyCareer {
		if strings.Contains(t, k) {
			return StageEarly
		}
	}
	for _, k := range m.categories.Senior {
		if strings.Contains(t, k) {
			return StageSenior
		}
	}
	for _, k := range m.categories.Manager {
		if len(k) > 3 && strings.Contains(t, k) {
			return StageSenior
		}
	}
	return StageMid
}

// CalculateRelevance starts from the person's confidence and adds
// stage-weighted profile matches, early-career boosts, and a small
// source-quality blend. Capped at 1.0.
func (m *Matcher) CalculateRelevance(p models.Person, profile *models.CandidateProfile, job *models.JobContext) (float64, []string) {
	score := p.ConfidenceScore

	targetTitle := ""
	if job != nil {
		targetTitle = job.Title
	} else if profile != nil {
		targetTitle = profile.CurrentTitle
	}
	stage := m.DetermineCareerStage(targetTitle)

	matchScore, reasons := m.MatchScore(p, profile, job, stage)
	score += matchScore

	if stage == StageEarly {
		title := strings.ToLower(p.Title)
		if p.Category == models.CategoryRecruiter {
			score += 0.15
			reasons = append(reasons, "recruiter_for_early_career")
		}
		if strings.Contains(title, "campus") || strings.Contains(title, "university") {
			score += 0.1
			reasons = append(reasons, "campus_recruiting")
		}
	}

	score += (m.sourceQuality(p.Source) - 0.5) * 0.1

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score, reasons
}

// MatchScore computes the raw stage-weighted profile-match component and
// the discrete match tags, without the confidence base or source blend.
func (m *Matcher) MatchScore(p models.Person, profile *models.CandidateProfile, job *models.JobContext, stage string) (float64, []string) {
	weights := m.stageWeights(stage)
	haystack := personHaystack(p)

	var score float64
	var reasons []string

	if profile != nil {
		for _, school := range profile.Schools {
			if s := stripSchoolNoise(school); s != "" && strings.Contains(haystack, s) {
				score += weights.Alumni
				reasons = append(reasons, "alumni:"+school)
				break
			}
		}
		personCompany := strings.ToLower(strings.TrimSpace(p.Company))
		for _, past := range profile.PastCompanies {
			c := strings.ToLower(strings.TrimSpace(past))
			if c != "" && personCompany != "" && (strings.Contains(personCompany, c) || strings.Contains(c, personCompany)) {
				score += weights.ExCompany
				reasons = append(reasons, "ex_company:"+past)
				break
			}
		}
	}

	skillScore, skillReasons := m.skillsScore(p, profile, job, weights.Skills)
	score += skillScore
	reasons = append(reasons, skillReasons...)

	if job != nil {
		if fieldMatch(p.Department, job.Department) {
			score += weights.Department
			reasons = append(reasons, "department")
		}
		if fieldMatch(p.Location, job.Location) {
			score += weights.Location
			reasons = append(reasons, "location")
		}
	}

	return score, reasons
}

func (m *Matcher) stageWeights(stage string) config.MatchWeights {
	w := m.heuristics.BaseWeights
	mult, ok := m.heuristics.StageMultipliers[stage]
	if !ok {
		return w
	}
	return config.MatchWeights{
		Alumni:     w.Alumni * mult.Alumni,
		ExCompany:  w.ExCompany * mult.ExCompany,
		Skills:     w.Skills * mult.Skills,
		Department: w.Department * mult.Department,
		Location:   w.Location * mult.Location,
	}
}

// skillsScore weights exact skill overlap by which set matched, plus a
// capped fuzzy-synonym bonus. Total capped at the stage skills weight.
func (m *Matcher) skillsScore(p models.Person, profile *models.CandidateProfile, job *models.JobContext, limit float64) (float64, []string) {
	if len(p.Skills) == 0 {
		return 0, nil
	}

	personSkills := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		personSkills[strings.ToLower(strings.TrimSpace(s))] = true
	}

	var score float64
	var matched bool
	if job != nil {
		for _, s := range job.RequiredSkills {
			if personSkills[strings.ToLower(s)] {
				score += 0.08
				matched = true
			}
		}
		for _, s := range job.NiceToHaveSkills {
			if personSkills[strings.ToLower(s)] {
				score += 0.04
				matched = true
			}
		}
	}
	if profile != nil {
		for _, s := range profile.Skills {
			if personSkills[strings.ToLower(s)] {
				score += 0.03
				matched = true
			}
		}
	}

	var fuzzy float64
	for abbr, expansions := range m.heuristics.SkillSynonyms {
		if !personSkills[abbr] {
			continue
		}
		for _, full := range expansions {
			if wantsSkill(profile, job, full) {
				fuzzy += 0.02
				matched = true
			}
		}
	}
	if fuzzy > 0.05 {
		fuzzy = 0.05
	}
	score += fuzzy

	if score > limit {
		score = limit
	}
	if !matched {
		return 0, nil
	}
	return score, []string{"skills"}
}

func wantsSkill(profile *models.CandidateProfile, job *models.JobContext, skill string) bool {
	skill = strings.ToLower(skill)
	if job != nil {
		for _, s := range job.RequiredSkills {
			if strings.ToLower(s) == skill {
				return true
			}
		}
		for _, s := range job.NiceToHaveSkills {
			if strings.ToLower(s) == skill {
				return true
			}
		}
	}
	if profile != nil {
		for _, s := range profile.Skills {
			if strings.ToLower(s) == skill {
				return true
			}
		}
	}
	return false
}

func (m *Matcher) sourceQuality(source string) float64 {
	best := 0.5
	var found bool
	for _, s := range strings.Split(source, ",") {
		if q, ok := m.quality[strings.TrimSpace(s)]; ok {
			if !found || q > best {
				best = q
				found = true
			}
		}
	}
	return best
}

var schoolNoise = []string{"university of", "university", "college of", "college", "institute of", "institute", "school of", "the "}

// stripSchoolNoise reduces "University of Michigan" to "michigan" so a
// mention of the distinctive part still matches.
func stripSchoolNoise(school string) string {
	s := strings.ToLower(strings.TrimSpace(school))
	for _, noise := range schoolNoise {
		s = strings.ReplaceAll(s, noise, " ")
	}
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

func personHaystack(p models.Person) string {
	parts := []string{p.Title, p.Department, p.Location}
	parts = append(parts, p.Skills...)
	return strings.ToLower(strings.Join(parts, " "))
}

func fieldMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
