// internal/pipeline/categorizer/categorizer.go
// Package categorizer assigns the coarse role category used for
// diversity gating and ranking. Categorization is a pure function of
// (title, target title) over the configured keyword tables.
package categorizer

import (
	"strings"

	"connection-finder/internal/common/config"
	"connection-finder/internal/models"
)

type Categorizer struct {
	keywords config.CategoryKeywords
}

func New(keywords config.CategoryKeywords) *Categorizer {
	return &Categorizer{keywords: keywords}
}

// Categorize sets the person's category relative to the target title.
// Priority: recruiter > manager > senior (unless the target itself is
// senior) > exact peer keyword > fuzzy title similarity > abbreviation.
func (c *Categorizer) Categorize(p models.Person, targetTitle string) models.Person {
	p.Category = c.categorizeTitle(p.Title, targetTitle)
	return p
}

// CategorizeBatch labels every person in place.
func (c *Categorizer) CategorizeBatch(people []models.Person, targetTitle string) []models.Person {
	for i := range people {
		people[i] = c.Categorize(people[i], targetTitle)
	}
	return people
}

func (c *Categorizer) categorizeTitle(title, targetTitle string) models.Category {
	t := strings.ToLower(strings.TrimSpace(title))
	if t == "" {
		return models.CategoryUnknown
	}
	target := strings.ToLower(strings.TrimSpace(targetTitle))

	if containsAny(t, c.keywords.Recruiter) {
		return models.CategoryRecruiter
	}
	if containsAny(t, c.keywords.Manager) {
		return models.CategoryManager
	}
	// when the target role is itself senior, senior titles are peers,
	// so the senior bucket only applies to non-senior targets
	if !containsAny(target, c.keywords.Senior) && containsAny(t, c.keywords.Senior) {
		return models.CategorySenior
	}
	for _, role := range c.keywords.PeerRoles {
		if strings.Contains(t, role) && !containsAny(t, c.keywords.Manager) {
			return models.CategoryPeer
		}
	}
	if titlesSimilar(t, target) {
		return models.CategoryPeer
	}
	if c.abbreviationMatch(t, target) {
		return models.CategoryPeer
	}
	return models.CategoryUnknown
}

// IsEarlyCareerRole reports whether a title reads as entry-level.
func (c *Categorizer) IsEarlyCareerRole(title string) bool {
	return containsAny(strings.ToLower(title), c.keywords.EarlyCareer)
}

// CategoryCounts tallies people per category string.
func CategoryCounts(people []models.Person) map[string]int {
	out := make(map[string]int)
	for _, p := range people {
		out[string(p.Category)]++
	}
	return out
}

var seniorityPrefixes = []string{
	"senior ", "sr ", "sr. ", "staff ", "principal ", "junior ",
	"jr ", "jr. ", "lead ", "associate ",
}

func stripSeniority(title string) string {
	for changed := true; changed; {
		changed = false
		for _, prefix := range seniorityPrefixes {
			if strings.HasPrefix(title, prefix) {
				title = strings.TrimPrefix(title, prefix)
				changed = true
			}
		}
	}
	return strings.TrimSpace(title)
}

// titlesSimilar matches seniority-stripped titles by substring overlap.
func titlesSimilar(title, target string) bool {
	if title == "" || target == "" {
		return false
	}
	a := stripSeniority(title)
	b := stripSeniority(target)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// abbreviationMatch resolves short forms on either side, e.g. a "SWE"
// title against a "Software Engineer" target.
func (c *Categorizer) abbreviationMatch(title, target string) bool {
	for abbr, full := range c.keywords.Abbreviations {
		titleHasAbbr := containsWord(title, abbr)
		targetHasAbbr := containsWord(target, abbr)
		if titleHasAbbr && strings.Contains(target, full) {
			return true
		}
		if targetHasAbbr && strings.Contains(title, full) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		// short keywords like "hr" or "vp" match whole words only,
		// otherwise "chrome" would read as an HR title
		if len(k) <= 3 {
			if containsWord(s, k) {
				return true
			}
			continue
		}
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func containsWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if strings.Trim(f, ".,;:()") == word {
			return true
		}
	}
	return false
}
