// internal/models/person.go
package models

import (
	"strings"
	"time"
)

// Category is the coarse role classification of a person relative to the
// target job title.
type Category string

const (
	CategoryManager   Category = "manager"
	CategoryRecruiter Category = "recruiter"
	CategorySenior    Category = "senior"
	CategoryPeer      Category = "peer"
	CategoryUnknown   Category = "unknown"
)

// Categories lists every defined category in output order.
var Categories = []Category{
	CategoryManager,
	CategoryRecruiter,
	CategorySenior,
	CategoryPeer,
	CategoryUnknown,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryManager, CategoryRecruiter, CategorySenior, CategoryPeer, CategoryUnknown:
		return true
	}
	return false
}

// Person is a unified person record from any data source.
type Person struct {
	// Core identification
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company"`

	// Contact & profile info
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Email       string `json:"email,omitempty"`
	TwitterURL  string `json:"twitter_url,omitempty"`
	GitHubURL   string `json:"github_url,omitempty"`

	// Metadata
	Source          string   `json:"source"` // which data source found this person
	Category        Category `json:"category"`
	ConfidenceScore float64  `json:"confidence_score"`

	// Additional context
	Department      string   `json:"department,omitempty"`
	Location        string   `json:"location,omitempty"`
	ExperienceYears int      `json:"experience_years,omitempty"`
	Skills          []string `json:"skills,omitempty"`

	// Evidence & tracking
	EvidenceURL string    `json:"evidence_url,omitempty"`
	ScrapedAt   time.Time `json:"scraped_at,omitempty"`

	// Cost tracking
	APICost float64 `json:"api_cost,omitempty"`
}

// DedupeKey is the aggregator's normalized identity: lowercased name plus
// the LinkedIn URL when present.
func (p *Person) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(p.Name)) + "|" + strings.ToLower(strings.TrimSpace(p.LinkedInURL))
}

// Normalize enforces the record invariants before ranking: confidence
// clamped to [0,1] and a category always set.
func (p *Person) Normalize() {
	if p.ConfidenceScore < 0 {
		p.ConfidenceScore = 0
	}
	if p.ConfidenceScore > 1 {
		p.ConfidenceScore = 1
	}
	if !p.Category.Valid() || p.Category == "" {
		p.Category = CategoryUnknown
	}
}
