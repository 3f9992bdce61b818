// internal/models/result.go
package models

import (
	"math"
	"time"
)

// RankedPerson is the serializable per-person entry of the final result.
// Category serializes as its string value, confidence rounded to 2 decimals.
type RankedPerson struct {
	Name        string  `json:"name"`
	Title       string  `json:"title,omitempty"`
	Company     string  `json:"company"`
	LinkedInURL string  `json:"linkedin_url,omitempty"`
	Email       string  `json:"email,omitempty"`
	Source      string  `json:"source"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	EvidenceURL string  `json:"evidence_url,omitempty"`

	Score        float64            `json:"score"`
	Breakdown    map[string]float64 `json:"breakdown,omitempty"`
	MatchReasons []string           `json:"match_reasons,omitempty"`
	Explanation  string             `json:"explanation,omitempty"`
}

// NewRankedPerson builds the output view of a scored person.
func NewRankedPerson(p Person, score float64, breakdown map[string]float64, reasons []string, explanation string) RankedPerson {
	return RankedPerson{
		Name:         p.Name,
		Title:        p.Title,
		Company:      p.Company,
		LinkedInURL:  p.LinkedInURL,
		Email:        p.Email,
		Source:       p.Source,
		Category:     string(p.Category),
		Confidence:   Round2(p.ConfidenceScore),
		EvidenceURL:  p.EvidenceURL,
		Score:        Round2(score),
		Breakdown:    breakdown,
		MatchReasons: reasons,
		Explanation:  explanation,
	}
}

// Round2 rounds to two decimal places for serialized scores.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SourceStats summarizes aggregation per source.
type SourceStats struct {
	TotalUnique        int            `json:"total_unique_people"`
	BySource           map[string]int `json:"by_source"`
	MultiSourceMatches int            `json:"multi_source_matches"`
	Failures           map[string]int `json:"failures,omitempty"`
	Skipped            []string       `json:"skipped,omitempty"`
}

// CostStats summarizes API spend per source.
type CostStats struct {
	TotalCost     float64                   `json:"total_cost"`
	BySource      map[string]SourceCostLine `json:"by_source"`
	TotalRequests int                       `json:"total_requests"`
	StartedAt     time.Time                 `json:"started_at"`
}

type SourceCostLine struct {
	Cost     float64 `json:"cost"`
	Requests int     `json:"requests"`
}

// ValidationMetrics summarizes the validation stage of one run.
type ValidationMetrics struct {
	TotalProcessed    int            `json:"total_processed"`
	Rejected          int            `json:"rejected"`
	RejectionReasons  map[string]int `json:"rejection_reasons,omitempty"`
	ValidResults      int            `json:"valid_results"`
	AverageConfidence float64        `json:"average_confidence"`
}

// QualityGateResult records what the sequential quality gates produced.
type QualityGateResult struct {
	HighConfidence    int  `json:"high_confidence"`
	AdditionalOptions int  `json:"additional_options"`
	RecruiterIncluded bool `json:"recruiter_included"`
	ManagerIncluded   bool `json:"manager_included"`
}

// Result is the stable, serializable pipeline output consumed by the
// persistence and API layers.
type Result struct {
	SearchID          string                    `json:"search_id"`
	Company           string                    `json:"company"`
	Title             string                    `json:"title"`
	TotalFound        int                       `json:"total_found"`
	ByCategory        map[string][]RankedPerson `json:"by_category"`
	CategoryCounts    map[string]int            `json:"category_counts"`
	SourceStats       SourceStats               `json:"source_stats"`
	CostStats         CostStats                 `json:"cost_stats"`
	ValidationMetrics ValidationMetrics         `json:"validation_metrics"`
	QualityGate       QualityGateResult         `json:"quality_gate"`
	ElapsedSeconds    float64                   `json:"elapsed_seconds"`
	FromCache         bool                      `json:"from_cache,omitempty"`
}
