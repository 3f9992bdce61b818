// internal/pipeline/validator/validator.go
// Package validator filters out people unlikely to be genuine current
// employees of the target company and rescales confidence along the way.
package validator

import (
	"regexp"
	"sort"
	"strings"

	"connection-finder/internal/common/config"
	"connection-finder/internal/common/logger"
	"connection-finder/internal/common/metrics"
	"connection-finder/internal/models"
)

// Rejection reasons recorded in validation metrics.
const (
	ReasonNameIsCompany   = "name_matches_company"
	ReasonPastEmployment  = "past_employment"
	ReasonCompanyMismatch = "company_mismatch"
	ReasonLowConfidence   = "low_confidence"
	ReasonNoIdentifiers   = "no_linkedin_or_title"
)

var (
	dateRangeRe = regexp.MustCompile(`(?i)(\w+\s+\d{4})\s*[-–]\s*(present|current)`)
	presentRe   = regexp.MustCompile(`(?i)\b(present|current)\b`)
	atCompanyRe = regexp.MustCompile(`(?i)\bat\s+([A-Za-z0-9][\w&.' -]*)`)
)

// Details records what each check contributed, for observability.
type Details struct {
	ChecksPassed []string           `json:"checks_passed"`
	ChecksFailed []string           `json:"checks_failed"`
	Warnings     []string           `json:"warnings,omitempty"`
	Breakdown    map[string]float64 `json:"breakdown"`
}

// Decision is the outcome of validating one person.
type Decision struct {
	Valid        bool
	Confidence   float64
	RejectReason string
	Details      Details
}

// Validator applies the multiplicative rule chain. Rules run in a fixed
// order; a rule that drives confidence below the short-circuit threshold
// ends evaluation with an invalid decision.
type Validator struct {
	heuristics    config.ValidationHeuristics
	minConfidence float64
	shortCircuit  float64
	log           logger.Logger
}

func New(h config.ValidationHeuristics, minConfidence, shortCircuit float64, log logger.Logger) *Validator {
	if minConfidence <= 0 {
		minConfidence = 0.3
	}
	if shortCircuit <= 0 {
		shortCircuit = 0.2
	}
	if h.ProximityWindow <= 0 {
		h.ProximityWindow = 50
	}
	return &Validator{heuristics: h, minConfidence: minConfidence, shortCircuit: shortCircuit, log: log}
}

// Validate evaluates one person against a target company. Confidence
// starts at 1.0 and every rule scales it.
func (v *Validator) Validate(p models.Person, company, domain string) Decision {
	d := Decision{
		Confidence: 1.0,
		Details:    Details{Breakdown: make(map[string]float64)},
	}

	companyNorm := normalize(company)
	titleNorm := normalize(p.Title)

	// 1. A "person" whose name is the company is a mis-extracted entity.
	if nameMatchesCompany(normalize(p.Name), companyNorm) {
		d.Confidence *= 0.1
		d.Details.Breakdown["name_matches_company"] = 0.1
		return v.reject(d, ReasonNameIsCompany, "name_matches_company")
	}
	d.pass("name_matches_company")

	// 2. Past-employment signals vs current-employment evidence.
	net := v.employmentSignal(titleNorm, companyNorm)
	d.Details.Breakdown["employment_signal"] = net
	if net < 0 {
		d.Confidence *= 0.2
		return v.reject(d, ReasonPastEmployment, "past_employment")
	}
	if net > 0 {
		boost := 1.0 + net*0.15
		if boost > 1.3 {
			boost = 1.3
		}
		d.Confidence *= boost
		d.Details.Breakdown["current_employment_boost"] = boost
	}
	d.pass("past_employment")

	// 3. Spam or generic-availability profile.
	if spamHits(titleNorm, v.heuristics.SpamIndicators) >= 2 {
		d.Confidence *= 0.5
		d.Details.Breakdown["spam_profile"] = 0.5
		d.Details.Warnings = append(d.Details.Warnings, "spam_profile")
	} else {
		d.pass("spam_profile")
	}

	// 4. Missing information. GitHub-sourced entries without LinkedIn or
	// a title are kept for later enrichment instead of being dropped.
	if p.LinkedInURL == "" && strings.TrimSpace(p.Title) == "" && !isGitHubSource(p.Source) {
		d.Confidence *= 0.2
		d.Details.Breakdown["no_identifiers"] = 0.2
		return v.reject(d, ReasonNoIdentifiers, "missing_information")
	}
	penalty := missingInfoPenalty(p)
	if penalty > 0 {
		d.Confidence *= 1.0 - penalty
		d.Details.Breakdown["missing_info_penalty"] = penalty
		d.Details.Warnings = append(d.Details.Warnings, "incomplete_record")
	} else {
		d.pass("missing_information")
	}
	if d.Confidence < v.shortCircuit {
		return v.reject(d, ReasonLowConfidence, "missing_information")
	}

	// 5. A title naming a different company, or a curated confusable.
	if mismatch := v.companyMismatch(titleNorm, companyNorm); mismatch != "" {
		d.Confidence *= 0.3
		d.Details.Breakdown["company_mismatch"] = 0.3
		d.RejectReason = ReasonCompanyMismatch
		d.Details.ChecksFailed = append(d.Details.ChecksFailed, "company_mismatch")
		d.Valid = false
		return d
	}
	d.pass("company_mismatch")

	// 6. How strongly the company actually appears in the record.
	ctx := companyContextScore(p, companyNorm, domain)
	d.Details.Breakdown["company_context"] = ctx
	switch {
	case ctx < 0.3:
		d.Confidence *= 0.5
		d.Details.Warnings = append(d.Details.Warnings, "weak_company_context")
	case ctx >= 0.7:
		d.Confidence *= 1.1
		d.pass("company_context")
	default:
		d.pass("company_context")
	}

	if d.Confidence > 1.0 {
		d.Confidence = 1.0
	}
	d.Valid = d.Confidence >= v.minConfidence
	if !d.Valid {
		d.RejectReason = ReasonLowConfidence
	}
	return d
}

func (v *Validator) reject(d Decision, reason, check string) Decision {
	d.Valid = false
	d.RejectReason = reason
	d.Details.ChecksFailed = append(d.Details.ChecksFailed, check)
	return d
}

func (d *Decision) pass(check string) {
	d.Details.ChecksPassed = append(d.Details.ChecksPassed, check)
}

// employmentSignal nets current-employment evidence against weighted
// past-employment keywords. Positive means likely current.
func (v *Validator) employmentSignal(title, company string) float64 {
	if title == "" {
		return 0
	}

	companyIdx := strings.Index(title, company)

	var negative float64
	for keyword, weight := range v.heuristics.NegativeSignals {
		idx := strings.Index(title, keyword)
		if idx < 0 {
			continue
		}
		// a signal near the company mention counts full weight,
		// a distant one half
		if companyIdx >= 0 && abs(idx-companyIdx) <= v.heuristics.ProximityWindow {
			negative += weight
		} else {
			negative += weight * 0.5
		}
	}

	var positive float64
	if dateRangeRe.MatchString(title) {
		positive += 2.0
	} else if presentRe.MatchString(title) {
		positive += 1.5
	}
	// company mentioned in the leading portion reads as the current role
	if companyIdx >= 0 && companyIdx <= v.heuristics.ProximityWindow {
		positive += 1.0
	}

	return positive - negative
}

func (v *Validator) companyMismatch(title, company string) string {
	if title == "" {
		return ""
	}
	for _, confusable := range v.heuristics.FalsePositiveCompanies[company] {
		c := normalize(confusable)
		if c != company && strings.Contains(title, c) {
			return confusable
		}
	}
	m := atCompanyRe.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	mentioned := normalize(m[1])
	if mentioned == "" {
		return ""
	}
	if strings.Contains(mentioned, company) || strings.Contains(company, mentioned) {
		return ""
	}
	return m[1]
}

func missingInfoPenalty(p models.Person) float64 {
	var penalty float64
	if strings.TrimSpace(p.Title) == "" {
		penalty += 0.25
	}
	if p.LinkedInURL == "" {
		penalty += 0.15
	}
	if p.Location == "" {
		penalty += 0.1
	}
	if len(p.Skills) == 0 {
		penalty += 0.1
	}
	if p.Email == "" {
		penalty += 0.1
	}
	if penalty > 0.7 {
		penalty = 0.7
	}
	return penalty
}

// companyContextScore measures how strongly the target company shows up
// across the person's fields, 0 to 1.
func companyContextScore(p models.Person, company, domain string) float64 {
	var score float64

	recordCompany := normalize(p.Company)
	switch {
	case recordCompany == company:
		score += 0.5
	case recordCompany != "" && (strings.Contains(recordCompany, company) || strings.Contains(company, recordCompany)):
		score += 0.25
	}

	if strings.Contains(normalize(p.Title), company) {
		score += 0.3
	}
	if domain != "" {
		if strings.HasSuffix(strings.ToLower(p.Email), "@"+strings.ToLower(domain)) {
			score += 0.2
		}
		if strings.Contains(strings.ToLower(p.EvidenceURL), strings.ToLower(domain)) {
			score += 0.1
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func nameMatchesCompany(name, company string) bool {
	if name == "" || company == "" {
		return false
	}
	if name == company {
		return true
	}
	if strings.Contains(company, " ") {
		return strings.Contains(name, company)
	}
	for _, word := range strings.Fields(name) {
		if word == company {
			return true
		}
	}
	return false
}

func spamHits(title string, indicators []string) int {
	var hits int
	for _, s := range indicators {
		if strings.Contains(title, normalize(s)) {
			hits++
		}
	}
	return hits
}

func isGitHubSource(source string) bool {
	return strings.Contains(strings.ToLower(source), "github")
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ValidateBatch validates every person, drops the invalid, rescales the
// survivors' confidence, dedupes by name keeping the highest confidence,
// and returns the survivors sorted by confidence descending together
// with batch metrics.
func (v *Validator) ValidateBatch(people []models.Person, company, domain string) ([]models.Person, models.ValidationMetrics) {
	vm := models.ValidationMetrics{
		TotalProcessed:   len(people),
		RejectionReasons: make(map[string]int),
	}

	byName := make(map[string]models.Person)
	var order []string
	for _, p := range people {
		decision := v.Validate(p, company, domain)
		if !decision.Valid {
			vm.Rejected++
			vm.RejectionReasons[decision.RejectReason]++
			metrics.ValidationRejections.WithLabelValues(decision.RejectReason).Inc()
			v.log.Debug("rejected person", map[string]interface{}{
				"name":    p.Name,
				"reason":  decision.RejectReason,
				"company": company,
			})
			continue
		}

		p.ConfidenceScore = decision.Confidence
		p.Normalize()

		key := normalize(p.Name)
		if existing, ok := byName[key]; !ok {
			byName[key] = p
			order = append(order, key)
		} else if p.ConfidenceScore > existing.ConfidenceScore {
			byName[key] = p
		}
	}

	out := make([]models.Person, 0, len(order))
	var confidenceSum float64
	for _, key := range order {
		out = append(out, byName[key])
		confidenceSum += byName[key].ConfidenceScore
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConfidenceScore > out[j].ConfidenceScore
	})

	vm.ValidResults = len(out)
	if len(out) > 0 {
		vm.AverageConfidence = models.Round2(confidenceSum / float64(len(out)))
	}
	return out, vm
}
