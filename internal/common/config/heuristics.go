// internal/common/config/heuristics.go
package config

// Heuristics holds the keyword and weight tables the pipeline matches
// against. They are tuning data, loaded from configs/heuristics.yaml,
// not code; the defaults below are the shipped baseline.
type Heuristics struct {
	Categories CategoryKeywords     `mapstructure:"categories"`
	Validation ValidationHeuristics `mapstructure:"validation"`
	Matching   MatchingHeuristics   `mapstructure:"matching"`
	Ranking    RankingHeuristics    `mapstructure:"ranking"`
	Selection  SelectionHeuristics  `mapstructure:"selection"`
	Domains    map[string]string    `mapstructure:"domains"` // company name -> website domain
}

// CategoryKeywords drive role categorization. First match wins in the
// order recruiter > manager > senior > peer.
type CategoryKeywords struct {
	Recruiter     []string          `mapstructure:"recruiter"`
	Manager       []string          `mapstructure:"manager"`
	Senior        []string          `mapstructure:"senior"`
	PeerRoles     []string          `mapstructure:"peer_roles"`
	EarlyCareer   []string          `mapstructure:"early_career"`
	Abbreviations map[string]string `mapstructure:"abbreviations"` // "swe" -> "software engineer"
}

type ValidationHeuristics struct {
	// NegativeSignals maps a past-employment keyword to its weight.
	// Weights accumulate when the keyword sits near the company mention.
	NegativeSignals map[string]float64 `mapstructure:"negative_signals"`
	SpamIndicators  []string           `mapstructure:"spam_indicators"`
	// FalsePositiveCompanies maps a target company to confusable company
	// names that must not be mistaken for it (e.g. "root" -> "roots ai").
	FalsePositiveCompanies map[string][]string `mapstructure:"false_positive_companies"`
	ProximityWindow        int                 `mapstructure:"proximity_window"` // chars between signal and company mention
}

// MatchWeights are the per-match-type weights used by the profile matcher.
type MatchWeights struct {
	Alumni     float64 `mapstructure:"alumni"`
	ExCompany  float64 `mapstructure:"ex_company"`
	Skills     float64 `mapstructure:"skills"`
	Department float64 `mapstructure:"department"`
	Location   float64 `mapstructure:"location"`
}

type MatchingHeuristics struct {
	BaseWeights      MatchWeights            `mapstructure:"base_weights"`
	StageMultipliers map[string]MatchWeights `mapstructure:"stage_multipliers"` // career stage -> multipliers
	SkillSynonyms    map[string][]string     `mapstructure:"skill_synonyms"`
}

// ScoringWeights are the ranking engine's five factor weights. They must
// sum to 1.0; the ranking engine validates this at construction.
type ScoringWeights struct {
	Employment    float64 `mapstructure:"employment"`
	RoleRelevance float64 `mapstructure:"role_relevance"`
	ProfileMatch  float64 `mapstructure:"profile_match"`
	DataQuality   float64 `mapstructure:"data_quality"`
	SourceQuality float64 `mapstructure:"source_quality"`
}

type RankingHeuristics struct {
	Weights ScoringWeights `mapstructure:"weights"`
	// CategoryRelevance maps career stage -> category -> importance.
	CategoryRelevance map[string]map[string]float64 `mapstructure:"category_relevance"`
}

// SelectionHeuristics steer primary-source ordering: when a keyword
// appears in the company or target title, sources carrying the mapped
// tag are preferred in phase 1.
type SelectionHeuristics struct {
	IndustryTags map[string]string `mapstructure:"industry_tags"`
	RoleTags     map[string]string `mapstructure:"role_tags"`
}

// DefaultHeuristics returns the shipped baseline tables.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Categories: CategoryKeywords{
			Recruiter: []string{
				"recruiter", "talent", "recruiting", "hiring",
				"hr", "human resources", "people operations",
				"people partner", "talent acquisition",
			},
			Manager: []string{
				"manager", "director", "head of", "vp", "vice president",
				"chief", "ceo", "cto", "cfo", "coo", "president",
				"lead", "leadership",
			},
			Senior: []string{
				"senior", "staff", "principal", "architect",
				"distinguished", "fellow",
			},
			PeerRoles: []string{
				"engineer", "developer", "designer", "scientist",
				"analyst", "researcher", "consultant", "specialist",
			},
			EarlyCareer: []string{
				"intern", "new grad", "junior", "entry", "associate",
				"graduate", "campus", "university",
			},
			Abbreviations: map[string]string{
				"swe": "software engineer",
				"sde": "software development engineer",
				"pm":  "product manager",
				"tpm": "technical program manager",
				"sre": "site reliability engineer",
				"ds":  "data scientist",
				"ml":  "machine learning",
				"qa":  "quality assurance",
			},
		},
		Validation: ValidationHeuristics{
			NegativeSignals: map[string]float64{
				"former":     2.0,
				"ex-":        2.0,
				"formerly":   2.0,
				"previously": 1.5,
				"alumni":     1.0,
				"was at":     1.0,
				"worked at":  1.0,
				"used to":    1.0,
				"retired":    1.5,
				"past":       1.0,
			},
			SpamIndicators: []string{
				"freelancer", "consultant", "available for hire",
				"seeking opportunities", "open to work", "looking for",
				"independent contractor", "self-employed",
			},
			FalsePositiveCompanies: map[string][]string{
				"root":   {"roots ai", "roots"},
				"stripe": {"stripes"},
				"meta":   {"metacore", "metabase"},
				"square": {"squarespace"},
			},
			ProximityWindow: 50,
		},
		Matching: MatchingHeuristics{
			BaseWeights: MatchWeights{
				Alumni:     0.3,
				ExCompany:  0.25,
				Skills:     0.2,
				Department: 0.15,
				Location:   0.1,
			},
			StageMultipliers: map[string]MatchWeights{
				"early_career":  {Alumni: 1.3, ExCompany: 0.8, Skills: 1.0, Department: 0.9, Location: 1.0},
				"mid_career":    {Alumni: 1.0, ExCompany: 1.1, Skills: 1.0, Department: 1.0, Location: 1.0},
				"senior_career": {Alumni: 0.8, ExCompany: 1.2, Skills: 0.9, Department: 1.1, Location: 1.0},
			},
			SkillSynonyms: map[string][]string{
				"js":  {"javascript"},
				"jsx": {"react"},
				"ts":  {"typescript"},
				"ml":  {"machine learning"},
				"ai":  {"artificial intelligence"},
				"py":  {"python"},
				"go":  {"golang"},
				"c++": {"cpp"},
				"k8s": {"kubernetes"},
			},
		},
		Ranking: RankingHeuristics{
			Weights: ScoringWeights{
				Employment:    0.3,
				RoleRelevance: 0.25,
				ProfileMatch:  0.2,
				DataQuality:   0.15,
				SourceQuality: 0.1,
			},
			CategoryRelevance: map[string]map[string]float64{
				"early_career": {
					"recruiter": 1.0, "manager": 0.85, "senior": 0.8, "peer": 0.7, "unknown": 0.2,
				},
				"mid_career": {
					"manager": 0.95, "recruiter": 0.9, "senior": 0.85, "peer": 0.75, "unknown": 0.3,
				},
				"senior_career": {
					"manager": 1.0, "senior": 0.9, "recruiter": 0.8, "peer": 0.7, "unknown": 0.4,
				},
			},
		},
		Selection: SelectionHeuristics{
			IndustryTags: map[string]string{
				"pharma":     "contact_db",
				"biotech":    "contact_db",
				"healthcare": "contact_db",
				"clinical":   "contact_db",
				"bank":       "contact_db",
				"fintech":    "free_aggregate",
			},
			RoleTags: map[string]string{
				"recruiter": "recruiting",
				"sourcer":   "recruiting",
				"engineer":  "code_hosting",
				"developer": "code_hosting",
			},
		},
		Domains: map[string]string{
			"meta":       "meta.com",
			"facebook":   "meta.com",
			"google":     "google.com",
			"alphabet":   "google.com",
			"microsoft":  "microsoft.com",
			"amazon":     "amazon.com",
			"apple":      "apple.com",
			"netflix":    "netflix.com",
			"stripe":     "stripe.com",
			"shopify":    "shopify.com",
			"salesforce": "salesforce.com",
			"airbnb":     "airbnb.com",
			"uber":       "uber.com",
			"databricks": "databricks.com",
			"snowflake":  "snowflake.com",
			"openai":     "openai.com",
			"anthropic":  "anthropic.com",
		},
	}
}
