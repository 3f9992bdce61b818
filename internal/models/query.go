// internal/models/query.go
package models

// SearchQuery is the immutable request for one pipeline run.
type SearchQuery struct {
	Company  string            `json:"company"`
	Title    string            `json:"title"`
	Domain   string            `json:"domain,omitempty"`
	UseCache bool              `json:"use_cache"`
	Profile  *CandidateProfile `json:"profile,omitempty"`
	Job      *JobContext       `json:"job,omitempty"`
}

// CandidateProfile is the parsed job seeker profile used for relevance
// matching (alumni, ex-company, skills).
type CandidateProfile struct {
	Name            string   `json:"name,omitempty"`
	CurrentTitle    string   `json:"current_title,omitempty"`
	Schools         []string `json:"schools,omitempty"`
	PastCompanies   []string `json:"past_companies,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	LinkedInURL     string   `json:"linkedin_url,omitempty"`
	YearsExperience int      `json:"years_experience,omitempty"`
}

// JobContext carries what is known about the target job posting.
type JobContext struct {
	Company          string   `json:"company,omitempty"`
	CompanyDomain    string   `json:"company_domain,omitempty"`
	Title            string   `json:"title,omitempty"`
	Department       string   `json:"department,omitempty"`
	Location         string   `json:"location,omitempty"`
	RequiredSkills   []string `json:"required_skills,omitempty"`
	NiceToHaveSkills []string `json:"nice_to_have_skills,omitempty"`
}
