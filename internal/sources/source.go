// internal/sources/source.go
// Package sources defines the discovery capability contract and the
// registry that the pipeline selects sources from.
package sources

import (
	"context"

	"connection-finder/internal/models"
)

// SearchOptions carries optional context through to a source.
type SearchOptions struct {
	Domain     string
	Profile    *models.CandidateProfile
	Job        *models.JobContext
	MaxResults int
}

// Capability is implemented by each people-discovery backend.
// SearchPeople must honor ctx cancellation and return raw, uncategorized
// people with a best-effort confidence score.
type Capability interface {
	Name() string
	IsConfigured() bool
	SearchPeople(ctx context.Context, company, title string, opts SearchOptions) ([]models.Person, error)
}
