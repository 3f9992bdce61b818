// internal/sources/static.go
package sources

import (
	"context"
	"strings"

	"connection-finder/internal/models"
)

// StaticSource serves a fixed set of people filtered by company. It does
// no network I/O and backs demos and tests.
type StaticSource struct {
	name   string
	people []models.Person
}

func NewStaticSource(name string, people []models.Person) *StaticSource {
	return &StaticSource{name: name, people: people}
}

func (s *StaticSource) Name() string       { return s.name }
func (s *StaticSource) IsConfigured() bool { return true }

func (s *StaticSource) SearchPeople(ctx context.Context, company, title string, opts SearchOptions) ([]models.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []models.Person
	want := strings.ToLower(strings.TrimSpace(company))
	for _, p := range s.people {
		if strings.ToLower(strings.TrimSpace(p.Company)) != want {
			continue
		}
		p.Source = s.name
		out = append(out, p)
		if opts.MaxResults > 0 && len(out) >= opts.MaxResults {
			break
		}
	}
	return out, nil
}
