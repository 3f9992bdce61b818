// internal/sources/registry.go
package sources

import (
	"sort"
	"sync"

	"connection-finder/internal/common/config"
)

// Registry holds the registered capabilities together with their
// operator-provided settings (quality, cost, rate limits, tags).
type Registry struct {
	mu       sync.RWMutex
	sources  map[string]Capability
	settings map[string]config.SourceConfig
}

func NewRegistry(settings map[string]config.SourceConfig) *Registry {
	if settings == nil {
		settings = map[string]config.SourceConfig{}
	}
	return &Registry{
		sources:  make(map[string]Capability),
		settings: settings,
	}
}

// Register adds a capability. Later registrations under the same name
// replace earlier ones.
func (r *Registry) Register(s Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.Name()] = s
}

// Get returns a capability by name.
func (r *Registry) Get(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

// Settings returns the configured settings for a source. Unknown sources
// get a neutral default so an unconfigured registration still works.
func (r *Registry) Settings(name string) config.SourceConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.settings[name]; ok {
		return s
	}
	return config.SourceConfig{Enabled: true, Quality: 0.5, RateLimit: 1, MaxPerHour: 100}
}

// Enabled returns the registered, enabled, configured capabilities
// ordered by priority, 1 first (ties broken by name for stability).
func (r *Registry) Enabled() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Capability
	for name, s := range r.sources {
		if cfg, ok := r.settings[name]; ok && !cfg.Enabled {
			continue
		}
		if !s.IsConfigured() {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		pi := r.priorityLocked(out[i].Name())
		pj := r.priorityLocked(out[j].Name())
		if pi != pj {
			return pi < pj
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

// priorityLocked treats unset priority as lowest.
func (r *Registry) priorityLocked(name string) int {
	if cfg, ok := r.settings[name]; ok && cfg.Priority > 0 {
		return cfg.Priority
	}
	return 1 << 30
}

// QualityMap returns source name to quality score for ranking.
func (r *Registry) QualityMap() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]float64, len(r.settings))
	for name, cfg := range r.settings {
		out[name] = cfg.Quality
	}
	return out
}

// Tags returns the configured tags for a source.
func (r *Registry) Tags(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings[name].Tags
}
