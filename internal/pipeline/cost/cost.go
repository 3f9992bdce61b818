// internal/pipeline/cost/cost.go
// Package cost tracks per-source API spend across a process lifetime.
package cost

import (
	"sync"
	"time"

	"connection-finder/internal/models"
)

type sourceSpend struct {
	cost     float64
	requests int
}

// Tracker accumulates request counts and spend per source.
type Tracker struct {
	mu        sync.Mutex
	bySource  map[string]sourceSpend
	startedAt time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		bySource:  make(map[string]sourceSpend),
		startedAt: time.Now().UTC(),
	}
}

// Record adds one request and its cost for a source.
func (t *Tracker) Record(source string, cost float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.bySource[source]
	s.cost += cost
	s.requests++
	t.bySource[source] = s
}

func (t *Tracker) TotalCost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var total float64
	for _, s := range t.bySource {
		total += s.cost
	}
	return total
}

func (t *Tracker) SourceCost(source string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bySource[source].cost
}

// Stats snapshots the tracker into the serializable result form.
func (t *Tracker) Stats() models.CostStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := models.CostStats{
		BySource:  make(map[string]models.SourceCostLine, len(t.bySource)),
		StartedAt: t.startedAt,
	}
	for source, s := range t.bySource {
		out.BySource[source] = models.SourceCostLine{Cost: s.cost, Requests: s.requests}
		out.TotalCost += s.cost
		out.TotalRequests += s.requests
	}
	return out
}

// Reset clears all counters and restarts the tracking window.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bySource = make(map[string]sourceSpend)
	t.startedAt = time.Now().UTC()
}
