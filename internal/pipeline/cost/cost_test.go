package cost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerAccumulatesPerSource(t *testing.T) {
	tr := NewTracker()
	tr.Record("apollo", 0.05)
	tr.Record("apollo", 0.05)
	tr.Record("github", 0)

	assert.InDelta(t, 0.10, tr.TotalCost(), 1e-9)
	assert.InDelta(t, 0.10, tr.SourceCost("apollo"), 1e-9)
	assert.Zero(t, tr.SourceCost("github"))

	stats := tr.Stats()
	assert.Equal(t, 3, stats.TotalRequests)
	assert.Equal(t, 2, stats.BySource["apollo"].Requests)
	assert.Equal(t, 1, stats.BySource["github"].Requests)
	assert.False(t, stats.StartedAt.IsZero())
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.Record("apollo", 1.5)
	tr.Reset()

	assert.Zero(t, tr.TotalCost())
	assert.Empty(t, tr.Stats().BySource)
}

func TestTrackerConcurrentRecords(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Record("apollo", 0.01)
		}()
	}
	wg.Wait()

	stats := tr.Stats()
	assert.Equal(t, 50, stats.TotalRequests)
	assert.InDelta(t, 0.5, stats.TotalCost, 1e-9)
}
