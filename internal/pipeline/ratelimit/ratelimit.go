// internal/pipeline/ratelimit/ratelimit.go
// Package ratelimit enforces per-source request rates and hourly quotas.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"connection-finder/internal/common/metrics"
)

type sourceLimit struct {
	mu          sync.Mutex
	limiter     *rate.Limiter
	maxPerHour  int
	lastRequest time.Time
	// timestamps of requests within the trailing hour, pruned on use
	history []time.Time
}

// Limiter coordinates request pacing across all sources. Each source
// carries a token bucket for steady-state rate plus a rolling hourly cap.
type Limiter struct {
	mu      sync.RWMutex
	sources map[string]*sourceLimit
	now     func() time.Time
}

func New() *Limiter {
	return &Limiter{
		sources: make(map[string]*sourceLimit),
		now:     time.Now,
	}
}

// Configure sets the per-second rate and hourly quota for a source.
// A zero or negative rps disables the token bucket for that source.
func (l *Limiter) Configure(source string, rps float64, maxPerHour int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sl := &sourceLimit{maxPerHour: maxPerHour}
	if rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		sl.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	l.sources[source] = sl
}

// Wait blocks until the source may issue a request, returning how long
// it waited. Unconfigured sources pass through immediately.
func (l *Limiter) Wait(ctx context.Context, source string) (time.Duration, error) {
	l.mu.RLock()
	sl, ok := l.sources[source]
	l.mu.RUnlock()
	if !ok {
		return 0, nil
	}

	start := l.now()

	if sl.maxPerHour > 0 {
		sl.mu.Lock()
		for {
			now := l.now()
			cutoff := now.Add(-time.Hour)
			kept := sl.history[:0]
			for _, t := range sl.history {
				if t.After(cutoff) {
					kept = append(kept, t)
				}
			}
			sl.history = kept
			if len(sl.history) < sl.maxPerHour {
				break
			}
			// quota exhausted, sleep until the oldest entry leaves the window
			wakeAt := sl.history[0].Add(time.Hour)
			sl.mu.Unlock()
			timer := time.NewTimer(wakeAt.Sub(now))
			select {
			case <-ctx.Done():
				timer.Stop()
				return l.now().Sub(start), ctx.Err()
			case <-timer.C:
			}
			sl.mu.Lock()
		}
		sl.mu.Unlock()
	}

	if sl.limiter != nil {
		if err := sl.limiter.Wait(ctx); err != nil {
			return l.now().Sub(start), err
		}
	}

	// record only once every wait has cleared, so a cancelled call
	// does not consume quota
	done := l.now()
	sl.mu.Lock()
	if sl.maxPerHour > 0 {
		sl.history = append(sl.history, done)
	}
	sl.lastRequest = done
	sl.mu.Unlock()

	waited := done.Sub(start)
	metrics.RateLimitWaits.WithLabelValues(source).Observe(waited.Seconds())
	return waited, nil
}

// Stats reports the number of requests recorded for a source within the
// trailing hour and its configured quota.
func (l *Limiter) Stats(source string) (used, quota int) {
	l.mu.RLock()
	sl, ok := l.sources[source]
	l.mu.RUnlock()
	if !ok {
		return 0, 0
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	cutoff := l.now().Add(-time.Hour)
	for _, t := range sl.history {
		if t.After(cutoff) {
			used++
		}
	}
	return used, sl.maxPerHour
}

// LastRequest reports when the source was last allowed through.
func (l *Limiter) LastRequest(source string) time.Time {
	l.mu.RLock()
	sl, ok := l.sources[source]
	l.mu.RUnlock()
	if !ok {
		return time.Time{}
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.lastRequest
}
