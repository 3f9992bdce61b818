package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitUnconfiguredSourcePassesThrough(t *testing.T) {
	l := New()
	waited, err := l.Wait(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), waited)
}

func TestWaitBlocksWhenHourlyQuotaExhausted(t *testing.T) {
	l := New()
	l.Configure("github", 1000, 1)

	_, err := l.Wait(context.Background(), "github")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	released := make(chan error, 1)
	go func() {
		_, err := l.Wait(ctx, "github")
		released <- err
	}()

	select {
	case err := <-released:
		t.Fatalf("second request should block on the quota, got %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-released:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled wait never returned")
	}

	// the cancelled call must not have consumed quota
	used, quota := l.Stats("github")
	assert.Equal(t, 1, used)
	assert.Equal(t, 1, quota)
	assert.False(t, l.LastRequest("github").IsZero())
}

func TestWaitResumesOnceOldestRequestAgesOut(t *testing.T) {
	l := New()
	l.Configure("apollo", 0, 1)

	// seed a request that leaves the rolling window almost immediately
	l.mu.RLock()
	sl := l.sources["apollo"]
	l.mu.RUnlock()
	sl.history = append(sl.history, time.Now().Add(-time.Hour+30*time.Millisecond))

	start := time.Now()
	_, err := l.Wait(context.Background(), "apollo")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	used, quota := l.Stats("apollo")
	assert.Equal(t, 1, used)
	assert.Equal(t, 1, quota)
}

func TestWaitPrunesExpiredHistory(t *testing.T) {
	l := New()
	l.Configure("apollo", 1000, 2)

	current := time.Now()
	l.now = func() time.Time { return current }

	ctx := context.Background()
	_, err := l.Wait(ctx, "apollo")
	require.NoError(t, err)
	_, err = l.Wait(ctx, "apollo")
	require.NoError(t, err)

	used, _ := l.Stats("apollo")
	assert.Equal(t, 2, used)

	// advance past the rolling window, quota frees up without waiting
	current = current.Add(61 * time.Minute)
	_, err = l.Wait(ctx, "apollo")
	require.NoError(t, err)

	used, _ = l.Stats("apollo")
	assert.Equal(t, 1, used)
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	l := New()
	// 1 req/sec with burst 1, so a second request must wait
	l.Configure("slow", 1, 0)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := l.Wait(ctx, "slow")
	require.NoError(t, err)

	cancel()
	_, err = l.Wait(ctx, "slow")
	assert.Error(t, err)
}
