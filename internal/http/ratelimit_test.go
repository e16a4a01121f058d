package http

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

// newTestLimiter returns a limiter with a controllable clock and no sweep
// goroutine running in the background.
func newTestLimiter(start time.Time) (*rateLimiter, *time.Time) {
	clock := start
	rl := &rateLimiter{
		seen:      make(map[string]*ipWindow),
		now:       func() time.Time { return clock },
		stopSweep: make(chan struct{}),
	}
	return rl, &clock
}

func TestAllowWithinBudget(t *testing.T) {
	rl, _ := newTestLimiter(time.Now())
	var m securityMetrics

	for i := 0; i < mutationBudget; i++ {
		if !rl.allow("10.0.0.1", &m) {
			t.Fatalf("request %d denied, budget is %d", i+1, mutationBudget)
		}
	}
	if got := atomic.LoadInt64(&m.rateLimitHits); got != 0 {
		t.Fatalf("rateLimitHits = %d, want 0", got)
	}
}

func TestDenyOverBudget(t *testing.T) {
	rl, _ := newTestLimiter(time.Now())
	var m securityMetrics

	for i := 0; i < mutationBudget; i++ {
		rl.allow("10.0.0.1", &m)
	}
	if rl.allow("10.0.0.1", &m) {
		t.Fatal("request over budget was allowed")
	}
	if rl.allow("10.0.0.1", &m) {
		t.Fatal("second request over budget was allowed")
	}
	if got := atomic.LoadInt64(&m.rateLimitHits); got != 2 {
		t.Fatalf("rateLimitHits = %d, want 2", got)
	}
}

func TestWindowResetsAfterExpiry(t *testing.T) {
	rl, clock := newTestLimiter(time.Now())
	var m securityMetrics

	for i := 0; i <= mutationBudget; i++ {
		rl.allow("10.0.0.1", &m)
	}
	*clock = clock.Add(limitWindow)

	if !rl.allow("10.0.0.1", &m) {
		t.Fatal("request denied after the window expired")
	}
}

func TestClientsCountedSeparately(t *testing.T) {
	rl, _ := newTestLimiter(time.Now())
	var m securityMetrics

	for i := 0; i <= mutationBudget; i++ {
		rl.allow("10.0.0.1", &m)
	}
	if !rl.allow("10.0.0.2", &m) {
		t.Fatal("a fresh client was denied because of another client's traffic")
	}
}

func TestSweepDropsStaleWindows(t *testing.T) {
	rl, clock := newTestLimiter(time.Now())
	var m securityMetrics

	for i := 0; i < 4; i++ {
		rl.allow(fmt.Sprintf("10.0.0.%d", i), &m)
	}
	*clock = clock.Add(staleAfter + time.Second)
	rl.allow("10.0.0.100", &m)
	rl.sweepStale()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.seen) != 1 {
		t.Fatalf("seen has %d entries after sweep, want 1", len(rl.seen))
	}
	if _, ok := rl.seen["10.0.0.100"]; !ok {
		t.Fatal("the active client was swept")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := newRateLimiter()
	rl.stop()
	rl.stop()
}
