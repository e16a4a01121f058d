package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// Only mutating routes pass through the limiter, and the UI issues at most
// one mutation per user action, so the budget can sit well below a generic
// per-request ceiling without ever bothering a real person.
const (
	mutationBudget = 30
	limitWindow    = time.Minute
	staleAfter     = 5 * time.Minute
	sweepEvery     = 2 * time.Minute
)

// rateLimiter counts mutations per client IP over a fixed window.
type rateLimiter struct {
	mu        sync.Mutex
	seen      map[string]*ipWindow
	now       func() time.Time
	stopSweep chan struct{}
	stopOnce  sync.Once
}

type ipWindow struct {
	start time.Time
	count int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		seen:      make(map[string]*ipWindow),
		now:       time.Now,
		stopSweep: make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// allow records one mutation for clientIP and reports whether it fits the
// current window. A breach bumps the rate-limit counter in metrics.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.seen[clientIP]
	if !ok || now.Sub(w.start) >= limitWindow {
		rl.seen[clientIP] = &ipWindow{start: now, count: 1}
		return true
	}

	w.count++
	if w.count > mutationBudget {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}

func (rl *rateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweepStale()
		case <-rl.stopSweep:
			return
		}
	}
}

// sweepStale drops windows that opened long before the cutoff, so an idle
// server does not hold an entry per IP it has ever seen.
func (rl *rateLimiter) sweepStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-staleAfter)
	for ip, w := range rl.seen {
		if w.start.Before(cutoff) {
			delete(rl.seen, ip)
		}
	}
}

// stop ends the sweep goroutine. Safe to call more than once.
func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.stopSweep) })
}
