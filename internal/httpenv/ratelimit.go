package httpenv

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiters throttles outbound fetches per remote host, keyed and
// cleaned up automatically the way a per-client-IP rate limiter would be,
// but keyed on the addon host instead, so one chatty addon can't starve
// requests to the platform API or another addon sharing the same
// process.
type hostLimiters struct {
	mu     sync.Mutex
	limit  rate.Limit
	burst  int
	m      map[string]*hostLimiterEntry
	stop   chan struct{}
	stopOnce sync.Once
}

type hostLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

const limiterStaleAfter = time.Hour

// newHostLimiters builds a limiter keyed per host; ratePerSecond <= 0
// disables limiting entirely (Allow always true).
func newHostLimiters(ratePerSecond float64, burst int) *hostLimiters {
	hl := &hostLimiters{
		limit: rate.Limit(ratePerSecond),
		burst: burst,
		m:     make(map[string]*hostLimiterEntry),
		stop:  make(chan struct{}),
	}
	if ratePerSecond > 0 {
		go hl.cleanupLoop()
	}
	return hl
}

// Allow reports whether a fetch to host may proceed now.
func (hl *hostLimiters) Allow(host string) bool {
	if hl.limit <= 0 {
		return true
	}
	hl.mu.Lock()
	entry, ok := hl.m[host]
	if !ok {
		entry = &hostLimiterEntry{limiter: rate.NewLimiter(hl.limit, hl.burst)}
		hl.m[host] = entry
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	hl.mu.Unlock()
	return limiter.Allow()
}

func (hl *hostLimiters) cleanupLoop() {
	ticker := time.NewTicker(limiterStaleAfter)
	defer ticker.Stop()
	for {
		select {
		case <-hl.stop:
			return
		case <-ticker.C:
			hl.cleanup()
		}
	}
}

func (hl *hostLimiters) cleanup() {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	cutoff := time.Now().Add(-limiterStaleAfter)
	for host, entry := range hl.m {
		if entry.lastAccess.Before(cutoff) {
			delete(hl.m, host)
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (hl *hostLimiters) Stop() {
	hl.stopOnce.Do(func() { close(hl.stop) })
}
