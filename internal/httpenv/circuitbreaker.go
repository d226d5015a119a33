package httpenv

import (
	"net/url"
	"sync"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/catalogcore/internal/coremetrics"
)

// breakers keeps one gobreaker.CircuitBreaker per remote host, created
// lazily on first use, so a single misbehaving addon can't trip calls to
// every other installed addon or to the platform API.
type breakers struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig
	m   map[string]*gobreaker.CircuitBreaker[fetchResult]
}

func newBreakers(cfg CircuitBreakerConfig) *breakers {
	return &breakers{cfg: cfg, m: make(map[string]*gobreaker.CircuitBreaker[fetchResult])}
}

func (b *breakers) forURL(rawURL string) *gobreaker.CircuitBreaker[fetchResult] {
	host := hostOf(rawURL)

	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.m[host]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker[fetchResult](gobreaker.Settings{
		Name:        host,
		MaxRequests: b.cfg.MaxRequests,
		Interval:    b.cfg.Interval,
		Timeout:     b.cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= b.cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			coremetrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	b.m[host] = cb
	return cb
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 0.5
	default:
		return 0
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
