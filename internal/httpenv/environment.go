// Package httpenv is the concrete env.Environment implementation that
// wires the core to real I/O: net/http for addon/API/streaming-server
// calls (each remote host guarded by its own gobreaker circuit breaker),
// wall-clock time, a goroutine-pool task executor, and a caller-supplied
// env.Storage (typically internal/kvstorage).
package httpenv

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/catalogcore/internal/coremetrics"
	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// fetchResult is the value the circuit breaker wraps around; it carries
// the decoded status/body pair so a trip/recovery decision can inspect
// nothing but the error gobreaker itself already tracks.
type fetchResult struct {
	status int
	body   []byte
}

// Environment implements env.Environment over real network/OS calls.
type Environment struct {
	client    *http.Client
	breakers  *breakers
	limiters  *hostLimiters
	storage   env.Storage
	analytics map[string]any
	userAgent string

	lastNow int64 // unix nanos, for the strictly-monotonic Now() guarantee
	nowMu   sync.Mutex

	wg sync.WaitGroup
}

// New builds an Environment. storage is typically *kvstorage.Store, kept
// as the env.Storage interface here so httpenv never imports Badger
// directly — that dependency belongs to kvstorage alone.
func New(cfg Config, storage env.Storage) *Environment {
	return &Environment{
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		breakers:  newBreakers(cfg.Breaker),
		limiters:  newHostLimiters(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		storage:   storage,
		analytics: cfg.Analytics,
		userAgent: cfg.UserAgent,
	}
}

// Close stops the Environment's background rate-limiter cleanup
// goroutine. Safe to skip — it only frees memory faster — but
// cmd/corectl calls it on shutdown for a clean exit.
func (e *Environment) Close() {
	e.limiters.Stop()
}

// Now implements env.Environment. It never returns a timestamp earlier
// than (or equal to, within the same process) the previous call, per
// spec.md §4.1's strict-monotonicity requirement.
func (e *Environment) Now() time.Time {
	e.nowMu.Lock()
	defer e.nowMu.Unlock()
	now := time.Now().UnixNano()
	if now <= e.lastNow {
		now = e.lastNow + 1
	}
	e.lastNow = now
	return time.Unix(0, now)
}

// Exec implements env.Environment: fire-and-forget task scheduling over
// an unbounded goroutine pool. Wait (not part of the interface, used by
// graceful shutdown in cmd/corectl) blocks until outstanding tasks drain
// or ctx is done.
func (e *Environment) Exec(ctx context.Context, task func(context.Context)) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		task(ctx)
	}()
}

// Wait blocks until every Exec'd task has returned, or ctx expires.
func (e *Environment) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// RandomU64 implements env.Environment using a CSPRNG; the value is only
// ever used for non-cryptographic jitter/salting, but crypto/rand avoids
// a process-global math/rand seed race across goroutines.
func (e *Environment) RandomU64() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand failing is a fatal host problem; fall back to the
		// current monotonic clock reading rather than panicking a
		// best-effort jitter source.
		return uint64(e.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// AnalyticsContext implements env.Environment.
func (e *Environment) AnalyticsContext() map[string]any {
	out := make(map[string]any, len(e.analytics))
	for k, v := range e.analytics {
		out[k] = v
	}
	return out
}

// AddonTransport implements env.Environment by handing back an
// addon.Factory bound to this Environment as its Fetcher.
func (e *Environment) AddonTransport(baseURL string) env.AddonTransportFactory {
	return addon.NewFactory(e, baseURL)
}

// GetStorage / SetStorage implement env.Storage by delegating to the
// injected storage backend.
func (e *Environment) GetStorage(ctx context.Context, key string, out any) (bool, error) {
	return e.storage.GetStorage(ctx, key, out)
}

func (e *Environment) SetStorage(ctx context.Context, key string, value any) error {
	return e.storage.SetStorage(ctx, key, value)
}

// Fetch implements env.Fetcher. It marshals req.Body (when non-nil),
// issues the HTTP call through the breaker for req.URL's host, and
// returns the raw response body for the caller to decode — mirroring
// addon.Factory's own "decode per resource shape" responsibility instead
// of doing it here.
func (e *Environment) Fetch(ctx context.Context, req env.HTTPRequest[any]) (env.FetchResult, error) {
	host := hostOf(req.URL)
	if !e.limiters.Allow(host) {
		return env.FetchResult{}, fmt.Errorf("httpenv: rate limit exceeded for %s", host)
	}

	cb := e.breakers.forURL(req.URL)
	start := e.Now()

	result, err := cb.Execute(func() (fetchResult, error) {
		return e.doFetch(ctx, req)
	})
	coremetrics.ObserveFetch(hostOf(req.URL), start, err)
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return env.FetchResult{}, fmt.Errorf("httpenv: circuit open for %s: %w", hostOf(req.URL), err)
		}
		return env.FetchResult{}, err
	}
	return env.FetchResult{StatusCode: result.status, Body: result.body}, nil
}

func (e *Environment) doFetch(ctx context.Context, req env.HTTPRequest[any]) (fetchResult, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if req.Body != nil {
		if raw, ok := req.Body.([]byte); ok {
			bodyReader = strings.NewReader(string(raw))
		} else {
			encoded, err := json.Marshal(req.Body)
			if err != nil {
				return fetchResult{}, fmt.Errorf("httpenv: marshal request body: %w", err)
			}
			bodyReader = strings.NewReader(string(encoded))
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return fetchResult{}, fmt.Errorf("httpenv: build request: %w", err)
	}
	if e.userAgent != "" {
		httpReq.Header.Set("User-Agent", e.userAgent)
	}
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return fetchResult{}, fmt.Errorf("httpenv: fetch %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fetchResult{}, fmt.Errorf("httpenv: read response body: %w", err)
	}
	if resp.StatusCode >= 500 {
		// Only 5xx counts as a breaker-tripping failure; 4xx is the
		// remote addon/API telling us something about our request, not
		// about its own health.
		return fetchResult{status: resp.StatusCode, body: body},
			fmt.Errorf("httpenv: %s returned %d", req.URL, resp.StatusCode)
	}
	return fetchResult{status: resp.StatusCode, body: body}, nil
}
